package agent

import (
	"testing"

	"github.com/freeeve/hanabi-bot/pkg/hanabi"
)

func TestDecodeEventDraw(t *testing.T) {
	ev, ok := decodeEvent(WireEvent{Type: "draw", Data: map[string]any{
		"player_index": 1.0, "order": 5.0, "suit_index": 2.0, "rank": 3.0,
	}})
	if !ok {
		t.Fatal("expected ok")
	}
	if ev.Type != hanabi.EventDraw || ev.PlayerIndex != 1 || ev.Order != 5 || ev.Suit != 2 || ev.Rank != 3 {
		t.Errorf("got %+v", ev)
	}
}

func TestDecodeEventDrawHiddenCard(t *testing.T) {
	ev, ok := decodeEvent(WireEvent{Type: "draw", Data: map[string]any{
		"player_index": 0.0, "order": 0.0,
	}})
	if !ok {
		t.Fatal("expected ok")
	}
	if ev.Suit != hanabi.UnknownSuit || ev.Rank != -1 {
		t.Errorf("expected hidden card defaults, got suit=%d rank=%d", ev.Suit, ev.Rank)
	}
}

func TestDecodeEventClue(t *testing.T) {
	ev, ok := decodeEvent(WireEvent{Type: "clue", Data: map[string]any{
		"giver": 0.0, "target": 1.0, "clue_type": 1.0, "clue_value": 3.0,
		"touched": []any{4.0, 6.0},
	}})
	if !ok {
		t.Fatal("expected ok")
	}
	if ev.Giver != 0 || ev.Target != 1 || ev.ClueKind != hanabi.RankClue || ev.ClueValue != 3 {
		t.Errorf("got %+v", ev)
	}
	if len(ev.TouchedOrders) != 2 || ev.TouchedOrders[0] != 4 || ev.TouchedOrders[1] != 6 {
		t.Errorf("got touched %v", ev.TouchedOrders)
	}
}

func TestDecodeEventStatusOptionalFields(t *testing.T) {
	ev, ok := decodeEvent(WireEvent{Type: "status", Data: map[string]any{"clues": 7.0}})
	if !ok {
		t.Fatal("expected ok")
	}
	if !ev.HasClues || ev.Clues != 7 {
		t.Errorf("expected clues present, got %+v", ev)
	}
	if ev.HasStrikes {
		t.Errorf("expected strikes absent")
	}
}

func TestDecodeEventUnknownType(t *testing.T) {
	if _, ok := decodeEvent(WireEvent{Type: "nonsense"}); ok {
		t.Fatal("expected unknown type to decode to ok=false")
	}
}

func TestEncodeAction(t *testing.T) {
	w := encodeAction(hanabi.ActionRequest{Type: hanabi.ActionRankClue, Target: 2, Value: 4})
	if w.Type != int(hanabi.ActionRankClue) || w.Target != 2 || w.Value != 4 {
		t.Errorf("got %+v", w)
	}
}
