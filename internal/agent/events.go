package agent

import (
	"github.com/freeeve/hanabi-bot/pkg/hanabi"
)

// decodeEvent turns a WireEvent's loosely-typed Data map into the one
// hanabi.GameEvent payload shape that matches its Type. Unknown types
// decode to a zero-value event with ok=false so the driver can silently
// ignore them.
func decodeEvent(w WireEvent) (hanabi.GameEvent, bool) {
	switch w.Type {
	case "draw":
		return hanabi.GameEvent{
			Type:        hanabi.EventDraw,
			PlayerIndex: intField(w.Data, "player_index"),
			Order:       intField(w.Data, "order"),
			Suit:        intFieldDefault(w.Data, "suit_index", hanabi.UnknownSuit),
			Rank:        intFieldDefault(w.Data, "rank", -1),
		}, true
	case "play":
		return hanabi.GameEvent{
			Type:        hanabi.EventPlay,
			PlayerIndex: intField(w.Data, "player_index"),
			Order:       intField(w.Data, "order"),
			Suit:        intField(w.Data, "suit_index"),
			Rank:        intField(w.Data, "rank"),
		}, true
	case "discard":
		return hanabi.GameEvent{
			Type:        hanabi.EventDiscard,
			PlayerIndex: intField(w.Data, "player_index"),
			Order:       intField(w.Data, "order"),
			Suit:        intField(w.Data, "suit_index"),
			Rank:        intField(w.Data, "rank"),
			Failed:      boolField(w.Data, "failed"),
		}, true
	case "clue":
		return hanabi.GameEvent{
			Type:          hanabi.EventClue,
			Giver:         intField(w.Data, "giver"),
			Target:        intField(w.Data, "target"),
			ClueKind:      hanabi.ClueKind(intField(w.Data, "clue_type")),
			ClueValue:     intField(w.Data, "clue_value"),
			TouchedOrders: intSliceField(w.Data, "touched"),
		}, true
	case "turn":
		return hanabi.GameEvent{
			Type:          hanabi.EventTurn,
			TurnNum:       intField(w.Data, "num"),
			CurrentPlayer: intField(w.Data, "current_player_index"),
		}, true
	case "status":
		clues, hasClues := w.Data["clues"]
		strikes, hasStrikes := w.Data["strikes"]
		return hanabi.GameEvent{
			Type:       hanabi.EventStatus,
			Clues:      intField(w.Data, "clues"),
			HasClues:   hasClues && clues != nil,
			Strikes:    intField(w.Data, "strikes"),
			HasStrikes: hasStrikes && strikes != nil,
		}, true
	case "strike":
		return hanabi.GameEvent{
			Type:      hanabi.EventStrike,
			StrikeNum: intField(w.Data, "num"),
		}, true
	default:
		return hanabi.GameEvent{}, false
	}
}

func intField(data map[string]any, key string) int {
	return intFieldDefault(data, key, 0)
}

func intFieldDefault(data map[string]any, key string, fallback int) int {
	v, ok := data[key]
	if !ok {
		return fallback
	}
	f, ok := v.(float64)
	if !ok {
		return fallback
	}
	return int(f)
}

func boolField(data map[string]any, key string) bool {
	v, _ := data[key].(bool)
	return v
}

func intSliceField(data map[string]any, key string) []int {
	raw, ok := data[key].([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return nil
		}
		out = append(out, int(f))
	}
	return out
}

// encodeAction converts an outbound ActionRequest into its wire
// {type, target, value} shape.
func encodeAction(a hanabi.ActionRequest) WireAction {
	return WireAction{Type: int(a.Type), Target: a.Target, Value: a.Value}
}
