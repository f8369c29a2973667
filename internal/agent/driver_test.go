package agent

import (
	"testing"

	"github.com/freeeve/hanabi-bot/pkg/hanabi"
)

type stubConvention struct {
	gs   *hanabi.GameState
	resp hanabi.ActionRequest
}

func (s *stubConvention) OnEvent(hanabi.GameEvent) error              { return nil }
func (s *stubConvention) ChooseAction() (hanabi.ActionRequest, error) { return s.resp, nil }
func (s *stubConvention) RenderNotes() []hanabi.NoteUpdate            { return nil }
func (s *stubConvention) State() *hanabi.GameState                    { return s.gs }

func newTestDriver() *Driver {
	return &Driver{
		client: &Client{events: make(chan WireEvent, 1)},
		conv:   &stubConvention{gs: hanabi.NewGameState("No Variant", []string{"a", "b"}, 0)},
	}
}

func TestShouldActRequiresTableReady(t *testing.T) {
	d := newTestDriver()
	ev := hanabi.GameEvent{Type: hanabi.EventTurn, CurrentPlayer: 0}
	if d.shouldAct(ev) {
		t.Fatal("expected false before table is marked ready")
	}
	d.tableReady = true
	if !d.shouldAct(ev) {
		t.Fatal("expected true once ready and it is the observer's turn")
	}
}

func TestShouldActOnlyOncePerTurn(t *testing.T) {
	d := newTestDriver()
	d.tableReady = true
	ev := hanabi.GameEvent{Type: hanabi.EventTurn, CurrentPlayer: 0}
	if !d.shouldAct(ev) {
		t.Fatal("expected true on first check")
	}
	d.actedThisTurn = true
	if d.shouldAct(ev) {
		t.Fatal("expected false once already acted this turn")
	}
}

func TestShouldActIgnoresOtherPlayersTurn(t *testing.T) {
	d := newTestDriver()
	d.tableReady = true
	ev := hanabi.GameEvent{Type: hanabi.EventTurn, CurrentPlayer: 1}
	if d.shouldAct(ev) {
		t.Fatal("expected false when another player is current")
	}
}

func TestHandleInitBuildsConvention(t *testing.T) {
	d := &Driver{client: &Client{events: make(chan WireEvent, 1)}, conventionName: "encoder"}
	err := d.handle(WireEvent{Type: "init", Data: map[string]any{
		"variant":      "No Variant",
		"our_index":    1.0,
		"player_names": []any{"alice", "bob"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if d.conv == nil {
		t.Fatal("expected convention to be built from init frame")
	}
	if d.observerIdx != 1 {
		t.Errorf("got observerIdx %d want 1", d.observerIdx)
	}
}

func TestHandleGameEndedSignalsDriverStop(t *testing.T) {
	d := newTestDriver()
	if err := d.handle(WireEvent{Type: "game_ended"}); err != errGameEnded {
		t.Fatalf("expected errGameEnded, got %v", err)
	}
}
