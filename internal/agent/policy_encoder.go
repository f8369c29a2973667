package agent

import "github.com/freeeve/hanabi-bot/pkg/hanabi"

// encoderPolicy adapts hanabi.EncoderState to the Convention interface the
// driver speaks, matching the zero-logic adapter shape of
// internal/bot/strategy.go's Strategy wrappers.
type encoderPolicy struct {
	es *hanabi.EncoderState
}

func newEncoderPolicy(gs *hanabi.GameState) hanabi.Convention {
	return &encoderPolicy{es: hanabi.NewEncoderState(gs)}
}

func (p *encoderPolicy) OnEvent(ev hanabi.GameEvent) error           { return p.es.OnEvent(ev) }
func (p *encoderPolicy) ChooseAction() (hanabi.ActionRequest, error) { return p.es.ChooseAction() }
func (p *encoderPolicy) RenderNotes() []hanabi.NoteUpdate            { return p.es.RenderNotes() }
func (p *encoderPolicy) State() *hanabi.GameState                    { return p.es.State() }
