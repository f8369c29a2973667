package agent

import "github.com/freeeve/hanabi-bot/pkg/hanabi"

// hgroupPolicy adapts hanabi.HGroupState to the Convention interface.
type hgroupPolicy struct {
	hs *hanabi.HGroupState
}

func newHGroupPolicy(gs *hanabi.GameState) hanabi.Convention {
	return &hgroupPolicy{hs: hanabi.NewHGroupState(gs)}
}

func (p *hgroupPolicy) OnEvent(ev hanabi.GameEvent) error           { return p.hs.OnEvent(ev) }
func (p *hgroupPolicy) ChooseAction() (hanabi.ActionRequest, error) { return p.hs.ChooseAction() }
func (p *hgroupPolicy) RenderNotes() []hanabi.NoteUpdate            { return p.hs.RenderNotes() }
func (p *hgroupPolicy) State() *hanabi.GameState                    { return p.hs.State() }
