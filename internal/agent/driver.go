package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/freeeve/hanabi-bot/internal/logger"
	"github.com/freeeve/hanabi-bot/pkg/hanabi"
)

// Driver is an event-ingestion loop plus a turn trigger that runs the active
// convention's action policy once per turn: a Run/playLoop/waitForEvent
// shape, but event-driven instead of poll-driven, since the table pushes a
// full event per server action rather than requiring phase polling. The
// table roster, variant, and observer seat are only known once the server's
// "init" frame arrives, so the convention is constructed lazily on that
// event rather than up front; the authenticated lobby/join handshake that
// produces it is handled before the Driver is ever built.
type Driver struct {
	client              *Client
	conventionName      string
	disconnectOnGameEnd bool
	tableID             string

	conv        hanabi.Convention
	observerIdx int

	tableReady    bool
	actedThisTurn bool

	log zerolog.Logger
}

// NewDriver builds a Driver for tableID (used to tag its log lines) with the
// given convention ("encoder" or "hgroup"), whose state is built once the
// table's init frame arrives. Joining the table is done by the caller.
func NewDriver(client *Client, tableID, conventionName string, disconnectOnGameEnd bool) (*Driver, error) {
	if conventionName != "encoder" && conventionName != "hgroup" {
		return nil, fmt.Errorf("%w: unknown convention %q", hanabi.ErrProtocolViolation, conventionName)
	}
	return &Driver{
		client:              client,
		conventionName:      conventionName,
		disconnectOnGameEnd: disconnectOnGameEnd,
		tableID:             tableID,
		log:                 logger.ForTable(tableID, client.Name()),
	}, nil
}

// Run ingests events until the table ends, the connection closes, or ctx is
// cancelled. A mutator or policy error is logged and the stream continues.
// Panics are not recovered.
func (d *Driver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case w, ok := <-d.client.Events():
			if !ok {
				return fmt.Errorf("event stream closed")
			}
			if err := d.handle(w); err != nil {
				if err == errGameEnded {
					return nil
				}
				return err
			}
		}
	}
}

var errGameEnded = fmt.Errorf("game ended")

func (d *Driver) handle(w WireEvent) error {
	switch w.Type {
	case "table_gone", "game_ended":
		if d.disconnectOnGameEnd {
			d.client.CloseWS()
		}
		return errGameEnded
	case "connected":
		d.tableReady = true
		return nil
	case "init":
		d.initConvention(w)
		return nil
	}

	if d.conv == nil {
		d.log.Debug().Str("type", w.Type).Msg("dropping event received before table init")
		return nil
	}

	ev, ok := decodeEvent(w)
	if !ok {
		d.log.Debug().Str("type", w.Type).Msg("ignoring unrecognized event type")
		return nil
	}

	if err := d.conv.OnEvent(ev); err != nil {
		d.log.Warn().Err(err).Str("type", string(ev.Type)).Msg("event handling failed, continuing")
	}

	if ev.Type == hanabi.EventTurn {
		d.actedThisTurn = false
	}

	if d.shouldAct(ev) {
		if err := d.act(); err != nil {
			d.log.Warn().Err(err).Msg("action policy failed, continuing")
		}
		d.actedThisTurn = true
	}
	return nil
}

// initConvention builds the shared GameState and wraps it in the configured
// Convention from a server "init" frame's {variant, player_names, our_index}.
func (d *Driver) initConvention(w WireEvent) {
	variant, _ := w.Data["variant"].(string)
	observerIdx := intField(w.Data, "our_index")
	namesRaw, _ := w.Data["player_names"].([]any)
	names := make([]string, 0, len(namesRaw))
	for _, n := range namesRaw {
		if s, ok := n.(string); ok {
			names = append(names, s)
		}
	}

	gs := hanabi.NewGameState(variant, names, observerIdx)
	switch d.conventionName {
	case "encoder":
		d.conv = newEncoderPolicy(gs)
	case "hgroup":
		d.conv = newHGroupPolicy(gs)
	}
	d.observerIdx = observerIdx
	d.log.Info().Str("variant", variant).Strs("players", names).Int("seat", observerIdx).Msg("table initialized")
}

// shouldAct reports the turn trigger: the event just processed left the
// observer as current player, the table has signalled readiness
// ("connected"), and no action has been taken yet this turn.
func (d *Driver) shouldAct(ev hanabi.GameEvent) bool {
	if d.actedThisTurn || !d.tableReady {
		return false
	}
	return ev.Type == hanabi.EventTurn && ev.CurrentPlayer == d.observerIdx
}

func (d *Driver) act() error {
	req, err := d.conv.ChooseAction()
	if err != nil {
		return fmt.Errorf("choose action: %w", err)
	}
	if err := d.client.SendAction(encodeAction(req)); err != nil {
		return fmt.Errorf("send action: %w", err)
	}
	for _, n := range d.conv.RenderNotes() {
		if err := d.client.SendNote(n.Order, n.Text); err != nil {
			d.log.Warn().Err(err).Int("order", n.Order).Msg("note send failed")
		}
	}
	return nil
}
