package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/misops/tickboard/internal/board"
	"github.com/misops/tickboard/internal/domain"
)

// TransitionState tracks one status-change attempt through its lifecycle.
type TransitionState string

const (
	TransitionIdle       TransitionState = "idle"
	TransitionPending    TransitionState = "pending"
	TransitionConfirmed  TransitionState = "confirmed"
	TransitionRolledBack TransitionState = "rolledBack"
)

// IDGenerator returns unique identifiers for transition attempts.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Attempt is one optimistic status change awaiting backend confirmation.
// Seq is monotonic per ticket: when a newer attempt supersedes this one, the
// controller ignores this attempt's outcome instead of letting a late
// response clobber newer local state.
type Attempt struct {
	ID       string
	TicketID string
	To       domain.Status
	Seq      uint64
	Move     board.Move
}

// Outcome reports how an attempt resolved.
type Outcome struct {
	Attempt Attempt
	State   TransitionState
	Stale   bool
	Err     error
}

// TransitionController coordinates optimistic ticket moves with backend
// reconciliation. It is driven entirely from the single UI loop of control:
// Begin mutates the board synchronously before any network round trip, and
// Resolve applies the backend verdict when the confirmation command returns.
type TransitionController struct {
	updater StatusUpdater
	idGen   IDGenerator
	clock   Clock
	seqs    map[string]uint64
	states  map[string]TransitionState
}

// NewTransitionController constructs a controller over the given backend port.
func NewTransitionController(updater StatusUpdater, idGen IDGenerator, clock Clock) *TransitionController {
	if idGen == nil {
		idGen = uuid.NewString
	}
	if clock == nil {
		clock = time.Now
	}
	return &TransitionController{
		updater: updater,
		idGen:   idGen,
		clock:   clock,
		seqs:    map[string]uint64{},
		states:  map[string]TransitionState{},
	}
}

// State returns the current transition state for one ticket.
func (c *TransitionController) State(ticketID string) TransitionState {
	if state, ok := c.states[ticketID]; ok {
		return state
	}
	return TransitionIdle
}

// Begin applies the move to the board immediately and returns the pending
// attempt. A ticket missing from the board is a desync: the error is
// reported, nothing is mutated, and no backend call should be issued. A
// second Begin for a ticket whose previous attempt is still pending
// supersedes it; the latest user intent wins.
func (c *TransitionController) Begin(b *board.Board, ticketID string, to domain.Status) (Attempt, error) {
	record, _, err := b.ApplyMove(ticketID, to, c.clock())
	if err != nil {
		return Attempt{}, fmt.Errorf("begin transition for %s: %w", ticketID, err)
	}

	c.seqs[ticketID]++
	attempt := Attempt{
		ID:       c.idGen(),
		TicketID: ticketID,
		To:       to,
		Seq:      c.seqs[ticketID],
		Move:     record,
	}
	c.states[ticketID] = TransitionPending
	return attempt, nil
}

// Confirm performs the backend status update for a pending attempt.
func (c *TransitionController) Confirm(ctx context.Context, attempt Attempt) error {
	if err := c.updater.UpdateStatus(ctx, attempt.TicketID, attempt.To); err != nil {
		return fmt.Errorf("update status for %s: %w", attempt.TicketID, err)
	}
	return nil
}

// Resolve reconciles a backend verdict with the board. Stale attempts (a
// newer transition for the same ticket began while this one was in flight)
// are ignored outright; their board state was already superseded. On failure
// the ticket is restored to its pre-attempt column, status, and completion
// timestamp.
func (c *TransitionController) Resolve(b *board.Board, attempt Attempt, callErr error) Outcome {
	if attempt.Seq != c.seqs[attempt.TicketID] {
		return Outcome{Attempt: attempt, State: c.State(attempt.TicketID), Stale: true, Err: callErr}
	}

	if callErr == nil {
		c.states[attempt.TicketID] = TransitionConfirmed
		return Outcome{Attempt: attempt, State: TransitionConfirmed}
	}

	b.Revert(attempt.Move)
	c.states[attempt.TicketID] = TransitionRolledBack
	return Outcome{
		Attempt: attempt,
		State:   TransitionRolledBack,
		Err:     fmt.Errorf("%w: %v", ErrTransitionFailed, callErr),
	}
}
