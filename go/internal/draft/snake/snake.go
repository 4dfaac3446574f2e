// Package snake holds the turn arithmetic of a snake draft. Everything here
// is a pure function of the draft counters and the number of drafters so
// it can be exercised without storage.
package snake

import (
	"errors"
	"fmt"
)

// ErrInvalidState is returned when persisted counters break the draft invariants.
var ErrInvalidState = errors.New("invalid draft state")

// State is the turn counter of a draft. Rounds and picks are 1-based;
// CurrentRound reaches TotalRounds+1 exactly when the draft is complete.
type State struct {
	TotalRounds  int  `json:"total_rounds"`
	CurrentRound int  `json:"current_round"`
	CurrentPick  int  `json:"current_pick"`
	IsComplete   bool `json:"is_complete"`
}

// Slot identifies one turn in the draft.
type Slot struct {
	Round       int `json:"round"`
	PickInRound int `json:"pick_in_round"`
	Overall     int `json:"overall"`
	// OrderIndex is the 0-based index into the draft order.
	OrderIndex int `json:"order_index"`
}

// New returns the opening state of a draft with totalRounds rounds.
func New(totalRounds int) State {
	return State{TotalRounds: totalRounds, CurrentRound: 1, CurrentPick: 1}
}

// Validate checks s against a draft order of n entries.
func (s State) Validate(n int) error {
	switch {
	case n <= 0:
		return fmt.Errorf("%w: draft order is empty", ErrInvalidState)
	case s.TotalRounds < 1:
		return fmt.Errorf("%w: total rounds %d", ErrInvalidState, s.TotalRounds)
	case s.CurrentRound < 1 || s.CurrentRound > s.TotalRounds+1:
		return fmt.Errorf("%w: round %d of %d", ErrInvalidState, s.CurrentRound, s.TotalRounds)
	case s.CurrentPick < 1 || s.CurrentPick > n:
		return fmt.Errorf("%w: pick %d of %d", ErrInvalidState, s.CurrentPick, n)
	case s.IsComplete != (s.CurrentRound == s.TotalRounds+1):
		return fmt.Errorf("%w: completion flag disagrees with round %d", ErrInvalidState, s.CurrentRound)
	}
	return nil
}

// PickerIndex returns the 0-based draft order index of the drafter on the
// clock. Odd rounds run forward through the order and even rounds run in
// reverse. ok is false once the draft is complete or the order is empty.
func PickerIndex(s State, n int) (idx int, ok bool) {
	if n <= 0 || s.IsComplete || s.CurrentPick < 1 || s.CurrentPick > n {
		return 0, false
	}
	if s.CurrentRound%2 == 1 {
		return s.CurrentPick - 1, true
	}
	return n - s.CurrentPick, true
}

// OverallPick is the 1-based number of pick p in round r with n drafters.
func OverallPick(round, pick, n int) int {
	return (round-1)*n + pick
}

// Current returns the slot that s puts on the clock.
func Current(s State, n int) (Slot, bool) {
	idx, ok := PickerIndex(s, n)
	if !ok {
		return Slot{}, false
	}
	return Slot{
		Round:       s.CurrentRound,
		PickInRound: s.CurrentPick,
		Overall:     OverallPick(s.CurrentRound, s.CurrentPick, n),
		OrderIndex:  idx,
	}, true
}

// Advance returns the state following one pick. A complete state is
// returned unchanged.
func Advance(s State, n int) State {
	if s.IsComplete || n <= 0 {
		return s
	}
	next := s
	next.CurrentPick++
	if next.CurrentPick > n {
		next.CurrentPick = 1
		next.CurrentRound++
	}
	if next.CurrentRound > next.TotalRounds {
		next.IsComplete = true
	}
	return next
}

// TotalPicks is the number of picks in a full draft.
func TotalPicks(totalRounds, n int) int {
	return totalRounds * n
}

// Schedule lists every slot of a draft in pick order. It is nil when
// there are no rounds or no drafters.
func Schedule(totalRounds, n int) []Slot {
	if totalRounds < 1 || n < 1 {
		return nil
	}
	slots := make([]Slot, 0, TotalPicks(totalRounds, n))
	s := New(totalRounds)
	for {
		slot, ok := Current(s, n)
		if !ok {
			return slots
		}
		slots = append(slots, slot)
		s = Advance(s, n)
	}
}
