package engine

import (
	"errors"
	"fmt"
)

// PhaseError is returned when an operation is attempted outside its phase.
type PhaseError string

func (e PhaseError) Error() string { return string(e) }

var (
	ErrInvalidCard     = errors.New("invalid card")
	ErrInvalidBid      = errors.New("invalid bid")
	ErrInvalidTrump    = errors.New("invalid trump choice")
	ErrEmptyCollection = errors.New("empty collection")
	ErrStateResolution = errors.New("state resolution error")

	ErrCardNotFound   = fmt.Errorf("card not found in deck: %w", ErrInvalidCard)
	ErrCardNotInHand  = fmt.Errorf("card not in hand: %w", ErrInvalidCard)
	ErrEmptyHand      = fmt.Errorf("hand is empty: %w", ErrEmptyCollection)
	ErrSuitNotPresent = fmt.Errorf("suit not in hand: %w", ErrEmptyCollection)
)

func wrongTurn(index int) error {
	return fmt.Errorf("not player %d's turn", index)
}
