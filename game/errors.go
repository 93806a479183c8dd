package game

import (
	"errors"

	"github.com/remigerme/the-crew-solver/deck"
)

var (
	ErrInvalidCard             = deck.ErrInvalidCard
	ErrDuplicateCard           = errors.New("duplicate card")
	ErrCardNotInHand           = errors.New("card not in hand")
	ErrEmptyTrick              = errors.New("trick has no cards")
	ErrInvalidLeader           = errors.New("trick leader out of range")
	ErrNonIncreasingTrickIndex = errors.New("trick index must be strictly increasing")
	ErrTrickSize               = errors.New("trick size differs from previous tricks")
	ErrMissingCaptain          = errors.New("captain not found: no player holds or has won the highest trump")
	ErrCaptainTask             = errors.New("task cannot be given to the captain")
	ErrTooFewPlayers           = errors.New("minimum of 2 players required")
	ErrInvalidTask             = errors.New("invalid task")
	ErrUnknownPlayer           = errors.New("unknown player index")
	ErrGameOver                = errors.New("game is already over")
)
