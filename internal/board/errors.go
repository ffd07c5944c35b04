package board

import "errors"

// Sentinel errors. Use errors.Is to test for them.
var (
	// ErrInvalidFEN indicates a malformed board-exchange string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrIllegalMove indicates a move that violates chess rules.
	ErrIllegalMove = errors.New("illegal move")

	// ErrNotYourTurn indicates a move of a piece whose side is not on move.
	ErrNotYourTurn = errors.New("not this side's turn")

	// ErrNoHistory indicates undo or redo beyond the ends of the history.
	ErrNoHistory = errors.New("no move in history")
)
