package board

import "fmt"

// MoveKind is the oracle's classification of a from/to pair.
type MoveKind uint8

const (
	// Illegal: the squares are reachable for examination but the piece may not go there.
	Illegal MoveKind = iota
	// Blocked: off the board, obstructed, or landing on an own piece. Rays stop here.
	Blocked
	Normal
	Castle
	Promotion
	EnPassant
)

// String returns the kind name.
func (k MoveKind) String() string {
	switch k {
	case Illegal:
		return "illegal"
	case Blocked:
		return "blocked"
	case Normal:
		return "move"
	case Castle:
		return "castle"
	case Promotion:
		return "promotion"
	case EnPassant:
		return "en_passant"
	default:
		return "unknown"
	}
}

// IsMove reports whether the kind denotes a playable move.
func (k MoveKind) IsMove() bool {
	return k >= Normal
}

// Move is a move request: origin, destination and an optional promotion choice.
type Move struct {
	From      Square
	To        Square
	Promotion Kind // NoKind when not a promotion
}

// NoMove is the zero-information move.
var NoMove = Move{From: NoSquare, To: NoSquare, Promotion: NoKind}

// NewMove creates a non-promoting move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, Promotion: NoKind}
}

// NewPromotion creates a promoting move.
func NewPromotion(from, to Square, promo Kind) Move {
	return Move{From: from, To: to, Promotion: promo}
}

// String returns the long algebraic form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m.From == NoSquare {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.Promotion != NoKind {
		s += string(m.Promotion.Letter() + 'a' - 'A')
	}
	return s
}

// ParseMove parses the long algebraic form produced by Move.String.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	m := NewMove(from, to)
	if len(s) == 5 {
		promo, err := ParsePromotion(s[4:])
		if err != nil {
			return NoMove, err
		}
		m.Promotion = promo
	}
	return m, nil
}

// ParsePromotion parses a promotion choice letter (q, r, b, n).
func ParsePromotion(s string) (Kind, error) {
	if len(s) != 1 {
		return NoKind, fmt.Errorf("invalid promotion piece: %q", s)
	}
	switch k := KindFromLetter(s[0]); k {
	case Queen, Rook, Bishop, Knight:
		return k, nil
	}
	return NoKind, fmt.Errorf("invalid promotion piece: %q", s)
}

// ref identifies a roster slot from a board cell: 0 is empty, otherwise color*16+slot+1.
type ref uint8

const empty ref = 0

func makeRef(c Color, slot int) ref {
	return ref(int(c)*RosterSize + slot + 1)
}

func (r ref) color() Color {
	return Color((int(r) - 1) / RosterSize)
}

func (r ref) slot() int {
	return (int(r) - 1) % RosterSize
}

// Record is one history entry. Besides what was played it keeps everything
// needed to take the move back.
type Record struct {
	From     Square
	To       Square
	Kind     MoveKind
	Option   Kind // promotion choice, NoKind otherwise
	Captured bool

	captured       ref
	capturedSquare Square
	pawn           Piece // the pawn a promotion replaced
	rookFrom       Square
	rookTo         Square
	prevEnPassant  Square
	prevCastling   CastlingRights
}

// Move returns the request that replays the record.
func (r Record) Move() Move {
	return Move{From: r.From, To: r.To, Promotion: r.Option}
}

// revertMode selects what Revert does with the history record.
type revertMode uint8

const (
	// revertStep moves the cursor back and keeps the record for redo.
	revertStep revertMode = iota
	// revertDiscard drops the record and restores castling rights; used for trial moves.
	revertDiscard
)
