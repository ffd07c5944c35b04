package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Code returns the single-letter exchange code ("w" or "b").
func (c Color) Code() string {
	if c == Black {
		return "b"
	}
	return "w"
}

// ParseColor parses "w"/"white" or "b"/"black".
func ParseColor(s string) (Color, bool) {
	switch s {
	case "w", "white", "White":
		return White, true
	case "b", "black", "Black":
		return Black, true
	}
	return NoColor, false
}

// Kind is the type of a chess piece.
type Kind uint8

const (
	King Kind = iota
	Queen
	Rook
	Bishop
	Knight
	Pawn
	NoKind Kind = 6
)

// String returns the piece kind name.
func (k Kind) String() string {
	switch k {
	case King:
		return "King"
	case Queen:
		return "Queen"
	case Rook:
		return "Rook"
	case Bishop:
		return "Bishop"
	case Knight:
		return "Knight"
	case Pawn:
		return "Pawn"
	default:
		return "None"
	}
}

// Letter returns the uppercase letter of the kind (K, Q, R, B, N, P).
func (k Kind) Letter() byte {
	if k >= NoKind {
		return ' '
	}
	return "KQRBNP"[k]
}

// KindFromLetter converts a case-insensitive piece letter to a Kind.
func KindFromLetter(c byte) Kind {
	switch c {
	case 'K', 'k':
		return King
	case 'Q', 'q':
		return Queen
	case 'R', 'r':
		return Rook
	case 'B', 'b':
		return Bishop
	case 'N', 'n':
		return Knight
	case 'P', 'p':
		return Pawn
	}
	return NoKind
}

// Material is the value of each kind used for attack and defense maps.
var Material = [6]float64{
	King:   1000,
	Queen:  9,
	Rook:   5,
	Bishop: 3,
	Knight: 3,
	Pawn:   1,
}

// Direction is a single step (files, ranks).
type Direction struct {
	DF, DR int
}

// Mobility describes how a kind moves: the step directions and how many
// steps may be taken along each of them.
type Mobility struct {
	Dirs  []Direction
	Limit int
}

var (
	orthogonal = []Direction{{-1, 0}, {0, 1}, {1, 0}, {0, -1}}
	diagonal   = []Direction{{-1, -1}, {1, 1}, {-1, 1}, {1, -1}}
)

// mobility is indexed by Kind. Pawn directions cover both colors; the oracle
// rejects the ones that go backwards.
var mobility = [6]Mobility{
	King: {
		Dirs:  append(append(append([]Direction{}, orthogonal...), diagonal...), Direction{-2, 0}, Direction{2, 0}),
		Limit: 1,
	},
	Queen: {
		Dirs:  append(append([]Direction{}, orthogonal...), diagonal...),
		Limit: 7,
	},
	Rook:   {Dirs: orthogonal, Limit: 7},
	Bishop: {Dirs: diagonal, Limit: 7},
	Knight: {
		Dirs: []Direction{
			{-1, 2}, {-1, -2}, {1, 2}, {1, -2},
			{-2, 1}, {-2, -1}, {2, 1}, {2, -1},
		},
		Limit: 1,
	},
	Pawn: {
		Dirs: []Direction{
			{0, 1}, {0, 2}, {1, 1}, {-1, 1},
			{0, -1}, {0, -2}, {1, -1}, {-1, -1},
		},
		Limit: 1,
	},
}

// MobilityOf returns the static mobility descriptor of a kind.
func MobilityOf(k Kind) Mobility {
	return mobility[k]
}

// Piece is one roster entry. Kind changes only through promotion.
type Piece struct {
	Kind     Kind
	Color    Color
	Square   Square
	Alive    bool
	Moves    int
	Origin   int  // original file of a pawn slot, -1 for back-rank slots
	Promoted bool // slot holds a piece that was a pawn
}

// Letter returns the exchange-format letter: uppercase for white, lowercase for black.
func (p Piece) Letter() byte {
	c := p.Kind.Letter()
	if p.Color == Black {
		c += 'a' - 'A'
	}
	return c
}

// Code returns the color+kind code used in board snapshots, e.g. "wK".
func (p Piece) Code() string {
	return p.Color.Code() + string(p.Kind.Letter())
}

// Roster slot layout: back rank a..h then pawns a..h.
const (
	SlotQueenRook = 0
	SlotQueen     = 3
	SlotKing      = 4
	SlotKingRook  = 7
	SlotPawn      = 8
	RosterSize    = 16
)

var backRank = [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// slotKind returns the kind a slot holds at the start of a game.
func slotKind(slot int) Kind {
	if slot < SlotPawn {
		return backRank[slot]
	}
	return Pawn
}

// Promotion choices in the order the generator expands them.
var PromotionChoices = [4]Kind{Queen, Rook, Bishop, Knight}
