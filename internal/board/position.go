package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// castleFlags lists the rights in exchange-format order K, Q, k, q.
var castleFlags = [4]CastlingRights{WhiteKingSideCastle, WhiteQueenSideCastle, BlackKingSideCastle, BlackQueenSideCastle}

// Right returns the flag for a color and side.
func Right(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// CanCastle returns true if the given side still holds the right.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&Right(c, kingSide) != 0
}

// Flags returns the four rights in K, Q, k, q order.
func (cr CastlingRights) Flags() [4]bool {
	var f [4]bool
	for i, flag := range castleFlags {
		f[i] = cr&flag != 0
	}
	return f
}

// Position is a complete game state: the grid, both rosters, side to move,
// castling rights, the en-passant marker and the move history with its cursor.
//
// A Position is not safe for concurrent use; each game owns its own.
type Position struct {
	grid   [64]ref
	roster [2][RosterSize]Piece

	SideToMove Color
	Castling   CastlingRights
	EnPassant  Square // square skipped by the last double push, NoSquare if none

	history []Record
	cursor  int
}

// NewPosition creates the standard starting position.
func NewPosition() *Position {
	p := &Position{}
	p.reset()
	for c := White; c <= Black; c++ {
		for slot := 0; slot < RosterSize; slot++ {
			piece := &p.roster[c][slot]
			piece.Alive = true
			p.grid[piece.Square] = makeRef(c, slot)
		}
	}
	p.Castling = AllCastling
	return p
}

// reset clears the grid and history and puts every roster slot back to its
// original kind, dead, on its starting square.
func (p *Position) reset() {
	p.grid = [64]ref{}
	for c := White; c <= Black; c++ {
		back, front := 0, 1
		if c == Black {
			back, front = 7, 6
		}
		for slot := 0; slot < RosterSize; slot++ {
			piece := Piece{Kind: slotKind(slot), Color: c, Origin: -1}
			if slot < SlotPawn {
				piece.Square = NewSquare(slot, back)
			} else {
				piece.Origin = slot - SlotPawn
				piece.Square = NewSquare(piece.Origin, front)
			}
			p.roster[c][slot] = piece
		}
	}
	p.SideToMove = White
	p.Castling = NoCastling
	p.EnPassant = NoSquare
	p.history = nil
	p.cursor = 0
}

// Clone creates a deep copy of the position, history included.
func (p *Position) Clone() *Position {
	newPos := *p
	newPos.history = append([]Record(nil), p.history...)
	return &newPos
}

// PieceAt returns the piece on the given square.
func (p *Position) PieceAt(sq Square) (Piece, bool) {
	if !sq.IsValid() {
		return Piece{}, false
	}
	r := p.grid[sq]
	if r == empty {
		return Piece{}, false
	}
	return p.roster[r.color()][r.slot()], true
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.grid[sq] == empty
}

// colorAt returns the color of the piece on sq, NoColor if empty.
func (p *Position) colorAt(sq Square) Color {
	r := p.grid[sq]
	if r == empty {
		return NoColor
	}
	return r.color()
}

// kindAt returns the kind of the piece on sq, NoKind if empty.
func (p *Position) kindAt(sq Square) Kind {
	r := p.grid[sq]
	if r == empty {
		return NoKind
	}
	return p.roster[r.color()][r.slot()].Kind
}

func (p *Position) at(r ref) *Piece {
	return &p.roster[r.color()][r.slot()]
}

// Roster returns a copy of the 16 slots of a color.
func (p *Position) Roster(c Color) [RosterSize]Piece {
	return p.roster[c]
}

// King returns the king of a color.
func (p *Position) King(c Color) Piece {
	return p.roster[c][SlotKing]
}

// relocate moves the piece on from to to. The destination must be empty.
func (p *Position) relocate(from, to Square) {
	r := p.grid[from]
	p.grid[to] = r
	p.grid[from] = empty
	p.at(r).Square = to
}

// kill removes the piece on sq from the board and returns its reference.
func (p *Position) kill(sq Square) ref {
	r := p.grid[sq]
	p.grid[sq] = empty
	p.at(r).Alive = false
	return r
}

// revive puts a captured piece back on sq.
func (p *Position) revive(r ref, sq Square) {
	piece := p.at(r)
	piece.Alive = true
	piece.Square = sq
	p.grid[sq] = r
}

// History returns a copy of the recorded moves, including any redo tail.
func (p *Position) History() []Record {
	return append([]Record(nil), p.history...)
}

// Cursor returns how many history records are currently applied.
func (p *Position) Cursor() int {
	return p.cursor
}

// CanUndo reports whether there is an applied move to take back.
func (p *Position) CanUndo() bool {
	return p.cursor > 0
}

// CanRedo reports whether an undone move is available to replay.
func (p *Position) CanRedo() bool {
	return p.cursor < len(p.history)
}

// lastMove returns the record just before the cursor.
func (p *Position) lastMove() (Record, bool) {
	if p.cursor == 0 {
		return Record{}, false
	}
	return p.history[p.cursor-1], true
}

// Occupancy maps every occupied square to its color+kind code, e.g. "e1" -> "wK".
func (p *Position) Occupancy() map[string]string {
	occ := make(map[string]string, 32)
	for sq := Square(0); sq < NoSquare; sq++ {
		if piece, ok := p.PieceAt(sq); ok {
			occ[sq.String()] = piece.Code()
		}
	}
	return occ
}

// Validate checks the grid against the rosters.
// Every occupied cell must be claimed by an alive piece reporting that square.
func (p *Position) Validate() error {
	for sq := Square(0); sq < NoSquare; sq++ {
		r := p.grid[sq]
		if r == empty {
			continue
		}
		piece := p.at(r)
		if !piece.Alive || piece.Square != sq {
			return fmt.Errorf("square %s holds %s %s reporting %s (alive=%v)",
				sq, piece.Color, piece.Kind, piece.Square, piece.Alive)
		}
	}
	for c := White; c <= Black; c++ {
		for slot, piece := range p.roster[c] {
			if piece.Alive && p.grid[piece.Square] != makeRef(c, slot) {
				return fmt.Errorf("%s %s in slot %d is not on %s", c, piece.Kind, slot, piece.Square)
			}
		}
		if !p.roster[c][SlotKing].Alive {
			return fmt.Errorf("%s king is missing", c)
		}
	}
	return nil
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece, ok := p.PieceAt(NewSquare(file, rank))
			if !ok {
				sb.WriteString(". ")
			} else {
				sb.WriteByte(piece.Letter())
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "FEN: %s\n", p.FEN())
	return sb.String()
}
