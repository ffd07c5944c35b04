// Package features turns a position into the three input vectors consumed
// by evaluators: global state, per-piece state and per-square control maps.
package features

import (
	"github.com/hhhao/twisted-neurons/internal/board"
)

// Vector sizes.
const (
	GlobalSize = 15
	PieceSize  = 208
	SquareSize = 128
)

// Features holds the extracted vectors in their fixed order.
type Features struct {
	Global  []float64
	Pieces  []float64
	Squares []float64
}

// countOrder lists the kinds counted in the global vector with the number
// each side starts with.
var countOrder = []struct {
	kind  board.Kind
	start float64
}{
	{board.Queen, 2},
	{board.Rook, 2},
	{board.Bishop, 2},
	{board.Knight, 2},
	{board.Pawn, 8},
}

// Extract computes all three vectors for pos. Attack values are taken from
// the side not on move, defend values from the side on move. pos is not
// modified.
func Extract(pos *board.Position) Features {
	x := extractor{pos: pos}
	x.rosters[board.White] = pos.Roster(board.White)
	x.rosters[board.Black] = pos.Roster(board.Black)
	return Features{
		Global:  x.global(),
		Pieces:  x.pieces(),
		Squares: x.squares(),
	}
}

type extractor struct {
	pos     *board.Position
	rosters [2][board.RosterSize]board.Piece
}

func (x *extractor) global() []float64 {
	g := make([]float64, 0, GlobalSize)
	g = append(g, 0) // side to move, muted
	for _, held := range x.pos.Castling.Flags() {
		g = append(g, signed(held))
	}
	for c := board.White; c <= board.Black; c++ {
		for _, o := range countOrder {
			n := 0
			for _, piece := range x.rosters[c] {
				if piece.Alive && piece.Kind == o.kind {
					n++
				}
			}
			g = append(g, float64(n)/o.start)
		}
	}
	return g
}

func (x *extractor) pieces() []float64 {
	v := make([]float64, 0, PieceSize)
	for c := board.White; c <= board.Black; c++ {
		for slot, piece := range x.rosters[c] {
			v = append(v,
				signed(piece.Alive),
				normalized(piece.Square.File()),
				normalized(piece.Square.Rank()),
			)
			if piece.Alive {
				v = append(v, x.attackValue(piece.Square), x.defendValue(piece.Square))
			} else {
				v = append(v, 0, 0)
			}
			if slot >= board.SlotPawn {
				continue
			}
			for _, d := range mobilityDirections(piece.Kind) {
				if piece.Alive {
					v = append(v, x.mobility(piece, d))
				} else {
					v = append(v, 0)
				}
			}
		}
	}
	return v
}

func (x *extractor) squares() []float64 {
	v := make([]float64, 0, SquareSize)
	for file := 0; file < 8; file++ {
		for rank := 0; rank < 8; rank++ {
			sq := board.NewSquare(file, rank)
			v = append(v, x.attackValue(sq), x.defendValue(sq))
		}
	}
	return v
}

// attackValue is 1/value of the cheapest piece of the side not on move that
// could capture on sq, 0 when there is none.
func (x *extractor) attackValue(sq board.Square) float64 {
	attacker := x.pos.SideToMove.Other()
	if piece, ok := x.pos.PieceAt(sq); ok && piece.Color == attacker {
		return 0
	}
	return x.cheapest(attacker, sq)
}

// defendValue is 1/value of the cheapest piece of the side on move that
// controls sq, 0 when there is none.
func (x *extractor) defendValue(sq board.Square) float64 {
	return x.cheapest(x.pos.SideToMove, sq)
}

func (x *extractor) cheapest(c board.Color, sq board.Square) float64 {
	lowest := 0.0
	for _, piece := range x.rosters[c] {
		if !piece.Alive {
			continue
		}
		if !x.pos.Classify(piece.Kind, piece.Square, sq, true).Kind.IsMove() {
			continue
		}
		if v := board.Material[piece.Kind]; lowest == 0 || v < lowest {
			lowest = v
		}
	}
	if lowest == 0 {
		return 0
	}
	return 1 / lowest
}

// mobility is the number of steps the piece can take along d, over 7.
func (x *extractor) mobility(piece board.Piece, d board.Direction) float64 {
	steps := 0
	for i := 1; i < 8; i++ {
		to := piece.Square.Offset(i*d.DF, i*d.DR)
		if !x.pos.Classify(piece.Kind, piece.Square, to, false).Kind.IsMove() {
			break
		}
		steps++
	}
	return float64(steps) / 7
}

// mobilityDirections returns the line directions scored for queens, rooks
// and bishops, in file-major order. Other kinds have none.
func mobilityDirections(k board.Kind) []board.Direction {
	var dirs []board.Direction
	for df := -1; df <= 1; df++ {
		for dr := -1; dr <= 1; dr++ {
			if df == 0 && dr == 0 {
				continue
			}
			straight := df == 0 || dr == 0
			switch {
			case k == board.Queen,
				k == board.Rook && straight,
				k == board.Bishop && !straight:
				dirs = append(dirs, board.Direction{DF: df, DR: dr})
			}
		}
	}
	return dirs
}

func signed(b bool) float64 {
	if b {
		return 1
	}
	return -1
}

func normalized(coord int) float64 {
	return (float64(coord) - 3.5) / 3.5
}
