package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the exchange string of the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -"

// ParseFEN parses an exchange string and returns a new Position.
func ParseFEN(fen string) (*Position, error) {
	pos := &Position{}
	if err := pos.SetFEN(fen); err != nil {
		return nil, err
	}
	return pos, nil
}

// SetFEN replaces the whole state of p with the one described by fen:
// history, captured and promoted pieces are all discarded. On error p is left unchanged.
//
// Accepts "<placement> <side> <castling> <en passant>" optionally followed by
// the two move clocks, which are ignored.
func (p *Position) SetFEN(fen string) error {
	parts := strings.Fields(fen)
	if len(parts) != 4 && len(parts) != 6 {
		return fmt.Errorf("%w: need 4 or 6 fields, got %d", ErrInvalidFEN, len(parts))
	}

	next := &Position{}
	next.reset()

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(next, parts[0]); err != nil {
		return err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		next.SideToMove = White
	case "b":
		next.SideToMove = Black
	default:
		return fmt.Errorf("%w: invalid side to move: %s", ErrInvalidFEN, parts[1])
	}

	// Parse castling rights (field 2)
	if err := parseCastlingRights(next, parts[2]); err != nil {
		return err
	}

	// Parse en passant square (field 3)
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return fmt.Errorf("%w: invalid en passant square: %s", ErrInvalidFEN, parts[3])
		}
		next.EnPassant = sq
	}

	if len(parts) == 6 {
		for _, clock := range parts[4:] {
			if _, err := strconv.Atoi(clock); err != nil {
				return fmt.Errorf("%w: invalid move clock: %s", ErrInvalidFEN, clock)
			}
		}
	}

	if err := next.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}

	*p = *next
	return nil
}

// parsePiecePlacement parses the piece placement section of an exchange string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // placement starts from rank 8
		file := 0

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			kind := KindFromLetter(c)
			if kind == NoKind {
				return fmt.Errorf("%w: invalid piece character: %c", ErrInvalidFEN, c)
			}
			color := White
			if c >= 'a' {
				color = Black
			}
			if kind == Pawn && (rank == 0 || rank == 7) {
				return fmt.Errorf("%w: pawn on rank %d", ErrInvalidFEN, rank+1)
			}
			if err := pos.place(kind, color, NewSquare(file, rank)); err != nil {
				return err
			}
			file++
		}

		if file != 8 {
			return fmt.Errorf("%w: invalid number of squares in rank %d: got %d", ErrInvalidFEN, rank+1, file)
		}
	}

	return nil
}

// place puts a piece of the given kind in the first free slot that holds
// that kind. Extra queens, rooks, bishops and knights take a free pawn slot
// and are marked promoted.
func (p *Position) place(kind Kind, c Color, sq Square) error {
	slot := -1
	for i := range p.roster[c] {
		if piece := p.roster[c][i]; !piece.Alive && piece.Kind == kind {
			slot = i
			break
		}
	}
	if slot < 0 && kind != King && kind != Pawn {
		for i := SlotPawn; i < RosterSize; i++ {
			if piece := &p.roster[c][i]; !piece.Alive && piece.Kind == Pawn {
				piece.Kind = kind
				piece.Promoted = true
				slot = i
				break
			}
		}
	}
	if slot < 0 {
		return fmt.Errorf("%w: no free %s slot for %s %s", ErrInvalidFEN, c, kind, sq)
	}

	piece := &p.roster[c][slot]
	piece.Alive = true
	piece.Square = sq
	p.grid[sq] = makeRef(c, slot)
	return nil
}

// parseCastlingRights parses the castling rights section of an exchange string.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.Castling = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			pos.Castling |= WhiteKingSideCastle
		case 'Q':
			pos.Castling |= WhiteQueenSideCastle
		case 'k':
			pos.Castling |= BlackKingSideCastle
		case 'q':
			pos.Castling |= BlackQueenSideCastle
		default:
			return fmt.Errorf("%w: invalid castling character: %c", ErrInvalidFEN, c)
		}
	}

	return nil
}

// FEN returns the exchange string of the position.
//
// A castling letter is written only when the right is held and the king and
// the corner rook have not moved.
func (p *Position) FEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece, ok := p.PieceAt(NewSquare(file, rank))
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(piece.Letter())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	sb.WriteString(p.SideToMove.Code())

	// Castling rights
	sb.WriteByte(' ')
	sb.WriteString(p.corroboratedCastling().String())

	// En passant
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	return sb.String()
}

// corroboratedCastling returns the held rights whose king and rook are both unmoved.
func (p *Position) corroboratedCastling() CastlingRights {
	rights := NoCastling
	for c := White; c <= Black; c++ {
		if p.roster[c][SlotKing].Moves != 0 {
			continue
		}
		for _, kingSide := range []bool{true, false} {
			flag := Right(c, kingSide)
			if p.Castling&flag == 0 {
				continue
			}
			rook, ok := p.PieceAt(rookHome(c, kingSide))
			if ok && rook.Kind == Rook && rook.Color == c && rook.Moves == 0 {
				rights |= flag
			}
		}
	}
	return rights
}

// String returns the exchange-format castling letters.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	for i, flag := range castleFlags {
		if cr&flag != 0 {
			s += string("KQkq"[i])
		}
	}
	return s
}

// rookHome returns the corner a castling rook starts on.
func rookHome(c Color, kingSide bool) Square {
	rank := 0
	if c == Black {
		rank = 7
	}
	if kingSide {
		return NewSquare(7, rank)
	}
	return NewSquare(0, rank)
}
