package board

import (
	"fmt"
	"strings"
)

// SAN returns m in Standard Algebraic Notation for position p. m must be
// legal in p; anything else is returned in coordinate form.
func (p *Position) SAN(m Move) string {
	piece, ok := p.PieceAt(m.From)
	if !ok {
		return m.String()
	}

	var sb strings.Builder
	df := m.To.File() - m.From.File()
	switch {
	case piece.Kind == King && df == 2:
		sb.WriteString("O-O")
	case piece.Kind == King && df == -2:
		sb.WriteString("O-O-O")
	default:
		capture := !p.IsEmpty(m.To) || piece.Kind == Pawn && df != 0
		if piece.Kind != Pawn {
			sb.WriteByte(piece.Kind.Letter())
			sb.WriteString(p.disambiguation(m, piece.Kind))
		}
		if capture {
			if piece.Kind == Pawn {
				sb.WriteByte('a' + byte(m.From.File()))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
		if m.Promotion != NoKind {
			sb.WriteByte('=')
			sb.WriteByte(m.Promotion.Letter())
		}
	}

	after := p.Clone()
	if !after.Apply(m) {
		return m.String()
	}
	if after.IsCheckmate() {
		sb.WriteByte('#')
	} else if after.InCheck(after.SideToMove) {
		sb.WriteByte('+')
	}
	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from other legal moves of the same kind to the same square.
func (p *Position) disambiguation(m Move, k Kind) string {
	var others []Square
	for _, o := range p.LegalMoves() {
		if o.To != m.To || o.From == m.From {
			continue
		}
		if piece, _ := p.PieceAt(o.From); piece.Kind == k {
			others = append(others, o.From)
		}
	}
	if len(others) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range others {
		if sq.File() == m.From.File() {
			sameFile = true
		}
		if sq.Rank() == m.From.Rank() {
			sameRank = true
		}
	}
	if !sameFile {
		return string(rune('a' + m.From.File()))
	}
	if !sameRank {
		return string(rune('1' + m.From.Rank()))
	}
	return m.From.String()
}

// SANMoves returns the moves up to the history cursor in SAN, replayed
// from the position they started in.
func (p *Position) SANMoves() []string {
	moves := make([]Move, p.cursor)
	for i := range moves {
		moves[i] = p.history[i].Move()
	}
	replay := p.Clone()
	for replay.Revert() {
	}

	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, replay.SAN(m))
		replay.Apply(m)
	}
	return out
}

// ParseSAN finds the legal move written as s in Standard Algebraic
// Notation. Check marks and annotations are ignored.
func (p *Position) ParseSAN(s string) (Move, error) {
	orig := s
	s = strings.TrimRight(strings.TrimSpace(s), "+#!?")

	legal := p.LegalMoves()
	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		df := 2
		if len(s) == 5 {
			df = -2
		}
		for _, m := range legal {
			if piece, _ := p.PieceAt(m.From); piece.Kind == King && m.To.File()-m.From.File() == df {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, orig)
	}

	promo := NoKind
	if i := strings.IndexByte(s, '='); i >= 0 && i+1 < len(s) {
		promo = KindFromLetter(s[i+1])
		s = s[:i]
	}
	s = strings.Replace(s, "x", "", -1)

	kind := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		kind = KindFromLetter(s[0])
		s = s[1:]
	}
	if len(s) < 2 || kind == NoKind {
		return NoMove, fmt.Errorf("invalid SAN: %q", orig)
	}
	to, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("invalid SAN: %q", orig)
	}
	hint := s[:len(s)-2]

	found := NoMove
	for _, m := range legal {
		piece, _ := p.PieceAt(m.From)
		if m.To != to || piece.Kind != kind || m.Promotion != promo && !(promo == NoKind && m.Promotion == Queen) {
			continue
		}
		if !matchesHint(m.From, hint) {
			continue
		}
		if found != NoMove && found.From != m.From {
			return NoMove, fmt.Errorf("ambiguous SAN: %q", orig)
		}
		if found == NoMove {
			found = m
		}
	}
	if found == NoMove {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, orig)
	}
	return found, nil
}

func matchesHint(from Square, hint string) bool {
	for i := 0; i < len(hint); i++ {
		c := hint[i]
		switch {
		case c >= 'a' && c <= 'h':
			if from.File() != int(c-'a') {
				return false
			}
		case c >= '1' && c <= '8':
			if from.Rank() != int(c-'1') {
				return false
			}
		default:
			return false
		}
	}
	return true
}
