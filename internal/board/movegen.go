package board

// LegalMoves returns every legal move of the side to move.
//
// Each candidate along each mobility direction is tried with a real Apply
// and immediately reverted, so pins, checks and castling through attacked
// squares need no separate filter. Promotions expand to one move per choice.
func (p *Position) LegalMoves() []Move {
	return p.scratch().generate()
}

// scratch returns p itself, or a copy without the redo tail when there is
// one: trial moves must not overwrite it.
func (p *Position) scratch() *Position {
	if !p.CanRedo() {
		return p
	}
	pos := p.Clone()
	pos.history = pos.history[:pos.cursor]
	return pos
}

func (p *Position) generate() []Move {
	moves := make([]Move, 0, 64)
	side := p.SideToMove
	inCheck := p.InCheck(side)

	for slot := 0; slot < RosterSize; slot++ {
		piece := p.roster[side][slot]
		if !piece.Alive {
			continue
		}
		from := piece.Square
		mob := mobility[piece.Kind]

		for _, dir := range mob.Dirs {
			for step := 1; step <= mob.Limit; step++ {
				to := from.Offset(step*dir.DF, step*dir.DR)
				kind, ok := p.apply(NewMove(from, to), false)
				if ok {
					p.revert(revertDiscard)
					if kind == Promotion {
						for _, choice := range PromotionChoices {
							moves = append(moves, NewPromotion(from, to, choice))
						}
					} else {
						moves = append(moves, NewMove(from, to))
					}
					continue
				}
				// A check may be answered farther along the ray; a block ends it.
				if kind == Blocked || !inCheck {
					break
				}
			}
		}
	}
	return moves
}

// HasLegalMoves returns true if the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	return len(p.LegalMoves()) > 0
}

// IsCheckmate returns true if the side to move is in check and cannot move.
func (p *Position) IsCheckmate() bool {
	return p.InCheck(p.SideToMove) && !p.HasLegalMoves()
}

// IsStalemate returns true if the side to move is not in check and cannot move.
func (p *Position) IsStalemate() bool {
	return !p.InCheck(p.SideToMove) && !p.HasLegalMoves()
}

// Perft counts the leaf nodes of the legal move tree at the given depth.
func (p *Position) Perft(depth int) int64 {
	return p.scratch().perft(depth)
}

func (p *Position) perft(depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := p.generate()
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		p.apply(m, false)
		nodes += p.perft(depth - 1)
		p.revert(revertDiscard)
	}
	return nodes
}
