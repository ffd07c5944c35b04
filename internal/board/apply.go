package board

// Apply plays m for the side to move and reports whether it was legal.
//
// Moves of the other side's pieces and moves that would leave the mover's
// king attacked are rejected; in both cases p is unchanged. A successful
// Apply made after Undo discards the redo tail.
func (p *Position) Apply(m Move) bool {
	_, ok := p.apply(m, false)
	return ok
}

// Play is Apply with an error saying why the move was refused.
func (p *Position) Play(m Move) error {
	piece, ok := p.PieceAt(m.From)
	if !ok {
		return ErrIllegalMove
	}
	if piece.Color != p.SideToMove {
		return ErrNotYourTurn
	}
	if !p.Apply(m) {
		return ErrIllegalMove
	}
	return nil
}

// apply executes m. With redo set, the record at the cursor is rewritten in
// place and the tail after it is kept. The returned kind tells a failed
// move's cause: Blocked, or Illegal for rule violations and self-check.
func (p *Position) apply(m Move, redo bool) (MoveKind, bool) {
	if !m.From.IsValid() || p.grid[m.From] == empty {
		return Blocked, false
	}
	r := p.grid[m.From]
	mover := p.at(r)
	if mover.Color != p.SideToMove {
		return Illegal, false
	}

	res := p.Classify(mover.Kind, m.From, m.To, false)
	if !res.Kind.IsMove() {
		return res.Kind, false
	}

	rec := Record{
		From:           m.From,
		To:             m.To,
		Kind:           res.Kind,
		Option:         NoKind,
		captured:       empty,
		capturedSquare: NoSquare,
		rookFrom:       NoSquare,
		rookTo:         NoSquare,
		prevEnPassant:  p.EnPassant,
		prevCastling:   p.Castling,
	}

	if !p.IsEmpty(m.To) {
		rec.Captured = true
		rec.captured = p.kill(m.To)
		rec.capturedSquare = m.To
	}

	switch res.Kind {
	case Promotion:
		choice := m.Promotion
		if choice != Queen && choice != Rook && choice != Bishop && choice != Knight {
			choice = Queen
		}
		rec.Option = choice
		rec.pawn = *mover
		mover.Kind = choice
		mover.Promoted = true
	case EnPassant:
		victim := m.To.Offset(0, -pawnDir(mover.Color))
		rec.Captured = true
		rec.captured = p.kill(victim)
		rec.capturedSquare = victim
	case Castle:
		rank := m.To.Rank()
		if m.To.File() == 6 {
			rec.rookFrom, rec.rookTo = NewSquare(7, rank), NewSquare(5, rank)
		} else {
			rec.rookFrom, rec.rookTo = NewSquare(0, rank), NewSquare(3, rank)
		}
		p.relocate(rec.rookFrom, rec.rookTo)
		p.at(p.grid[rec.rookTo]).Moves++
	}

	p.relocate(m.From, m.To)
	mover.Moves++
	p.EnPassant = res.EnPassant
	p.revokeCastling(mover, rec)
	p.SideToMove = p.SideToMove.Other()

	var replaced Record
	if redo {
		replaced = p.history[p.cursor]
		p.history[p.cursor] = rec
	} else {
		p.history = append(p.history[:p.cursor], rec)
	}
	p.cursor++

	if p.InCheck(mover.Color) {
		if redo {
			// Keep the redo tail; only the board and rights roll back.
			p.revert(revertStep)
			p.history[p.cursor] = replaced
			p.Castling = rec.prevCastling
		} else {
			p.revert(revertDiscard)
		}
		return Illegal, false
	}
	return res.Kind, true
}

// revokeCastling clears the rights lost by this move: the king moved, a
// rook left its corner, or a rook was captured on its corner.
func (p *Position) revokeCastling(mover *Piece, rec Record) {
	if mover.Kind == King {
		p.Castling &^= Right(mover.Color, true) | Right(mover.Color, false)
	}
	for c := White; c <= Black; c++ {
		for _, kingSide := range []bool{true, false} {
			home := rookHome(c, kingSide)
			if rec.From == home || rec.capturedSquare == home {
				p.Castling &^= Right(c, kingSide)
			}
		}
	}
}

// Undo takes back the last applied move and keeps it available for Redo.
// Castling rights lost by the move stay lost. Returns false when there is
// nothing to undo.
func (p *Position) Undo() bool {
	if !p.CanUndo() {
		return false
	}
	p.revert(revertStep)
	return true
}

// Revert takes back the last applied move and deletes it from the history,
// restoring castling rights as well. It is the exact inverse of Apply.
func (p *Position) Revert() bool {
	if !p.CanUndo() {
		return false
	}
	p.revert(revertDiscard)
	return true
}

// Redo replays the move at the cursor with its recorded promotion choice.
// Returns false when there is nothing to redo or the replay is refused; p
// is then unchanged.
func (p *Position) Redo() bool {
	if !p.CanRedo() {
		return false
	}
	rec := p.history[p.cursor]
	castling := p.Castling
	if rec.Kind == Castle {
		// Undo kept the right revoked; the castle revokes it again.
		p.Castling |= Right(p.SideToMove, rec.To.File() == 6)
	}
	if _, ok := p.apply(rec.Move(), true); !ok {
		p.Castling = castling
		return false
	}
	return true
}

func (p *Position) revert(mode revertMode) {
	p.SideToMove = p.SideToMove.Other()
	p.cursor--
	rec := p.history[p.cursor]
	if mode == revertDiscard {
		p.history = p.history[:p.cursor]
		p.Castling = rec.prevCastling
	}

	r := p.grid[rec.To]
	p.relocate(rec.To, rec.From)
	p.at(r).Moves--

	if rec.Kind == Promotion {
		*p.at(r) = rec.pawn
	}
	if rec.Captured {
		p.revive(rec.captured, rec.capturedSquare)
	}
	if rec.Kind == Castle {
		p.relocate(rec.rookTo, rec.rookFrom)
		p.at(p.grid[rec.rookFrom]).Moves--
	}
	p.EnPassant = rec.prevEnPassant
}
