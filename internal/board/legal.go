package board

// Legality is the oracle's answer. EnPassant is the square a pawn double
// push skips, NoSquare for every other move; callers that commit the move
// store it as the new en-passant marker.
type Legality struct {
	Kind      MoveKind
	EnPassant Square
}

func verdict(k MoveKind) Legality {
	return Legality{Kind: k, EnPassant: NoSquare}
}

// Classify decides whether a piece of kind k standing on from may go to to.
//
// With control set the question becomes "does the piece on from attack or
// defend to": the destination may hold a piece of either color, pawns reach
// only their forward diagonals and kings never castle.
//
// Blocked is returned for off-board squares, obstructed lines and (without
// control) own pieces on the destination, so that ray scans can stop.
func (p *Position) Classify(k Kind, from, to Square, control bool) Legality {
	if !from.IsValid() || !to.IsValid() {
		return verdict(Blocked)
	}
	mover := p.colorAt(from)
	if mover == NoColor || from == to {
		return verdict(Illegal)
	}
	if !control && p.colorAt(to) == mover {
		return verdict(Blocked)
	}
	if !p.unobstructed(from, to) {
		return verdict(Blocked)
	}

	df, dr := to.File()-from.File(), to.Rank()-from.Rank()

	switch k {
	case King:
		if !control && p.isCastlePath(from, to) {
			return verdict(Castle)
		}
		if abs(df) <= 1 && abs(dr) <= 1 {
			return verdict(Normal)
		}
	case Queen:
		if isDiagonal(df, dr) || isStraight(df, dr) {
			return verdict(Normal)
		}
	case Rook:
		if isStraight(df, dr) {
			return verdict(Normal)
		}
	case Bishop:
		if isDiagonal(df, dr) {
			return verdict(Normal)
		}
	case Knight:
		if isKnightJump(df, dr) {
			return verdict(Normal)
		}
	case Pawn:
		if control {
			if abs(df) == 1 && dr == pawnDir(mover) {
				return verdict(Normal)
			}
			break
		}
		if p.isPromotionPath(mover, from, to) {
			return verdict(Promotion)
		}
		if p.isEnPassantPath(mover, from, to) {
			return verdict(EnPassant)
		}
		return p.pawnPath(mover, from, to)
	}
	return verdict(Illegal)
}

// pawnDir is +1 for white pawns and -1 for black pawns.
func pawnDir(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

// pawnPath covers single pushes, double pushes and captures.
func (p *Position) pawnPath(c Color, from, to Square) Legality {
	dir := pawnDir(c)
	df, dr := to.File()-from.File(), to.Rank()-from.Rank()

	switch {
	case df == 0 && dr == dir && p.IsEmpty(to):
		return verdict(Normal)
	case df == 0 && dr == 2*dir && from.RelativeRank(c) == 1 && p.IsEmpty(to):
		return Legality{Kind: Normal, EnPassant: from.Offset(0, dir)}
	case abs(df) == 1 && dr == dir && p.colorAt(to) == c.Other():
		return verdict(Normal)
	}
	return verdict(Illegal)
}

// isPromotionPath is a push or capture onto the last rank.
func (p *Position) isPromotionPath(c Color, from, to Square) bool {
	df, dr := to.File()-from.File(), to.Rank()-from.Rank()
	if dr != pawnDir(c) || to.RelativeRank(c) != 7 {
		return false
	}
	if df == 0 {
		return p.IsEmpty(to)
	}
	return abs(df) == 1 && p.colorAt(to) == c.Other()
}

// isEnPassantPath checks a diagonal step onto the square an enemy pawn just
// skipped. The last applied history record decides; a position without
// history falls back to the imported en-passant square.
func (p *Position) isEnPassantPath(c Color, from, to Square) bool {
	dir := pawnDir(c)
	df, dr := to.File()-from.File(), to.Rank()-from.Rank()
	if abs(df) != 1 || dr != dir || !p.IsEmpty(to) {
		return false
	}

	last, ok := p.lastMove()
	if !ok {
		victim := to.Offset(0, -dir)
		return to == p.EnPassant && p.colorAt(victim) == c.Other() && p.kindAt(victim) == Pawn
	}
	if p.kindAt(last.To) != Pawn || p.colorAt(last.To) != c.Other() {
		return false
	}
	if last.To.File() != last.From.File() || last.To.Rank()-last.From.Rank() != -2*dir {
		return false
	}
	return to.File() == last.From.File() && to.Rank() == last.To.Rank()+dir
}

// isCastlePath checks a two-square king step towards an unmoved rook of the
// same color with the right held, nothing in between and no attacked square
// from the king's start to its destination.
func (p *Position) isCastlePath(from, to Square) bool {
	king, ok := p.PieceAt(from)
	if !ok || king.Kind != King || king.Moves != 0 {
		return false
	}
	if from.Rank() != to.Rank() || from.RelativeRank(king.Color) != 0 || from.File() != 4 {
		return false
	}

	df := to.File() - from.File()
	if abs(df) != 2 {
		return false
	}
	kingSide := df > 0
	if !p.Castling.CanCastle(king.Color, kingSide) {
		return false
	}

	home := rookHome(king.Color, kingSide)
	rook, ok := p.PieceAt(home)
	if !ok || rook.Kind != Rook || rook.Color != king.Color || rook.Moves != 0 {
		return false
	}

	step := 1
	if !kingSide {
		step = -1
	}
	for sq := from.Offset(step, 0); sq != home; sq = sq.Offset(step, 0) {
		if !p.IsEmpty(sq) {
			return false
		}
	}
	for i := 0; i <= 2; i++ {
		if p.IsSquareAttacked(from.Offset(i*step, 0), king.Color.Other()) {
			return false
		}
	}
	return true
}

// unobstructed reports whether the straight or diagonal line between from
// and to is empty. Knight jumps are always unobstructed; any other shape is not.
func (p *Position) unobstructed(from, to Square) bool {
	df, dr := to.File()-from.File(), to.Rank()-from.Rank()
	if isKnightJump(df, dr) {
		return true
	}
	if !isStraight(df, dr) && !isDiagonal(df, dr) {
		return false
	}

	stepF, stepR := sign(df), sign(dr)
	for sq := from.Offset(stepF, stepR); sq != to; sq = sq.Offset(stepF, stepR) {
		if !p.IsEmpty(sq) {
			return false
		}
	}
	return true
}

// IsSquareAttacked reports whether any alive piece of color by controls sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	for i := range p.roster[by] {
		a := &p.roster[by][i]
		if a.Alive && p.Classify(a.Kind, a.Square, sq, true).Kind.IsMove() {
			return true
		}
	}
	return false
}

// InCheck reports whether the king of color c is attacked.
func (p *Position) InCheck(c Color) bool {
	return p.IsSquareAttacked(p.roster[c][SlotKing].Square, c.Other())
}

func isStraight(df, dr int) bool {
	return df == 0 || dr == 0
}

func isDiagonal(df, dr int) bool {
	return abs(df) == abs(dr)
}

func isKnightJump(df, dr int) bool {
	return (abs(df) == 2 && abs(dr) == 1) || (abs(df) == 1 && abs(dr) == 2)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
