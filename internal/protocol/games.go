package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hhhao/twisted-neurons/internal/board"
	"github.com/hhhao/twisted-neurons/internal/session"
	"github.com/hhhao/twisted-neurons/internal/storage"
)

// handleSave stores the current game, replacing the copy saved or loaded
// earlier in this game.
func (p *Protocol) handleSave() error {
	if p.store == nil {
		return ErrStorageDisabled
	}

	moves := p.session.Moves()
	g := &storage.Game{
		ID:       p.gameID,
		StartFEN: p.session.StartFEN(),
		Moves:    make([]string, len(moves)),
		Result:   p.session.Result().String(),
		Player:   p.session.Player().Code(),
		Depth:    p.session.Depth(),
	}
	for i, m := range moves {
		g.Moves[i] = m.String()
	}
	if g.ID != 0 {
		if old, err := p.store.LoadGame(g.ID); err == nil {
			g.Created = old.Created
		}
	}
	if err := p.store.SaveGame(g); err != nil {
		return err
	}
	p.gameID = g.ID
	p.println("saved %d", g.ID)
	return nil
}

func (p *Protocol) handleLoad(args []string) error {
	if p.store == nil {
		return ErrStorageDisabled
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: load <id>")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid game id %q", args[0])
	}

	g, err := p.store.LoadGame(id)
	if err != nil {
		return err
	}
	moves := make([]board.Move, len(g.Moves))
	for i, s := range g.Moves {
		if moves[i], err = board.ParseMove(s); err != nil {
			return fmt.Errorf("game %d: %w", id, err)
		}
	}
	if err := p.session.Load(g.StartFEN, moves); err != nil {
		return fmt.Errorf("game %d: %w", id, err)
	}
	if c, ok := board.ParseColor(g.Player); ok {
		p.session.SetPlayer(c)
	}
	p.gameID = id
	p.recorded = g.Result != session.InProgress.String()
	p.println("loaded %d", id)
	return nil
}

func (p *Protocol) handleDelete(args []string) error {
	if p.store == nil {
		return ErrStorageDisabled
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: delete <id>")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid game id %q", args[0])
	}
	if err := p.store.DeleteGame(id); err != nil {
		return err
	}
	// The current game is saved under a new id next time.
	if id == p.gameID {
		p.gameID = 0
	}
	p.println("deleted %d", id)
	return nil
}

func (p *Protocol) handleList() error {
	if p.store == nil {
		return ErrStorageDisabled
	}
	games, err := p.store.ListGames()
	if err != nil {
		return err
	}
	for _, g := range games {
		p.println("game %d %s %s moves=%d updated=%s",
			g.ID, g.Result, g.Player, len(g.Moves), g.Updated.Format("2006-01-02 15:04"))
	}
	p.println("games %d", len(games))
	return nil
}

func (p *Protocol) handleStats() error {
	if p.store == nil {
		return ErrStorageDisabled
	}
	stats, err := p.store.LoadStats()
	if err != nil {
		return err
	}
	p.println("stats played=%d wins=%d losses=%d draws=%d winrate=%.1f",
		stats.GamesPlayed, stats.Wins, stats.Losses, stats.Draws, stats.GetWinRate())

	depths := maps.Keys(stats.WinsByDepth)
	slices.Sort(depths)
	parts := make([]string, len(depths))
	for i, d := range depths {
		parts[i] = fmt.Sprintf("%s:%d", d, stats.WinsByDepth[d])
	}
	p.println("wins_by_depth %s", strings.Join(parts, " "))
	return nil
}

// recordFinished adds a finished game to the statistics once.
func (p *Protocol) recordFinished() {
	if p.store == nil || p.recorded {
		return
	}
	result := p.session.Result()
	if result == session.InProgress {
		return
	}
	p.recorded = true

	player := p.session.Player()
	won := result == session.WhiteWins && player == board.White ||
		result == session.BlackWins && player == board.Black
	if err := p.store.RecordResult(won, result == session.Draw, p.session.Depth()); err != nil {
		p.log.Warn().Err(err).Msg("failed to record result")
	}
}
