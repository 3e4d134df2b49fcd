package service

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/C-Chambers/the-arena-engine-server/internal/game"
	"github.com/C-Chambers/the-arena-engine-server/internal/logging"
	"github.com/C-Chambers/the-arena-engine-server/internal/roster"
	"github.com/C-Chambers/the-arena-engine-server/internal/storage"
)

// TeamSize is the number of characters a player brings into a match.
const TeamSize = 3

var ErrRosterTooSmall = errors.New("roster has fewer characters than a team needs")

// RosterSource exposes the currently published roster snapshot.
type RosterSource interface {
	Current() *roster.Snapshot
}

// TeamService builds the combatant team a player enters a match with: the
// saved team when one exists and is still valid against the current roster,
// otherwise a random fallback team.
type TeamService struct {
	repo   storage.Repository
	roster RosterSource

	mu  sync.Mutex
	rng *rand.Rand
}

// NewTeamService wires a team service. rng drives fallback team selection.
func NewTeamService(repo storage.Repository, rs RosterSource, rng *rand.Rand) *TeamService {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &TeamService{repo: repo, roster: rs, rng: rng}
}

// TeamFor spawns fresh combatant instances for the player's lineup. Every
// call produces new instance ids.
func (s *TeamService) TeamFor(id game.PlayerID) ([]*game.Combatant, error) {
	snap := s.roster.Current()
	if len(snap.Characters) < TeamSize {
		return nil, ErrRosterTooSmall
	}

	saved, err := s.repo.GetSavedTeam(string(id))
	if err != nil {
		return nil, fmt.Errorf("loading saved team: %w", err)
	}
	if defs := s.resolveSaved(snap, saved, id); defs != nil {
		return spawn(defs), nil
	}
	return spawn(s.randomDefs(snap)), nil
}

// resolveSaved maps saved character ids onto the current roster. A lineup
// that no longer matches the roster is discarded in favor of the fallback.
func (s *TeamService) resolveSaved(snap *roster.Snapshot, saved []string, id game.PlayerID) []*game.CharacterDef {
	if len(saved) != TeamSize {
		return nil
	}
	defs := make([]*game.CharacterDef, 0, TeamSize)
	for _, charID := range saved {
		def := snap.CharacterByID(charID)
		if def == nil {
			logging.Info("saved team references unknown character, using fallback", logging.Fields{
				"player_id":    string(id),
				"character_id": charID,
			})
			return nil
		}
		defs = append(defs, def)
	}
	return defs
}

// randomDefs picks TeamSize distinct characters uniformly from the roster.
func (s *TeamService) randomDefs(snap *roster.Snapshot) []*game.CharacterDef {
	s.mu.Lock()
	perm := s.rng.Perm(len(snap.Characters))
	s.mu.Unlock()

	defs := make([]*game.CharacterDef, 0, TeamSize)
	for _, i := range perm[:TeamSize] {
		defs = append(defs, &snap.Characters[i])
	}
	return defs
}

func spawn(defs []*game.CharacterDef) []*game.Combatant {
	team := make([]*game.Combatant, 0, len(defs))
	for _, def := range defs {
		team = append(team, game.NewCombatant(def))
	}
	return team
}
