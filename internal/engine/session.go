package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/C-Chambers/the-arena-engine-server/internal/game"
)

// ChakraPerTurn is the number of chakra tokens generated at the start of a
// player's turn.
const ChakraPerTurn = 3

// Invalid-action errors. These are reported to the acting client only; the
// session state is never mutated before validation passes.
var (
	ErrGameOver            = errors.New("the match is already over")
	ErrNotYourTurn         = errors.New("it is not your turn")
	ErrPlayerNotInSession  = errors.New("player is not part of this session")
	ErrInvalidCaster       = errors.New("invalid caster")
	ErrDeadCaster          = errors.New("caster is dead")
	ErrUnknownSkill        = errors.New("caster does not know that skill")
	ErrSkillLocked         = errors.New("skill is not currently enabled")
	ErrSkillOnCooldown     = errors.New("skill is on cooldown")
	ErrDuplicateCaster     = errors.New("caster has already queued a skill this turn")
	ErrNotEnoughChakra     = errors.New("not enough chakra")
	ErrInvalidQueueIndex   = errors.New("invalid queue index")
	ErrInvalidTarget       = errors.New("invalid target")
	ErrTargetAlreadyMarked = errors.New("target already carries that mark")
)

// Session owns the full state of one match: two players, their teams, the
// turn counter and the event log. It is the unit of concurrency isolation:
// every public method locks the session, so at most one inbound action is
// processed at a time, and no state is shared across sessions except the
// read-only roster snapshot.
type Session struct {
	mu sync.Mutex

	id          string
	players     [2]*game.PlayerState
	turn        int
	activeIdx   int
	gameOver    bool
	draw        bool
	winnerIdx   int
	log         []string
	rng         *rand.Rand
	chakraTypes []string
}

// Result describes how a finished match ended. Winner and Loser are empty
// for a draw.
type Result struct {
	Winner game.PlayerID
	Loser  game.PlayerID
	Draw   bool
	Stats  map[game.PlayerID]game.MatchStats
}

// Snapshot is the state view broadcast to both clients after every applied
// action. Players and the log are copied under the session lock, so callers
// may hold or serialize a snapshot at any point without racing later actions.
type Snapshot struct {
	SessionID      string                               `json:"gameId"`
	Turn           int                                  `json:"turn"`
	ActivePlayerID game.PlayerID                        `json:"activePlayerId"`
	Players        map[game.PlayerID]*game.PlayerState  `json:"players"`
	IsGameOver     bool                                 `json:"isGameOver"`
	Draw           bool                                 `json:"draw,omitempty"`
	Winner         game.PlayerID                        `json:"winner,omitempty"`
	Log            []string                             `json:"log"`
}

// NewSession creates a match between two prepared players. The first player
// acts first. chakraTypes is the roster's enabled chakra-type list; rng
// drives every random draw in the session (injected for deterministic tests).
func NewSession(p1, p2 *game.PlayerState, chakraTypes []string, rng *rand.Rand) *Session {
	return &Session{
		id:          uuid.NewString(),
		players:     [2]*game.PlayerState{p1, p2},
		activeIdx:   0,
		winnerIdx:   -1,
		rng:         rng,
		chakraTypes: chakraTypes,
		log:         []string{},
	}
}

// ID returns the unique session id.
func (s *Session) ID() string { return s.id }

// HasPlayer reports whether the identity participates in this session.
func (s *Session) HasPlayer(id game.PlayerID) bool {
	return s.players[0].ID == id || s.players[1].ID == id
}

// PlayerIDs returns both participant identities.
func (s *Session) PlayerIDs() [2]game.PlayerID {
	return [2]game.PlayerID{s.players[0].ID, s.players[1].ID}
}

// Start logs the match opening, performs the initial chakra generation for
// the first active player and returns the initial state.
func (s *Session) Start() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLog("Game has started!")
	s.generateChakra(s.players[s.activeIdx])
	return s.snapshot()
}

// State returns the current state view.
func (s *Session) State() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Result returns the match outcome, or nil while the match is running.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gameOver {
		return nil
	}
	res := &Result{
		Draw: s.draw,
		Stats: map[game.PlayerID]game.MatchStats{
			s.players[0].ID: s.players[0].Stats,
			s.players[1].ID: s.players[1].Stats,
		},
	}
	if !s.draw && s.winnerIdx >= 0 {
		res.Winner = s.players[s.winnerIdx].ID
		res.Loser = s.players[1-s.winnerIdx].ID
	}
	return res
}

func (s *Session) snapshot() *Snapshot {
	snap := &Snapshot{
		SessionID:      s.id,
		Turn:           s.turn,
		ActivePlayerID: s.players[s.activeIdx].ID,
		Players: map[game.PlayerID]*game.PlayerState{
			s.players[0].ID: s.players[0].Clone(),
			s.players[1].ID: s.players[1].Clone(),
		},
		IsGameOver: s.gameOver,
		Draw:       s.draw,
		Log:        append([]string(nil), s.log...),
	}
	if s.gameOver && !s.draw && s.winnerIdx >= 0 {
		snap.Winner = s.players[s.winnerIdx].ID
	}
	return snap
}

func (s *Session) addLog(format string, args ...interface{}) {
	if len(args) == 0 {
		s.log = append(s.log, format)
		return
	}
	s.log = append(s.log, fmt.Sprintf(format, args...))
}

// activePlayer and helpers assume the session lock is held.
func (s *Session) activePlayer() *game.PlayerState { return s.players[s.activeIdx] }

func (s *Session) playerIndex(id game.PlayerID) int {
	for i, p := range s.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ownerOf returns the player whose team contains the instance, or nil.
func (s *Session) ownerOf(instanceID string) *game.PlayerState {
	for _, p := range s.players {
		if p.Combatant(instanceID) != nil {
			return p
		}
	}
	return nil
}

// requireActive validates that the identity may act right now.
func (s *Session) requireActive(id game.PlayerID) error {
	if s.gameOver {
		return ErrGameOver
	}
	idx := s.playerIndex(id)
	if idx < 0 {
		return ErrPlayerNotInSession
	}
	if idx != s.activeIdx {
		return ErrNotYourTurn
	}
	return nil
}

// checkGameOver evaluates team wipes. A simultaneous wipe is an explicit
// draw: no winner is picked and no rating update is owed. Fires exactly once.
func (s *Session) checkGameOver() {
	if s.gameOver {
		return
	}
	down0 := s.players[0].Defeated()
	down1 := s.players[1].Defeated()
	switch {
	case down0 && down1:
		s.gameOver = true
		s.draw = true
		s.addLog("--- Game Over! Both teams have fallen. The match is a draw. ---")
	case down0:
		s.gameOver = true
		s.winnerIdx = 1
		s.addLog("--- Game Over! %s is victorious! ---", s.players[1].Name)
	case down1:
		s.gameOver = true
		s.winnerIdx = 0
		s.addLog("--- Game Over! %s is victorious! ---", s.players[0].Name)
	}
}
