package matchmaking

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/C-Chambers/the-arena-engine-server/internal/constants"
	"github.com/C-Chambers/the-arena-engine-server/internal/engine"
	"github.com/C-Chambers/the-arena-engine-server/internal/game"
	"github.com/C-Chambers/the-arena-engine-server/internal/logging"
	"github.com/C-Chambers/the-arena-engine-server/internal/roster"
)

var (
	ErrAlreadyQueued  = errors.New("player is already waiting in a queue")
	ErrAlreadyInMatch = errors.New("player is already in a match")
	ErrNotInMatch     = errors.New("player is not in a match")
	ErrUnknownAction  = errors.New("unknown action type")
)

// Message is the envelope pushed to clients over their transport.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Action is a client's in-match request, routed to the combat session.
type Action struct {
	Type     string `json:"type"`
	CasterID string `json:"casterId"`
	SkillID  string `json:"skillId"`
	TargetID string `json:"targetId"`
	Index    int    `json:"index"`
	From     int    `json:"from"`
	To       int    `json:"to"`
}

// Client is one connected player as the manager sees it: an identity, its
// queue-classification inputs and a way to push messages back.
type Client interface {
	PlayerID() game.PlayerID
	DisplayName() string
	GamesPlayed() int
	Send(Message) error
}

// TeamProvider loads the team a player brings into a match.
type TeamProvider interface {
	TeamFor(id game.PlayerID) ([]*game.Combatant, error)
}

// RatingSource resolves a player's matchmaking rating.
type RatingSource interface {
	RatingFor(id game.PlayerID) (float64, error)
}

// ResultReporter consumes finished-match outcomes.
type ResultReporter interface {
	ReportResult(*engine.Result)
}

// RosterSource exposes the currently published roster snapshot.
type RosterSource interface {
	Current() *roster.Snapshot
}

// Config tunes queue classification and veteran range expansion.
type Config struct {
	NewPlayerThreshold int           // games played below this go to the new queue
	PriorityWait       time.Duration // new-queue entries older than this sort first
	InitialRange       float64
	RangeStep          float64
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		NewPlayerThreshold: 20,
		PriorityWait:       30 * time.Second,
		InitialRange:       100,
		RangeStep:          50,
	}
}

type entry struct {
	client Client
	since  time.Time
}

type liveSession struct {
	session *engine.Session
	clients map[game.PlayerID]Client
}

// Manager owns the matchmaking queues, the periodic pairing tick and the set
// of live combat sessions. All public methods are safe for concurrent use.
type Manager struct {
	mu sync.Mutex

	cfg       Config
	roster    RosterSource
	teams     TeamProvider
	ratings   RatingSource
	reporter  ResultReporter
	analytics *Analytics
	rng       *rand.Rand
	now       func() time.Time

	newQueue []*entry
	vetQueue []*entry
	sessions map[string]*liveSession
	byPlayer map[game.PlayerID]*liveSession

	tickPeriod time.Duration
	restart    chan struct{}
}

// NewManager wires a manager with its collaborators. rng drives random team
// member spawning and in-session randomness; inject a seeded source in tests.
func NewManager(cfg Config, rs RosterSource, teams TeamProvider, ratings RatingSource, reporter ResultReporter, analytics *Analytics, rng *rand.Rand) *Manager {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Manager{
		cfg:        cfg,
		roster:     rs,
		teams:      teams,
		ratings:    ratings,
		reporter:   reporter,
		analytics:  analytics,
		rng:        rng,
		now:        time.Now,
		sessions:   map[string]*liveSession{},
		byPlayer:   map[game.PlayerID]*liveSession{},
		tickPeriod: tickPeriodFor(0),
		restart:    make(chan struct{}, 1),
	}
}

// Run drives the pairing tick until the context is cancelled. The timer is
// restarted mid-wait only when a population change moves the period.
func (m *Manager) Run(ctx context.Context) {
	timer := time.NewTimer(m.currentPeriod())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			m.Tick()
			timer.Reset(m.currentPeriod())
		case <-m.restart:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(m.currentPeriod())
		}
	}
}

func (m *Manager) currentPeriod() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tickPeriod
}

// HandleNewPlayer enqueues a connected client. A player may hold at most one
// place across both queues and all live sessions.
func (m *Manager) HandleNewPlayer(c Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := c.PlayerID()
	if m.queuedLocked(id) {
		return ErrAlreadyQueued
	}
	if _, in := m.byPlayer[id]; in {
		return ErrAlreadyInMatch
	}

	e := &entry{client: c, since: m.now()}
	queue := "veteran"
	if c.GamesPlayed() < m.cfg.NewPlayerThreshold {
		m.newQueue = append(m.newQueue, e)
		queue = "new"
	} else {
		m.vetQueue = append(m.vetQueue, e)
	}
	logging.Info("player joined matchmaking", logging.Fields{
		constants.LogFieldPlayerID: string(id),
		constants.LogFieldQueue:    queue,
	})
	m.refreshTickLocked()
	return nil
}

func (m *Manager) queuedLocked(id game.PlayerID) bool {
	for _, e := range m.newQueue {
		if e.client.PlayerID() == id {
			return true
		}
	}
	for _, e := range m.vetQueue {
		if e.client.PlayerID() == id {
			return true
		}
	}
	return false
}

// refreshTickLocked recomputes the scheduler period from the population and
// pokes the run loop when it changed.
func (m *Manager) refreshTickLocked() {
	population := len(m.newQueue) + len(m.vetQueue)
	m.analytics.SetQueuePopulation(population)
	period := tickPeriodFor(population)
	if period == m.tickPeriod {
		return
	}
	m.tickPeriod = period
	m.analytics.SetTickPeriod(period)
	logging.Info("matchmaking tick period changed", logging.Fields{
		constants.LogFieldTick:  period.Seconds(),
		constants.LogFieldQueue: population,
	})
	select {
	case m.restart <- struct{}{}:
	default:
	}
}

// Tick runs one pairing pass over both queues.
func (m *Manager) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairNewPlayersLocked()
	m.pairVeteransLocked()
	m.refreshTickLocked()
}

// pairNewPlayersLocked pairs the two front-most new-queue entries while at
// least two remain. Entries waiting past the priority threshold sort ahead,
// ties by enqueue time.
func (m *Manager) pairNewPlayersLocked() {
	now := m.now()
	sort.SliceStable(m.newQueue, func(i, j int) bool {
		pi := now.Sub(m.newQueue[i].since) >= m.cfg.PriorityWait
		pj := now.Sub(m.newQueue[j].since) >= m.cfg.PriorityWait
		if pi != pj {
			return pi
		}
		return m.newQueue[i].since.Before(m.newQueue[j].since)
	})
	for len(m.newQueue) >= 2 {
		a, b := m.newQueue[0], m.newQueue[1]
		if !m.createMatchLocked(a, b) {
			break
		}
		m.newQueue = m.newQueue[2:]
	}
}

// createMatchLocked spins up a session for two entries. On collaborator
// failure it records a failed match and leaves both entries queued.
func (m *Manager) createMatchLocked(a, b *entry) bool {
	p1, err := m.preparePlayer(a.client)
	if err == nil {
		var p2 *game.PlayerState
		p2, err = m.preparePlayer(b.client)
		if err == nil {
			m.startSessionLocked(a, b, p1, p2)
			return true
		}
	}
	m.analytics.RecordMatch(false)
	logging.Error("match creation failed", err, logging.Fields{
		constants.LogFieldPlayerID: string(a.client.PlayerID()),
	})
	return false
}

func (m *Manager) preparePlayer(c Client) (*game.PlayerState, error) {
	team, err := m.teams.TeamFor(c.PlayerID())
	if err != nil {
		return nil, err
	}
	return game.NewPlayerState(c.PlayerID(), c.DisplayName(), team), nil
}

func (m *Manager) startSessionLocked(a, b *entry, p1, p2 *game.PlayerState) {
	snap := m.roster.Current()
	sess := engine.NewSession(p1, p2, snap.ChakraTypes, rand.New(rand.NewSource(m.rng.Int63())))
	state := sess.Start()

	live := &liveSession{
		session: sess,
		clients: map[game.PlayerID]Client{
			p1.ID: a.client,
			p2.ID: b.client,
		},
	}
	m.sessions[sess.ID()] = live
	m.byPlayer[p1.ID] = live
	m.byPlayer[p2.ID] = live

	now := m.now()
	m.analytics.RecordMatch(true, now.Sub(a.since), now.Sub(b.since))
	logging.Info("match created", logging.Fields{
		constants.LogFieldSessionID: sess.ID(),
		constants.LogFieldPlayerID:  string(p1.ID),
	})

	for id, c := range live.clients {
		m.send(c, Message{Type: constants.MsgGameStart, Payload: gameStartPayload{
			PlayerID: id,
			State:    state,
		}})
	}
}

type gameStartPayload struct {
	PlayerID game.PlayerID    `json:"playerId"`
	State    *engine.Snapshot `json:"state"`
}

func (m *Manager) send(c Client, msg Message) {
	if err := c.Send(msg); err != nil {
		logging.Error("failed to push message to client", err, logging.Fields{
			constants.LogFieldPlayerID: string(c.PlayerID()),
		})
	}
}

// HandlePlayerAction routes an in-match action to the player's session. An
// invalid action is reported only to the acting client; a valid one is
// broadcast to both sides, and a finished match is reported and torn down.
func (m *Manager) HandlePlayerAction(id game.PlayerID, action Action) error {
	m.mu.Lock()
	live, ok := m.byPlayer[id]
	m.mu.Unlock()
	if !ok {
		return ErrNotInMatch
	}

	var (
		state *engine.Snapshot
		err   error
	)
	switch action.Type {
	case constants.ActionQueueSkill:
		state, err = live.session.QueueSkill(id, game.ActionRequest{
			CasterID: action.CasterID,
			SkillID:  action.SkillID,
			TargetID: action.TargetID,
		})
	case constants.ActionDequeueSkill:
		state, err = live.session.DequeueSkill(id, action.Index)
	case constants.ActionReorderQueue:
		state, err = live.session.ReorderQueue(id, action.From, action.To)
	case constants.ActionExecuteTurn:
		state, err = live.session.ExecuteTurn(id)
	default:
		err = ErrUnknownAction
	}

	if err != nil {
		if c, ok := live.clients[id]; ok {
			m.send(c, Message{Type: constants.MsgActionError, Payload: map[string]string{
				constants.JSONKeyMessage: err.Error(),
			}})
		}
		return err
	}

	for _, c := range live.clients {
		m.send(c, Message{Type: constants.MsgGameUpdate, Payload: state})
	}

	if state.IsGameOver {
		m.finishSession(live)
	}
	return nil
}

// finishSession reports the outcome and unregisters the session.
func (m *Manager) finishSession(live *liveSession) {
	if res := live.session.Result(); res != nil && m.reporter != nil {
		m.reporter.ReportResult(res)
	}
	m.mu.Lock()
	m.teardownLocked(live)
	m.mu.Unlock()
}

func (m *Manager) teardownLocked(live *liveSession) {
	delete(m.sessions, live.session.ID())
	for id := range live.clients {
		delete(m.byPlayer, id)
	}
}

// Disconnect removes a player from wherever they are: a queue slot frees up,
// a live session is torn down with the opponent notified.
func (m *Manager) Disconnect(id game.PlayerID) {
	m.mu.Lock()
	m.newQueue = removeEntry(m.newQueue, id)
	m.vetQueue = removeEntry(m.vetQueue, id)
	live, inMatch := m.byPlayer[id]
	if inMatch {
		m.teardownLocked(live)
	}
	m.refreshTickLocked()
	m.mu.Unlock()

	if inMatch {
		logging.Info("player disconnected mid-match", logging.Fields{
			constants.LogFieldPlayerID:  string(id),
			constants.LogFieldSessionID: live.session.ID(),
		})
		for other, c := range live.clients {
			if other == id {
				continue
			}
			m.send(c, Message{Type: constants.MsgOpponentDisconnected})
		}
	}
}

func removeEntry(queue []*entry, id game.PlayerID) []*entry {
	out := queue[:0]
	for _, e := range queue {
		if e.client.PlayerID() != id {
			out = append(out, e)
		}
	}
	return out
}

// SessionCount reports the number of live sessions.
func (m *Manager) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// QueuedCount reports the total queue population.
func (m *Manager) QueuedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.newQueue) + len(m.vetQueue)
}
