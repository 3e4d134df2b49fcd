package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/C-Chambers/the-arena-engine-server/internal/constants"
	"github.com/C-Chambers/the-arena-engine-server/internal/game"
	"github.com/C-Chambers/the-arena-engine-server/internal/logging"
	"github.com/C-Chambers/the-arena-engine-server/internal/matchmaking"
	"github.com/C-Chambers/the-arena-engine-server/internal/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy is enforced by the deployment proxy.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Gateway upgrades client connections and bridges them to the matchmaking
// manager: the game socket feeds the queues and relays in-match actions, the
// status socket streams analytics to observers.
type Gateway struct {
	manager   *matchmaking.Manager
	analytics *matchmaking.Analytics
	repo      storage.Repository
}

func NewGateway(manager *matchmaking.Manager, analytics *matchmaking.Analytics, repo storage.Repository) *Gateway {
	return &Gateway{manager: manager, analytics: analytics, repo: repo}
}

// HandleGameSocket upgrades a player connection, enqueues it and pumps
// inbound actions until the connection drops.
func (g *Gateway) HandleGameSocket(c *gin.Context) {
	playerID := c.Query("playerId")
	if playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: "playerId is required"})
		return
	}
	name := c.Query("name")
	if name == "" {
		name = playerID
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", err, logging.Fields{
			constants.LogFieldPlayerID: playerID,
		})
		return
	}

	cl := &client{id: game.PlayerID(playerID), name: name, conn: conn}
	profile, perr := g.repo.GetProfile(playerID)
	if perr != nil {
		logging.Error("profile lookup failed, treating player as new", perr, logging.Fields{
			constants.LogFieldPlayerID: playerID,
		})
	} else if profile != nil {
		cl.games = profile.GamesPlayed
		if profile.DisplayName != "" && c.Query("name") == "" {
			cl.name = profile.DisplayName
		}
	}

	if err := g.manager.HandleNewPlayer(cl); err != nil {
		_ = cl.Send(matchmaking.Message{Type: constants.MsgActionError, Payload: gin.H{
			constants.JSONKeyMessage: err.Error(),
		}})
		cl.close()
		return
	}
	_ = cl.Send(matchmaking.Message{Type: constants.MsgStatus, Payload: gin.H{
		constants.JSONKeyMessage: "searching for an opponent",
	}})

	g.readLoop(cl)
}

func (g *Gateway) readLoop(cl *client) {
	defer func() {
		g.manager.Disconnect(cl.id)
		cl.close()
	}()
	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Error("game socket read failed", err, logging.Fields{
					constants.LogFieldPlayerID: string(cl.id),
				})
			}
			return
		}
		// A single undecodable frame is dropped; it must not cost the player
		// their queue slot or their match.
		var action matchmaking.Action
		if err := json.Unmarshal(data, &action); err != nil {
			logging.Error("dropping malformed client frame", err, logging.Fields{
				constants.LogFieldPlayerID: string(cl.id),
			})
			continue
		}
		// Invalid actions are answered over the socket by the manager; the
		// error return only matters for connection-level handling.
		_ = g.manager.HandlePlayerAction(cl.id, action)
	}
}

// statusPushPeriod is how often the status socket streams a fresh snapshot.
const statusPushPeriod = 2 * time.Second

// HandleStatusSocket streams analytics snapshots to a dashboard connection
// until it closes.
func (g *Gateway) HandleStatusSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error("status socket upgrade failed", err, nil)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(statusPushPeriod)
	defer ticker.Stop()

	send := func() error {
		return conn.WriteJSON(matchmaking.Message{Type: constants.MsgStatus, Payload: gin.H{
			"metrics": g.analytics.Snapshot(),
			"alerts":  g.analytics.Alerts(),
		}})
	}
	if err := send(); err != nil {
		return
	}
	for range ticker.C {
		if err := send(); err != nil {
			return
		}
	}
}
