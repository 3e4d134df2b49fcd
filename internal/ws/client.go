package ws

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/C-Chambers/the-arena-engine-server/internal/game"
	"github.com/C-Chambers/the-arena-engine-server/internal/matchmaking"
)

// client wraps one websocket connection as the matchmaking manager sees it.
// Writes are serialized: gorilla/websocket allows only one concurrent writer.
type client struct {
	id    game.PlayerID
	name  string
	games int

	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) PlayerID() game.PlayerID { return c.id }
func (c *client) DisplayName() string     { return c.name }
func (c *client) GamesPlayed() int        { return c.games }

func (c *client) Send(msg matchmaking.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.Close()
}
