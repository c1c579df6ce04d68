package ws

import (
	"sync"
	"time"

	"github.com/avvvet/cardscanner-services/internal/comm"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// writeWait bounds a single write so a client that stops reading cannot stall the relay.
var writeWait = 5 * time.Second

// client serializes writes to one connection; gorilla allows a single concurrent writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

type Ws struct {
	connMap sync.Map // to keep track of socket connection with socketId
}

func NewWs() *Ws {
	return &Ws{}
}

// handle socket message from web clients
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case comm.TypePing:
		s.Send(socketId, &comm.WSMessage{Type: comm.TypePong, SocketId: socketId})
	default:
		log.Warnf("unknown event received: %s", message.Type)
	}
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, &client{conn: conn})
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
}

func (s *Ws) Count() int {
	count := 0
	s.connMap.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}

// Send writes one message to a single socket.
func (s *Ws) Send(socketId string, m *comm.WSMessage) bool {
	c, ok := s.connMap.Load(socketId)
	if !ok {
		return false
	}
	if err := c.(*client).writeJSON(m); err != nil {
		log.Errorf("Error [Ws.Send] socket %s: %v", socketId, err)
		s.drop(socketId, c.(*client))
		return false
	}
	return true
}

// Broadcast writes the message to every open socket and returns how many received it.
func (s *Ws) Broadcast(m *comm.WSMessage) int {
	sent := 0
	s.connMap.Range(func(key, value any) bool {
		if err := value.(*client).writeJSON(m); err != nil {
			log.Errorf("Error [Ws.Broadcast] socket %s: %v", key, err)
			s.drop(key.(string), value.(*client))
			return true
		}
		sent++
		return true
	})
	return sent
}

// drop forgets a socket whose write failed and closes it, which also ends its read loop.
func (s *Ws) drop(socketId string, c *client) {
	s.HandleDisconnect(socketId)
	c.conn.Close()
}
