package comm

import (
	"encoding/json"
	"time"

	"github.com/avvvet/cardscanner-services/internal/scansvc/models"
)

// topics
const (
	ScanTopic = "scan.service"
)

// message types
const (
	TypeScanCompleted    = "scan-completed"
	TypeInventoryChanged = "inventory-changed"
	TypeHeartbeat        = "heartbeat"
	TypeError            = "error"
	TypePing             = "ping"
	TypePong             = "pong"
)

type WSMessage struct {
	Type     string          `json:"type"` // e.g. "scan-completed", "inventory-changed"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"`
}

type ServiceHeartbeat struct {
	ID        string    `json:"id"` // service id
	Timestamp time.Time `json:"timestamp"`
}

// ScanCompleted announces a new inventory entry.
type ScanCompleted struct {
	Scan     models.Scan `json:"scan"`
	Instance string      `json:"instance"`
}

// InventoryChanged announces a bulk change: clear, delete or import.
type InventoryChanged struct {
	Action   string `json:"action"` // "clear", "delete", "import"
	Count    int    `json:"count"`
	Instance string `json:"instance"`
}

// NewMessage wraps a payload in the envelope shared by NATS and websocket clients.
func NewMessage(msgType string, payload any) (*WSMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &WSMessage{Type: msgType, Data: data}, nil
}
