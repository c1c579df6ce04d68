package broker

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/avvvet/cardscanner-services/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

type Broker struct {
	Conn      *nats.Conn
	Broadcast func(*comm.WSMessage) int

	LastHeartbeatMap   sync.Map // scan service instance id -> last heartbeat
	heartbeatThreshold time.Duration
}

func NewBroker(conn *nats.Conn, fncBroadcast func(*comm.WSMessage) int) *Broker {
	return &Broker{
		Conn:               conn,
		Broadcast:          fncBroadcast,
		heartbeatThreshold: time.Second * 15,
	}
}

// consume message from scan service
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) handleMessages(msgNats *nats.Msg) {
	b.HandleMessage(msgNats.Data)
}

// HandleMessage relays scan events to every web client and records heartbeats.
func (b *Broker) HandleMessage(data []byte) {
	message := &comm.WSMessage{}
	if err := json.Unmarshal(data, message); err != nil {
		log.Errorf("Error [Broker.HandleMessage] %s", err)
		return
	}

	switch message.Type {
	case comm.TypeScanCompleted, comm.TypeInventoryChanged:
		n := b.Broadcast(message)
		log.Debugf("relayed %s to %d sockets", message.Type, n)
	case comm.TypeHeartbeat:
		var hb comm.ServiceHeartbeat
		if err := json.Unmarshal(message.Data, &hb); err != nil || hb.ID == "" {
			log.Errorf("Error [Broker.HandleMessage] malformed heartbeat: %v", err)
			return
		}
		b.LastHeartbeatMap.Store(hb.ID, hb.Timestamp)
	default:
		log.Errorf("Unknown message %s", message.Type)
	}
}

// ActiveServices lists scan service instances whose last heartbeat is recent.
func (b *Broker) ActiveServices(now time.Time) []string {
	var ids []string
	b.LastHeartbeatMap.Range(func(key, value any) bool {
		if now.Sub(value.(time.Time)) <= b.heartbeatThreshold {
			ids = append(ids, key.(string))
		} else {
			b.LastHeartbeatMap.Delete(key)
		}
		return true
	})
	sort.Strings(ids)
	return ids
}
