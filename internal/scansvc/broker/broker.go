package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avvvet/cardscanner-services/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Broker publishes inventory events for the socket service. A Broker with a
// nil connection drops every event, which is how the scan service runs
// without NATS.
type Broker struct {
	Conn     *nats.Conn
	Topic    string
	Instance string
}

func NewBroker(conn *nats.Conn, instance string) *Broker {
	return &Broker{
		Conn:     conn,
		Topic:    comm.ScanTopic,
		Instance: instance,
	}
}

func (b *Broker) Enabled() bool {
	return b != nil && b.Conn != nil
}

// publish message to socket service
func (b *Broker) Publish(msg *comm.WSMessage) error {
	if !b.Enabled() {
		return nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	if err := b.Conn.Publish(b.Topic, payload); err != nil {
		log.Errorf("Error publishing to topic %s: %s", b.Topic, err)
		return err
	}

	return nil
}

func (b *Broker) PublishScanCompleted(event comm.ScanCompleted) {
	if !b.Enabled() {
		return
	}
	event.Instance = b.Instance

	msg, err := comm.NewMessage(comm.TypeScanCompleted, event)
	if err != nil {
		log.Errorf("error [PublishScanCompleted] marshaling scan %s: %v", event.Scan.ID, err)
		return
	}

	_ = b.Publish(msg)
}

func (b *Broker) PublishInventoryChanged(event comm.InventoryChanged) {
	if !b.Enabled() {
		return
	}
	event.Instance = b.Instance

	msg, err := comm.NewMessage(comm.TypeInventoryChanged, event)
	if err != nil {
		log.Errorf("error [PublishInventoryChanged] marshaling %s event: %v", event.Action, err)
		return
	}

	_ = b.Publish(msg)
}

// StartHeartbeat announces this instance to the socket service until ctx is done.
func (b *Broker) StartHeartbeat(ctx context.Context, interval time.Duration) {
	if !b.Enabled() {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		msg, err := comm.NewMessage(comm.TypeHeartbeat, comm.ServiceHeartbeat{ID: b.Instance, Timestamp: time.Now().UTC()})
		if err == nil {
			_ = b.Publish(msg)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
