package progress

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pibridge/pibridge/pkg/types"
)

// natsSubject is the subject progress events are mirrored to.
const natsSubject = "pibridge.progress"

// NATSPublisher mirrors progress events to a NATS subject so out-of-process
// consumers (dashboards, recorders) can follow transfers without holding a
// websocket to the server.
type NATSPublisher struct {
	nc *nats.Conn
}

// NewNATSPublisher connects to the given NATS URL. The connection retries in
// the background; a publisher is returned as soon as the client is created.
func NewNATSPublisher(natsURL string) (*NATSPublisher, error) {
	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSPublisher{nc: nc}, nil
}

// Emit publishes one event. Publish failures are logged and dropped; progress
// is best-effort by contract.
func (p *NATSPublisher) Emit(topic string, value uint64) {
	data, _ := json.Marshal(types.ProgressEvent{Topic: topic, Value: value})
	if err := p.nc.Publish(natsSubject, data); err != nil {
		log.Printf("progress: nats publish error: %v", err)
	}
}

// Close drains and closes the NATS connection.
func (p *NATSPublisher) Close() {
	p.nc.Close()
}
