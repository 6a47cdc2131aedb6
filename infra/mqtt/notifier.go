// Package mqtt publishes committed engine events to an MQTT broker for
// downstream alert consumers (notification badges, pager bridges). The
// notifier is strictly fire-and-forget: publish failures are logged and
// dropped, and nothing here can influence engine state.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sagip-ops/sagip/core/engine"
	"github.com/sagip-ops/sagip/infra/logger"
	"github.com/sagip-ops/sagip/internal/eventbus"
)

// pahoClient is the subset of the Paho client the notifier uses; tests
// substitute a fake through newMQTTClient.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Notifier forwards engine events to broker topics under a common prefix.
type Notifier struct {
	cli    pahoClient
	prefix string
	qos    byte
	log    logger.Logger
}

// NewNotifier connects to the broker described by cfg.
func NewNotifier(cfg Config) (*Notifier, error) {
	cfg.SetDefaults()
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)

	cli := newMQTTClient(opts)
	tok := cli.Connect()
	if !tok.WaitTimeout(10*time.Second) || tok.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", tok.Error())
	}
	return &Notifier{
		cli:    cli,
		prefix: cfg.TopicPrefix,
		qos:    cfg.QoS,
		log:    logger.New("mqtt-notifier"),
	}, nil
}

// Run consumes the bus until the context is canceled or the bus closes.
func (n *Notifier) Run(ctx context.Context, bus eventbus.EventBus) {
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)
	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				return
			}
			n.Notify(ev)
		case <-ctx.Done():
			return
		}
	}
}

// Notify publishes a single event. Unknown event types are ignored.
func (n *Notifier) Notify(ev eventbus.Event) {
	kind := topicKind(ev)
	if kind == "" {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		n.log.Errorf("marshal %s event: %v", kind, err)
		return
	}
	topic := n.prefix + "/" + kind
	tok := n.cli.Publish(topic, n.qos, false, payload)
	if !tok.WaitTimeout(5 * time.Second) {
		n.log.Warnf("publish to %s timed out", topic)
		return
	}
	if err := tok.Error(); err != nil {
		n.log.Errorf("publish to %s: %v", topic, err)
	}
}

// Close disconnects from the broker.
func (n *Notifier) Close() {
	if n.cli.IsConnected() {
		n.cli.Disconnect(250)
	}
}

func topicKind(ev eventbus.Event) string {
	switch ev.(type) {
	case engine.IncidentRegistered:
		return "incident_registered"
	case engine.ResponderAssigned:
		return "responder_assigned"
	case engine.IncidentClosed:
		return "incident_closed"
	case engine.CallLogged:
		return "call_logged"
	case engine.ConflictFlagged:
		return "conflict_flagged"
	default:
		return ""
	}
}
