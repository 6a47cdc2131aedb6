package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagip-ops/sagip/core/engine"
	"github.com/sagip-ops/sagip/core/model"
)

type fakeToken struct{ err error }

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type fakePahoClient struct {
	connected bool
	published map[string][]byte
}

func (c *fakePahoClient) IsConnected() bool { return c.connected }
func (c *fakePahoClient) Connect() paho.Token {
	c.connected = true
	return &fakeToken{}
}
func (c *fakePahoClient) Disconnect(uint) { c.connected = false }
func (c *fakePahoClient) Publish(topic string, _ byte, _ bool, payload interface{}) paho.Token {
	if c.published == nil {
		c.published = make(map[string][]byte)
	}
	c.published[topic] = payload.([]byte)
	return &fakeToken{}
}

func withFakeClient(t *testing.T) *fakePahoClient {
	t.Helper()
	fake := &fakePahoClient{}
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return fake }
	t.Cleanup(func() { newMQTTClient = orig })
	return fake
}

func TestNotifierPublishesEngineEvents(t *testing.T) {
	fake := withFakeClient(t)
	n, err := NewNotifier(Config{Broker: "tcp://localhost:1883"})
	require.NoError(t, err)
	defer n.Close()

	n.Notify(engine.IncidentRegistered{Incident: model.Incident{ID: "INC-001", Type: "Flood"}})
	n.Notify(engine.IncidentClosed{Incident: model.Incident{ID: "INC-001"}, Outcome: "Resolved"})
	n.Notify("not an engine event")

	require.Len(t, fake.published, 2)
	raw, ok := fake.published["dispatch/events/incident_registered"]
	require.True(t, ok)
	var decoded engine.IncidentRegistered
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "INC-001", decoded.Incident.ID)

	_, ok = fake.published["dispatch/events/incident_closed"]
	assert.True(t, ok)
}

func TestNotifierClose(t *testing.T) {
	fake := withFakeClient(t)
	n, err := NewNotifier(Config{Broker: "tcp://localhost:1883"})
	require.NoError(t, err)
	n.Close()
	assert.False(t, fake.connected)
}

func TestTopicKind(t *testing.T) {
	assert.Equal(t, "responder_assigned", topicKind(engine.ResponderAssigned{}))
	assert.Equal(t, "call_logged", topicKind(engine.CallLogged{}))
	assert.Equal(t, "conflict_flagged", topicKind(engine.ConflictFlagged{}))
	assert.Equal(t, "", topicKind(42))
}
