package mqtt

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sagip-ops/sagip/core/engine"
	"github.com/sagip-ops/sagip/core/model"
)

// TestIntegrationNotifier verifies event publication through a real
// Mosquitto broker.
func TestIntegrationNotifier(t *testing.T) {
	if os.Getenv("DOCKER_AVAILABLE") != "true" && os.Getenv("DOCKER_AVAILABLE") != "1" {
		t.Skip("docker not available")
	}
	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:1.6",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() {
		require.NoError(t, container.Terminate(ctx))
	}()

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "1883")
	require.NoError(t, err)
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())

	received := make(chan string, 1)
	subOpts := paho.NewClientOptions().AddBroker(broker).SetClientID("it-subscriber")
	sub := paho.NewClient(subOpts)
	tok := sub.Connect()
	require.True(t, tok.WaitTimeout(10*time.Second))
	require.NoError(t, tok.Error())
	defer sub.Disconnect(250)

	tok = sub.Subscribe("dispatch/events/#", 1, func(_ paho.Client, msg paho.Message) {
		received <- msg.Topic()
	})
	require.True(t, tok.WaitTimeout(10*time.Second))
	require.NoError(t, tok.Error())

	n, err := NewNotifier(Config{Broker: broker, ClientID: "it-notifier", QoS: 1})
	require.NoError(t, err)
	defer n.Close()

	n.Notify(engine.ResponderAssigned{
		Incident:  model.Incident{ID: "INC-001"},
		Responder: model.Responder{ID: "R-001"},
	})

	select {
	case topic := <-received:
		require.Equal(t, "dispatch/events/responder_assigned", topic)
	case <-time.After(10 * time.Second):
		t.Fatal("no event received from broker")
	}
}
