package clientmqtt

import (
	"encoding/json"
	"testing"

	"artnetnode/internal/artnet"
	"artnetnode/internal/logger"
	"artnetnode/internal/node"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() (*ClientMQTT, *node.Node) {
	n := node.New(logger.NewNop(), artnet.NodeIdentity{}, artnet.DefaultNodeMetadata(), artnet.RoleOutput)
	c := NewClient(logger.NewNop(), MQTTConf{ClientID: "test", TopicPrefix: "artnet/node/"}, n)
	return c, n
}

func TestHandleSubscribe(t *testing.T) {
	c, n := newTestClient()

	require.NoError(t, c.HandleMessage("artnet/node/subscribe", []byte(`{"universes":[1,2,3]}`)))
	assert.Equal(t, 3, n.ActiveCount())

	require.NoError(t, c.HandleMessage("artnet/node/subscribe", []byte(`{"universes":[3,20],"role":"input"}`)))
	assert.Equal(t, 4, n.ActiveCount())

	slots := n.Mapping().Slots()
	require.Len(t, slots, 2)
	assert.Equal(t, artnet.RoleOutput, slots[0].Role(), "universe 3 keeps its first role")
	assert.Equal(t, artnet.RoleInput, slots[1].Role())
}

func TestHandleUnsubscribeAndClear(t *testing.T) {
	c, n := newTestClient()
	require.NoError(t, c.HandleMessage("artnet/node/subscribe", []byte(`{"universes":[1,2,3]}`)))

	require.NoError(t, c.HandleMessage("artnet/node/unsubscribe", []byte(`{"universes":[2,9]}`)))
	assert.Equal(t, 2, n.ActiveCount())

	require.NoError(t, c.HandleMessage("artnet/node/clear", nil))
	assert.Equal(t, 0, n.ActiveCount())
}

func TestHandleMessageErrors(t *testing.T) {
	c, n := newTestClient()

	tests := []struct {
		name    string
		topic   string
		payload string
		want    error
	}{
		{"foreign topic", "other/subscribe", `{}`, ErrUnknownTopic},
		{"unknown leaf", "artnet/node/reboot", `{}`, ErrUnknownTopic},
		{"bad json", "artnet/node/subscribe", `{"universes":`, ErrInvalidPayload},
		{"universe too large", "artnet/node/subscribe", `{"universes":[32768]}`, ErrInvalidPayload},
		{"unknown role", "artnet/node/subscribe", `{"universes":[1],"role":"sideways"}`, ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.HandleMessage(tt.topic, []byte(tt.payload))
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 0, n.ActiveCount())
}

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string   { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

func TestMessageHandler(t *testing.T) {
	c, n := newTestClient()

	c.messageHandler(nil, fakeMessage{topic: "artnet/node/subscribe", payload: []byte(`{"universes":[7]}`)})
	assert.Equal(t, 1, n.ActiveCount())

	c.messageHandler(nil, fakeMessage{topic: "artnet/node/subscribe", payload: []byte(`garbage`)})
	assert.Equal(t, 1, n.ActiveCount())
}

func TestTopic(t *testing.T) {
	c, _ := newTestClient()
	assert.Equal(t, "artnet/node/ports", c.Topic(topicPorts))
}

func TestState(t *testing.T) {
	m := artnet.Allocate([]artnet.UniverseAddress{artnet.UniverseFrom15(5), artnet.UniverseFrom15(16)}, nil)
	st := State(m)

	assert.True(t, st.HasSubscriptions)
	assert.Equal(t, 2, st.Count)
	require.Len(t, st.Ports, 2)
	assert.Equal(t, PortState{Index: 1, Address: 16, Universe: artnet.UniverseFrom15(16).String(), Role: "output"}, st.Ports[1])

	b, err := json.Marshal(State(artnet.Allocate(nil, nil)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"hasSubscriptions":false,"count":1,"ports":[{"index":0,"address":0,"universe":"`+artnet.UniverseFrom15(0).String()+`","role":"output"}]}`, string(b))
}
