package clientmqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"artnetnode/internal/artnet"
	"artnetnode/internal/logger"
	"artnetnode/internal/node"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	topicSubscribe   = "subscribe"
	topicUnsubscribe = "unsubscribe"
	topicClear       = "clear"
	topicPorts       = "ports"
)

var (
	ErrUnknownTopic   = errors.New("unknown topic")
	ErrInvalidPayload = errors.New("invalid payload")
)

// ClientMQTT is the subscription manager: it drives the node registry from MQTT commands.
type ClientMQTT struct {
	ctx        context.Context
	log        logger.Logger
	cfgClient  MQTTConf
	client     mqtt.Client
	opts       *mqtt.ClientOptions
	subscriber Subscriber
}

// MQTTClient is a convenience interface to use within this application.
type MQTTClient interface {
	Start(ctx context.Context) error
	Stop() error
	HandleMessage(topic string, payload []byte) error
}

// NewClient конструктор.
func NewClient(log logger.Logger, cfgClient MQTTConf, subscriber Subscriber) *ClientMQTT {
	if cfgClient.Schema == "" {
		cfgClient.Schema = "tcp"
	}
	cfgClient.TopicPrefix = strings.TrimSuffix(cfgClient.TopicPrefix, "/")
	return &ClientMQTT{
		ctx:        context.Background(),
		log:        log,
		cfgClient:  cfgClient,
		subscriber: subscriber,
	}
}

func (c *ClientMQTT) Start(ctx context.Context) error {
	// TODO перенаправить в logger
	if c.log.GetLevel() == "debug" {
		mqtt.ERROR = log.New(os.Stdout, "[ERROR] ", 0)
		mqtt.CRITICAL = log.New(os.Stdout, "[CRIT] ", 0)
		mqtt.WARN = log.New(os.Stdout, "[WARN]  ", 0)
	}

	c.ctx = ctx

	c.opts = mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("%s://%s:%s", c.cfgClient.Schema, c.cfgClient.Host, c.cfgClient.Port)).
		SetUsername(c.cfgClient.User).
		SetPassword(c.cfgClient.Password).
		SetDefaultPublishHandler(c.messageHandler).
		SetOnConnectHandler(c.connectHandler).
		SetConnectionLostHandler(c.connectLostHandler).
		SetClientID(c.cfgClient.ClientID).
		SetOrderMatters(true).
		SetCleanSession(false).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetMaxReconnectInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second)

	c.client = mqtt.NewClient(c.opts)

	token := c.client.Connect()
	select {
	case <-token.Done():
		if token.Error() != nil {
			return token.Error()
		}
	case <-c.ctx.Done():
		return errors.New("context canceled")
	}

	c.log.With(logger.Fields{"module": "mqtt"}).Infof("Status: %v", c.client.IsConnected())
	return nil
}

func (c *ClientMQTT) Stop() error {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(500)
	}
	return nil
}

// Topic returns the full topic name for the given leaf.
func (c *ClientMQTT) Topic(leaf string) string {
	return c.cfgClient.TopicPrefix + "/" + leaf
}

// connectHandler (re)subscribes on every connect; the session may be new after a reconnect.
func (c *ClientMQTT) connectHandler(_ mqtt.Client) {
	c.log.With(logger.Fields{"module": "mqtt"}).Info("client connected to server")
	for _, leaf := range []string{topicSubscribe, topicUnsubscribe, topicClear} {
		c.sub(c.Topic(leaf))
	}
	c.publishState()
}

func (c *ClientMQTT) connectLostHandler(_ mqtt.Client, err error) {
	c.log.With(logger.Fields{"module": "mqtt"}).Errorf("server connect lost: %v", err)
}

func (c *ClientMQTT) messageHandler(_ mqtt.Client, msg mqtt.Message) {
	c.log.With(logger.Fields{"module": "mqtt"}).Debugf("received message: %s from topic: %s", msg.Payload(), msg.Topic())
	if err := c.HandleMessage(msg.Topic(), msg.Payload()); err != nil {
		c.log.With(logger.Fields{"module": "mqtt"}).Errorf("message from %s rejected: %v", msg.Topic(), err)
	}
}

// HandleMessage applies one subscription command and publishes the resulting ports.
func (c *ClientMQTT) HandleMessage(topic string, payload []byte) error {
	leaf := strings.TrimPrefix(topic, c.cfgClient.TopicPrefix+"/")
	if leaf == topic {
		return fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}

	switch leaf {
	case topicClear:
		c.subscriber.Clear()
	case topicSubscribe, topicUnsubscribe:
		var cmd Command
		if err := json.Unmarshal(payload, &cmd); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		for _, u := range cmd.Universes {
			if u > 0x7FFF {
				return fmt.Errorf("%w: universe %d is not a 15-bit port-address", ErrInvalidPayload, u)
			}
		}
		if leaf == topicUnsubscribe {
			for _, u := range cmd.Universes {
				c.subscriber.Unregister(artnet.UniverseFrom15(u))
			}
			break
		}
		role, err := node.ParseRole(cmd.Role)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		for _, u := range cmd.Universes {
			c.subscriber.Register(artnet.UniverseFrom15(u), role)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}

	c.publishState()
	return nil
}

// State converts a mapping to its published form.
func State(m artnet.PortMapping) PortsState {
	st := PortsState{
		HasSubscriptions: m.HasSubscriptions(),
		Count:            m.Count(),
		Ports:            make([]PortState, 0, m.Count()),
	}
	for _, p := range m.Slots() {
		st.Ports = append(st.Ports, PortState{
			Index:    p.Index,
			Address:  p.Address.Combined(),
			Universe: p.Address.String(),
			Role:     node.RoleName(p.Role()),
		})
	}
	return st
}

func (c *ClientMQTT) publishState() {
	if c.client == nil || !c.client.IsConnected() {
		return
	}

	topic := c.Topic(topicPorts)
	msg, err := json.Marshal(State(c.subscriber.Mapping()))
	if err != nil {
		c.log.With(logger.Fields{"module": "mqtt"}).Errorf("public topic. msg: %v", err)
		return
	}

	token := c.client.Publish(topic, c.cfgClient.Qos, true, msg)
	go func() {
		select {
		case <-c.ctx.Done():
			return
		case <-token.Done():
			if token.Error() != nil {
				c.log.With(logger.Fields{"module": "mqtt"}).Errorf("error publish topic %s. %v", topic, token.Error())
				return
			}
		}
		c.log.With(logger.Fields{"module": "mqtt"}).Debugf("ports published to %s", topic)
	}()
}

func (c *ClientMQTT) sub(topic string) {
	token := c.client.Subscribe(topic, c.cfgClient.Qos, nil)
	go func() {
		select {
		case <-c.ctx.Done():
			return
		case <-token.Done():
			if token.Error() != nil {
				c.log.With(logger.Fields{"module": "mqtt"}).Errorf("topic %s subscription error. %v", topic, token.Error())
				return
			}
		}
		c.log.With(logger.Fields{"module": "mqtt"}).Debugf("topic %s subscribed", topic)
	}()
}
