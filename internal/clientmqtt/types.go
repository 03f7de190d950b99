package clientmqtt

import (
	"artnetnode/internal/artnet"
)

type MQTTConf struct {
	ClientID    string // ClientID - уникальное имя клиента для брокеров.
	Schema      string // Schema - тип подключения.
	Host        string // Host - адрес MQTT сервера.
	Port        string // Port - порт MQTT сервера.
	User        string // User - логин для подключения к MQTT серверу.
	Password    string // Password - пароль для подключения к MQTT серверу.
	Qos         byte   // Qos - качество обслуживания.
	TopicPrefix string // TopicPrefix - корень топиков, например "artnet/node".
}

// Subscriber receives the subscription changes. *node.Node implements it.
type Subscriber interface {
	Register(addr artnet.UniverseAddress, role artnet.Role)
	Unregister(addr artnet.UniverseAddress)
	Clear()
	Mapping() artnet.PortMapping
}

// Command is the payload of the subscribe and unsubscribe topics.
type Command struct {
	Universes []uint16 `json:"universes"`      // Universes - 15-битные адреса.
	Role      string   `json:"role,omitempty"` // Role - output, input или io.
}

// PortState is one advertised port as published on the ports topic.
type PortState struct {
	Index    uint8  `json:"index"`
	Address  uint16 `json:"address"`
	Universe string `json:"universe"`
	Role     string `json:"role"`
}

// PortsState is the retained state published after every change.
type PortsState struct {
	HasSubscriptions bool        `json:"hasSubscriptions"`
	Count            int         `json:"count"`
	Ports            []PortState `json:"ports"`
}
