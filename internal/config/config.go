package config

import (
	"errors"
	"fmt"

	"artnetnode/internal/artnet"
	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config структура конфигурации.
type Config struct {
	Logger LogConf  // Logger - конфигурация регистратора.
	MQTT   MQTTConf // MQTT - конфигурация MQTT клиента.
	Node   NodeConf // Node - описание узла Art-Net.
}

// LogConf структура конфигурации.
type LogConf struct {
	Level  string `toml:"log-level"` // Level - уровень логирования.
	Format string `toml:"format"`    // Format - text или json.
}

// MQTTConf структура конфигурации.
type MQTTConf struct {
	ClientID    string `toml:"clientID"`     // ClientID - имя клиента.
	Host        string `toml:"server"`       // Host - адрес MQTT сервера.
	Port        string `toml:"port"`         // Port - порт MQTT сервера.
	User        string `toml:"user"`         // User - логин для подключения к MQTT серверу.
	Password    string `toml:"password"`     // Password - пароль для подключения к MQTT серверу.
	Qos         byte   `toml:"qos"`          // Qos - качество обслуживания.
	TopicPrefix string `toml:"topic-prefix"` // TopicPrefix - корень топиков подписки.
}

// NodeConf describes the node advertised in ArtPollReply.
type NodeConf struct {
	ShortName        string   `toml:"short-name"`
	LongName         string   `toml:"long-name"`
	NodeReport       string   `toml:"node-report"`
	OEM              uint16   `toml:"oem"`
	ESTAManufacturer uint16   `toml:"esta-manufacturer"`
	Status1          uint8    `toml:"status1"`
	Status2          uint8    `toml:"status2"`
	SwIn             []uint8  `toml:"sw-in"`
	IP               string   `toml:"ip"`            // IP - пустое значение: поиск по AddressRange.
	MAC              string   `toml:"mac"`           // MAC - пустое значение: MAC найденного интерфейса.
	AddressRange     string   `toml:"address-range"` // AddressRange - CIDR сети Art-Net.
	DefaultRole      string   `toml:"default-role"`  // DefaultRole - output, input или io.
	Universes        []uint16 `toml:"universes"`     // Universes - статические подписки (15 бит).
	PollInterval     int      `toml:"poll-interval"` // PollInterval - период в секундах.
}

// Default returns the configuration used when a key is missing.
func Default() Config {
	return Config{
		Logger: LogConf{Level: "info", Format: "text"},
		MQTT: MQTTConf{
			ClientID:    "artnetnode",
			Host:        "localhost",
			Port:        "1883",
			TopicPrefix: "artnet/node",
		},
		Node: NodeConf{
			ShortName:    "artnetnode",
			LongName:     "Art-Net node",
			OEM:          0x00FF,
			Status2:      0x08,
			AddressRange: artnet.DefaultAddressRange,
			DefaultRole:  "output",
			PollInterval: 3,
		},
	}
}

// NewConfig конструктор.
func NewConfig(path string) (*Config, error) {
	// default values
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return &cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return &cfg, err
	}
	return &cfg, nil
}

// Validate checks values the decoder cannot.
func (c *Config) Validate() error {
	if c.MQTT.Qos > 2 {
		return fmt.Errorf("%w: qos %d out of range 0..2", ErrInvalidConfig, c.MQTT.Qos)
	}
	if c.MQTT.TopicPrefix == "" {
		return fmt.Errorf("%w: empty topic-prefix", ErrInvalidConfig)
	}
	if len(c.Node.SwIn) > 4 {
		return fmt.Errorf("%w: sw-in has %d entries, at most 4 allowed", ErrInvalidConfig, len(c.Node.SwIn))
	}
	for _, u := range c.Node.Universes {
		if u > 0x7FFF {
			return fmt.Errorf("%w: universe %d is not a 15-bit port-address", ErrInvalidConfig, u)
		}
	}
	if c.Node.PollInterval <= 0 {
		return fmt.Errorf("%w: poll-interval must be positive", ErrInvalidConfig)
	}
	return nil
}
