// Package env provides the common configuration of rcrx commands.
package env

import (
	"flag"
	"fmt"
	"os"

	"github.com/robotalks/rcrx/pkg/mqtt"
	"github.com/robotalks/rcrx/pkg/rx"
)

// Config identifies the receiver and where its data goes.
type Config struct {
	// ID is the receiver id used in topics.
	ID          string
	Description string

	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// HTTPAddr is the listen address for websocket clients.
	HTTPAddr string
}

var defaultConfig = Config{
	Description:   "RC receiver",
	MQTTBrokerURL: "mqtt://localhost:1883/rcrx/",
	HTTPAddr:      ":8070",
}

func init() {
	if val := os.Getenv("RCRX_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("RCRX_ID"); val != "" {
		defaultConfig.ID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Receiver ID, default derived from machine ID")
	flag.StringVar(&defaultConfig.Description, "desc", defaultConfig.Description, "Receiver description")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, empty to disable")
	flag.StringVar(&defaultConfig.HTTPAddr, "http", defaultConfig.HTTPAddr, "Listen address for websocket clients, empty to disable")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	if conf.ID == "" {
		conf.ID = MachineID()
	}
	return &conf
}

// NewPublisher creates the MQTT publisher, or nil if MQTT is disabled.
func (c *Config) NewPublisher() (*mqtt.Publisher, error) {
	if c.MQTTBrokerURL == "" {
		return nil, nil
	}
	pub, err := mqtt.NewPublisher(c.MQTTBrokerURL, c.ID, mqtt.Meta{
		Description: c.Description,
		Channels:    rx.NumChannels,
	})
	if err != nil {
		return nil, fmt.Errorf("create MQTT publisher: %w", err)
	}
	return pub, nil
}
