// Package serial opens the serial port an RC receiver is attached to.
package serial

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"
)

// ErrNoDevice indicates no serial device is configured.
var ErrNoDevice = errors.New("no serial device")

// Config is the serial port configuration.
type Config struct {
	Device      string
	BaudRate    int
	ReadTimeout time.Duration
}

var defaultConfig = Config{
	BaudRate:    115200,
	ReadTimeout: 100 * time.Millisecond,
}

func init() {
	if val := os.Getenv("RCRX_SERIAL_DEVICE"); val != "" {
		defaultConfig.Device = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "serial", defaultConfig.Device, "Serial device the receiver is attached to")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Serial baud rate")
	flag.DurationVar(&defaultConfig.ReadTimeout, "serial-read-timeout", defaultConfig.ReadTimeout, "Serial read timeout")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Mode returns the serial mode, always 8N1.
func (c *Config) Mode() *serial.Mode {
	return &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Open opens the configured device.
// A read times out with no data instead of an error.
func (c *Config) Open() (io.ReadCloser, error) {
	if c.Device == "" {
		return nil, ErrNoDevice
	}
	port, err := serial.Open(c.Device, c.Mode())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.Device, err)
	}
	if c.ReadTimeout > 0 {
		if err := port.SetReadTimeout(c.ReadTimeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("set read timeout %s: %w", c.Device, err)
		}
	}
	glog.Infof("serial %s opened at %d baud", c.Device, c.BaudRate)
	return port, nil
}

// Ports lists the serial ports available.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
