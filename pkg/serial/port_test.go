package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.bug.st/serial"
)

func TestNewConfig(t *testing.T) {
	conf := NewConfig()
	assert.Equal(t, 115200, conf.BaudRate)
	assert.NotSame(t, Default(), conf)

	mode := conf.Mode()
	assert.Equal(t, 115200, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
	assert.Equal(t, serial.NoParity, mode.Parity)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)
}

func TestOpenNoDevice(t *testing.T) {
	conf := NewConfig()
	conf.Device = ""
	_, err := conf.Open()
	assert.ErrorIs(t, err, ErrNoDevice)
}

func TestOpenMissingDevice(t *testing.T) {
	conf := NewConfig()
	conf.Device = "/dev/rcrx-does-not-exist"
	_, err := conf.Open()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoDevice)
}
