package rx

import "errors"

var (
	// ErrNoHandler indicates the Receiver has nowhere to deliver frames.
	ErrNoHandler = errors.New("no frame handler")
)
