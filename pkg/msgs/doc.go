// Package msgs provides the schemas published for decoded receiver data.
package msgs

// Every message is wrapped in a Typed envelope so a subscriber can decode
// payloads without knowing the topic layout.
//
// Producer: rcrxd
// Consumer: controllers, rcrxmon
