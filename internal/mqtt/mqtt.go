// Package mqtt publishes oven events and daemon lifecycle messages.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/microwave-oven/internal/oven"
)

// Topic carries oven state changes.
const Topic = "appliance/microwave/events"

// TopicSystem carries daemon lifecycle messages and the last will.
const TopicSystem = "appliance/microwave/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends an oven event. Failures are returned, never fatal.
	Publish(event oven.Event) error

	// PublishSystem sends a lifecycle event.
	PublishSystem(event SystemEvent) error

	Close() error
}

// ConnectionStatus reports whether the broker connection is up.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent is a daemon lifecycle message (STARTUP, HEARTBEAT, SHUTDOWN,
// RECONNECTED, OFFLINE).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string
	Reason     string // shutdown signal or will reason
	RawPayload []byte // pre-rendered snapshot; returned as-is by FormatSystemPayload
	Retained   bool
}

// Payload is the JSON body published on Topic.
type Payload struct {
	Oven OvenPayload `json:"oven"`
}

// OvenPayload describes one oven event.
type OvenPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Mode      string `json:"mode,omitempty"`
	From      string `json:"from,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Power     int    `json:"power_watts,omitempty"`
	Seconds   int    `json:"seconds,omitempty"`
}

// FormatPayload renders an oven event as JSON.
func FormatPayload(event oven.Event) ([]byte, error) {
	payload := Payload{
		Oven: OvenPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			Mode:      string(event.Mode),
			From:      string(event.From),
			SessionID: event.SessionID,
			Power:     event.Power,
			Seconds:   event.Seconds,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the JSON body of simple lifecycle events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the lifecycle event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload renders a lifecycle event. A set RawPayload wins.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
