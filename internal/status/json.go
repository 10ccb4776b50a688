package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Oven          OvenJSON   `json:"oven"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// OvenJSON is the JSON representation of the appliance state.
type OvenJSON struct {
	Mode             string `json:"mode"`
	SelectedPower    int    `json:"selected_power_watts"`
	SelectedMinutes  int    `json:"selected_minutes"`
	Heating          bool   `json:"heating"`
	HeatingWatts     int    `json:"heating_watts"`
	Light            bool   `json:"light"`
	RemainingSeconds int    `json:"remaining_seconds"`
	SessionID        string `json:"session_id,omitempty"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Started        int `json:"started"`
	Completed      int `json:"completed"`
	Stopped        int `json:"stopped"`
	DoorInterrupts int `json:"door_interrupts"`
	Rejected       int `json:"rejected"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs      int64  `json:"tick_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	MinPower    int    `json:"min_power_watts"`
	MaxPower    int    `json:"max_power_watts"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	mode := string(snap.Oven.Mode)
	if mode == "" {
		mode = "UNKNOWN"
	}

	return StatusInner{
		Oven: OvenJSON{
			Mode:             mode,
			SelectedPower:    snap.Oven.SelectedPower,
			SelectedMinutes:  snap.Oven.SelectedMins,
			Heating:          snap.Oven.Heating,
			HeatingWatts:     snap.Oven.HeatingWatts,
			Light:            snap.Oven.Light,
			RemainingSeconds: snap.Oven.Remaining,
			SessionID:        snap.Oven.SessionID,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Started:        snap.Counts.Started,
			Completed:      snap.Counts.Completed,
			Stopped:        snap.Counts.Stopped,
			DoorInterrupts: snap.Counts.DoorInterrupts,
			Rejected:       snap.Counts.Rejected,
		},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			DebounceMs:  snap.Config.DebounceMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			MinPower:    snap.Config.MinPower,
			MaxPower:    snap.Config.MaxPower,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the indented status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the compact status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
