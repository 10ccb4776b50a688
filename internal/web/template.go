package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/microwave-oven/internal/status"
)

// page is the view model of the status page.
type page struct {
	Mode      string
	Selection string
	Heating   string
	Remaining string // empty unless heating
	Light     string
	Session   string
	MQTT      string
	Broker    string
	Counts    status.Counts
	Uptime    string
	Started   string
	Config    status.Config
	Heartbeat string
}

func newPage(snap status.Snapshot) page {
	o := snap.Oven
	p := page{
		Mode:      string(o.Mode),
		Heating:   "off",
		Light:     onOff(o.Light),
		Session:   o.SessionID,
		MQTT:      "disconnected",
		Broker:    snap.Config.Broker,
		Counts:    snap.Counts,
		Uptime:    formatUptime(snap.Uptime()),
		Started:   snap.StartTime.UTC().Format(time.RFC3339),
		Config:    snap.Config,
		Heartbeat: "disabled",
	}
	if p.Mode == "" {
		p.Mode = "UNKNOWN"
	}
	if o.SelectedPower > 0 {
		p.Selection = fmt.Sprintf("%d W", o.SelectedPower)
		if o.SelectedMins > 0 {
			p.Selection += fmt.Sprintf(", %d min", o.SelectedMins)
		}
	}
	if o.Heating {
		p.Heating = fmt.Sprintf("%d W", o.HeatingWatts)
		p.Remaining = fmt.Sprintf("%02d:%02d", o.Remaining/60, o.Remaining%60)
	}
	if snap.MQTTConnected {
		p.MQTT = "connected"
	}
	if snap.Config.HeartbeatMs > 0 {
		p.Heartbeat = fmt.Sprintf("%dms", snap.Config.HeartbeatMs)
	}
	return p
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// formatUptime renders d as "3d 4h 5m 6s", dropping leading zero units.
func formatUptime(d time.Duration) string {
	secs := int(d / time.Second)
	days, secs := secs/86400, secs%86400
	hours, secs := secs/3600, secs%3600
	mins, secs := secs/60, secs%60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, mins, secs)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, mins, secs)
	case mins > 0:
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Microwave Oven</title>
<style>
body { font: 14px/1.4 monospace; max-width: 36em; margin: 2em auto; padding: 0 1em; }
section { border: 1px solid #ccc; border-radius: 4px; margin: 1em 0; padding: 0.5em 1em; }
h2 { font-size: 1em; margin: 0.3em 0; text-transform: uppercase; color: #555; }
dl { display: grid; grid-template-columns: 12em 1fr; margin: 0; }
dt { color: #666; }
dd { margin: 0; }
.mode { font-size: 1.6em; font-weight: bold; }
.on, .connected { color: #080; }
.off { color: #999; }
.disconnected { color: #c00; }
</style>
</head>
<body>
<h1>Microwave Oven</h1>

<section>
<div id="mode" class="mode">{{.Mode}}</div>
<dl>
{{with .Selection}}<dt>Selected</dt><dd>{{.}}</dd>{{end}}
<dt>Heating</dt><dd id="heating" class="{{if eq .Heating "off"}}off{{else}}on{{end}}">{{.Heating}}</dd>
{{with .Remaining}}<dt>Remaining</dt><dd id="remaining">{{.}}</dd>{{end}}
<dt>Light</dt><dd class="{{.Light}}">{{.Light}}</dd>
{{with .Session}}<dt>Session</dt><dd>{{.}}</dd>{{end}}
</dl>
</section>

<section>
<h2>Sessions</h2>
<dl>
<dt>Started</dt><dd>{{.Counts.Started}}</dd>
<dt>Completed</dt><dd>{{.Counts.Completed}}</dd>
<dt>Stopped</dt><dd>{{.Counts.Stopped}}</dd>
<dt>Door interrupts</dt><dd>{{.Counts.DoorInterrupts}}</dd>
<dt>Rejected inputs</dt><dd>{{.Counts.Rejected}}</dd>
</dl>
</section>

<section>
<h2>Daemon</h2>
<dl>
<dt>MQTT</dt><dd class="{{.MQTT}}">{{.MQTT}} ({{.Broker}})</dd>
<dt>Uptime</dt><dd>{{.Uptime}}</dd>
<dt>Up since</dt><dd>{{.Started}}</dd>
<dt>Power range</dt><dd>{{.Config.MinPower}}..{{.Config.MaxPower}} W</dd>
<dt>Tick</dt><dd>{{.Config.TickMs}}ms</dd>
<dt>Debounce</dt><dd>{{.Config.DebounceMs}}ms</dd>
<dt>Heartbeat</dt><dd>{{.Heartbeat}}</dd>
<dt>HTTP</dt><dd>{{.Config.HTTPAddr}}</dd>
</dl>
</section>

<p><a href="/index.json">JSON</a> | <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) error {
	return indexTmpl.Execute(w, newPage(snap))
}
