package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/keller/failsafe-notifier/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"sourceOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Failsafe Notifier</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.primary { color: green; font-weight: bold; }
.backup { color: red; font-weight: bold; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.active { color: orange; font-weight: bold; }
</style>
</head>
<body>
<h1>Failsafe Notifier</h1>

<h2>State</h2>
<table>
<tr><th>Active Source</th><td class="{{if eq (printf "%s" .Source) .Config.Primary}}primary{{else if eq (printf "%s" .Source) .Config.Backup}}backup{{else}}unknown{{end}}">{{sourceOrUnknown (printf "%s" .Source)}}</td></tr>
<tr><th>Pin</th><td>{{.Config.PinName}} ({{if .PinState}}high{{else}}low{{end}})</td></tr>
<tr><th>Override</th><td class="{{if .OverrideActive}}active{{end}}">{{if .OverrideActive}}active until {{.OverrideEnd.UTC.Format "2006-01-02T15:04:05Z"}}{{else}}inactive{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>Broker</th><td class="{{if .BrokerConnected}}connected{{else}}disconnected{{end}}">{{if .BrokerConnected}}connected{{else}}disconnected{{end}}</td></tr>
</table>

<h2>Switch Counts</h2>
<table>
<tr><th>To Backup</th><td>{{.Counts.ToBackup}}</td></tr>
<tr><th>To Primary</th><td>{{.Counts.ToPrimary}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
