package notify

import (
	"fmt"
	"log"
	"time"

	"github.com/keller/failsafe-notifier/internal/logic"
	"github.com/keller/failsafe-notifier/internal/spinitron"
)

// Fixed copy for the notification channels.
const (
	djEmailSubject = "ATTN: Failsafe Activated - Action Required During Your Show"

	djAlertText = "WARNING: the station may be experiencing dead air (more than " +
		"60 seconds of silence). The studio audio console has automatically " +
		"switched to the backup audio source. If you are the current DJ, please " +
		"check your broadcast: ensure your microphone is on, music is playing, " +
		"and levels are appropriate. If issues persist, contact station " +
		"management. Please do not leave the station until management is contacted."

	embedFooterText = "Powered by failsafe-notifier"
)

// DispatcherConfig carries the static pieces of rendering: which label is
// the backup source, where playlist/persona web links point, which bot IDs
// address the management and DJ-wide channels, and the zone playlist times
// are shown in.
type DispatcherConfig struct {
	Backup        logic.Source
	SpinitronBase string
	BotIDMgmt     string
	BotIDDJs      string
	Author        EmbedAuthor
	Location      *time.Location
}

// Dispatcher fans one event out to every configured channel. Senders may
// be nil (channel not configured); a nil or failing channel never stops
// the others.
type Dispatcher struct {
	cfg     DispatcherConfig
	discord EmbedPoster
	groupme BotPoster
	mail    MailSender
}

// NewDispatcher creates a dispatcher over the given senders.
func NewDispatcher(cfg DispatcherConfig, discord EmbedPoster, groupme BotPoster, mail MailSender) *Dispatcher {
	return &Dispatcher{cfg: cfg, discord: discord, groupme: groupme, mail: mail}
}

// SourceChange delivers all notifications for one source change: a
// directed DJ email (or the DJ-wide channel fallback) when switching to
// backup during a live show, the webhook embed, and the management
// channel message.
func (d *Dispatcher) SourceChange(ev *Event) {
	toBackup := ev.Current == d.cfg.Backup

	if toBackup && ev.Contact != nil {
		d.notifyDJ(ev)
	}

	d.postSourceChangeEmbed(ev, toBackup)
	d.postBot(d.cfg.BotIDMgmt, d.managementText(ev, toBackup))
}

// notifyDJ emails the on-air DJ, then tells the management channel that
// the email went out. Without an emailable contact the DJ-wide channel
// gets a broadcast alert instead.
func (d *Dispatcher) notifyDJ(ev *Event) {
	if ev.Contact.Email == "" {
		log.Printf("notify: no email for DJ of %q, alerting DJ-wide channel", playlistTitle(ev.Playlist))
		d.postBot(d.cfg.BotIDDJs, djAlertText)
		return
	}
	if d.mail == nil {
		log.Printf("notify: email not configured, cannot notify DJ %s", ev.Contact.Name)
		return
	}

	body := djEmailBody(ev.Contact.Name, playlistTitle(ev.Playlist))
	if err := d.mail.Send(ev.Contact.Email, djEmailSubject, body); err != nil {
		// Send already logged; the remaining channels still run.
		return
	}
	ev.EmailNotified = ev.Contact.Email
	d.postEmailSentNotice(ev)
}

func (d *Dispatcher) postSourceChangeEmbed(ev *Event, toBackup bool) {
	if d.discord == nil {
		log.Printf("notify: webhook not configured, skipping source-change embed")
		return
	}

	embed := Embed{
		Timestamp: ev.Timestamp.UTC().Format(time.RFC3339),
		Footer:    &EmbedFooter{Text: embedFooterText},
	}
	if d.cfg.Author != (EmbedAuthor{}) {
		author := d.cfg.Author
		embed.Author = &author
	}

	payload := &WebhookPayload{}
	if toBackup {
		payload.Content = "@everyone - Stream May Be Down!"
		embed.Color = ColorError
		embed.Title = "FAILSAFE ACTIVATED (Backup Source)"
		embed.Description = fmt.Sprintf(
			"Switched to backup source **`%s`**. Primary source may have failed. Investigate this!",
			ev.Current)
	} else {
		embed.Color = ColorSuccess
		embed.Title = "Failsafe Resolved (Primary Source)"
		embed.Description = fmt.Sprintf(
			"Switched back to primary source **`%s`**. System normal.", ev.Current)
	}

	if ev.Playlist != nil {
		embed.Fields = d.playlistFields(ev)
		if ev.Playlist.Image != "" {
			embed.Thumbnail = &EmbedThumbnail{URL: ev.Playlist.Image}
		}
	} else {
		embed.Fields = []EmbedField{{Name: "Playlist", Value: "No playlist information available"}}
	}

	payload.Embeds = []Embed{embed}
	if err := d.discord.Post(payload); err != nil {
		log.Printf("notify: source-change webhook failed: %v", err)
	}
}

func (d *Dispatcher) postEmailSentNotice(ev *Event) {
	if d.discord == nil {
		return
	}

	embed := Embed{
		Title: "DJ Email Notification Sent",
		Color: ColorWarning,
		Description: fmt.Sprintf(
			"An automated email was sent to **%s** (`%s`) regarding the failsafe "+
				"activation for their show. Check whether the DJ is aware and needs assistance.",
			ev.Contact.Name, ev.EmailNotified),
		Timestamp: ev.Timestamp.UTC().Format(time.RFC3339),
		Footer:    &EmbedFooter{Text: embedFooterText},
	}
	if d.cfg.Author != (EmbedAuthor{}) {
		author := d.cfg.Author
		embed.Author = &author
	}
	if ev.Playlist != nil {
		embed.Fields = []EmbedField{{
			Name:  "Playlist Currently On-Air",
			Value: d.playlistLink(ev.Playlist.Title, ev.Playlist.ID),
		}}
	}

	if err := d.discord.Post(&WebhookPayload{Embeds: []Embed{embed}}); err != nil {
		log.Printf("notify: email-sent webhook failed: %v", err)
	}
}

func (d *Dispatcher) postBot(botID, text string) {
	if botID == "" {
		return
	}
	if d.groupme == nil {
		log.Printf("notify: bot channel not configured, skipping message")
		return
	}
	if err := d.groupme.Post(botID, text); err != nil {
		log.Printf("notify: bot message failed: %v", err)
	}
}

func (d *Dispatcher) managementText(ev *Event, toBackup bool) string {
	if toBackup {
		return fmt.Sprintf(
			"FAILSAFE ACTIVATED: switched to backup source `%s`. Primary source may have failed. Investigate this!",
			ev.Current)
	}
	return fmt.Sprintf(
		"FAILSAFE RESOLVED: switched back to primary source `%s`. System normal.",
		ev.Current)
}

func (d *Dispatcher) playlistFields(ev *Event) []EmbedField {
	pl := ev.Playlist
	fields := []EmbedField{{
		Name:  "Playlist",
		Value: d.playlistLink(pl.Title, pl.ID),
	}}
	if ev.Contact != nil && ev.Contact.Name != "" {
		fields = append(fields, EmbedField{Name: "DJ", Value: d.personaLink(ev.Contact.Name, ev.Contact.PersonaID)})
	}
	fields = append(fields,
		EmbedField{Name: "Playlist Start", Value: d.formatTime(pl.Start), Inline: true},
		EmbedField{Name: "Playlist End", Value: d.formatTime(pl.End), Inline: true},
	)
	return fields
}

func (d *Dispatcher) playlistLink(title string, id int) string {
	if title == "" {
		title = "N/A"
	}
	if d.cfg.SpinitronBase == "" || id == 0 {
		return title
	}
	return fmt.Sprintf("[%s](%s/playlists/%d)", title, d.cfg.SpinitronBase, id)
}

func (d *Dispatcher) personaLink(name string, id int) string {
	if d.cfg.SpinitronBase == "" || id == 0 {
		return name
	}
	return fmt.Sprintf("[%s](%s/personas/%d)", name, d.cfg.SpinitronBase, id)
}

// Spinitron timestamps come back as ISO 8601 with a numeric zone and no
// colon, but be liberal and accept RFC 3339 too.
var spinitronTimeLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// formatTime renders a playlist timestamp in the configured station
// timezone, falling back to UTC when none is set.
func (d *Dispatcher) formatTime(s string) string {
	if s == "" {
		return "N/A"
	}
	loc := d.cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range spinitronTimeLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return t.In(loc).Format("2006-01-02 15:04 MST")
	}
	log.Printf("notify: could not parse playlist time %q", s)
	return "N/A"
}

func playlistTitle(pl *spinitron.Playlist) string {
	if pl == nil || pl.Title == "" {
		return "N/A"
	}
	return pl.Title
}

func djEmailBody(name, playlistTitle string) string {
	return fmt.Sprintf("Hey %s!\n\n"+
		"This is an automated message from the station's failsafe notifier.\n\n"+
		"It appears the station has switched to the backup audio source during "+
		"your show '%s'. This usually means there is an issue with the audio "+
		"from the console (dead air, incorrect input selected, or an equipment "+
		"malfunction).\n\n"+
		"Please check the following:\n"+
		"1. Is your microphone on and audible?\n"+
		"2. Is your music/audio source playing correctly through the board?\n"+
		"3. Are the correct channels selected and faders up on the console?\n\n"+
		"If you cannot resolve the issue, please ensure the station is "+
		"broadcasting something (automation if available, or a long clean music "+
		"track) and contact station management immediately for assistance.\n\n"+
		"Do not reply to this email, it is unattended.\n\n"+
		"Automated message sent by failsafe-notifier\n",
		name, playlistTitle)
}
