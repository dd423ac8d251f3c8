package notify

// FakeEmbedPoster records webhook payloads for tests.
type FakeEmbedPoster struct {
	Payloads  []*WebhookPayload
	PostError error
}

func (f *FakeEmbedPoster) Post(p *WebhookPayload) error {
	f.Payloads = append(f.Payloads, p)
	return f.PostError
}

// BotMessage is one recorded bot post.
type BotMessage struct {
	BotID string
	Text  string
}

// FakeBotPoster records bot messages for tests.
type FakeBotPoster struct {
	Messages  []BotMessage
	PostError error
}

func (f *FakeBotPoster) Post(botID, text string) error {
	f.Messages = append(f.Messages, BotMessage{BotID: botID, Text: text})
	return f.PostError
}

// SentMail is one recorded email.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// FakeMailSender records emails for tests.
type FakeMailSender struct {
	Sent      []SentMail
	SendError error
}

func (f *FakeMailSender) Send(to, subject, body string) error {
	f.Sent = append(f.Sent, SentMail{To: to, Subject: subject, Body: body})
	return f.SendError
}
