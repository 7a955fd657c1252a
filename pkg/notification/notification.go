// Package notification fans one alert out over several channels. The app
// uses it for the orphaned-payment Slack page; mail and webhook channels
// are there for anything that comes next.
//
// An alert names its channels in Via() and implements the matching To*
// method per channel:
//
//	type OrphanedPaymentAlert struct{ TxID string }
//	func (n *OrphanedPaymentAlert) Via() []string { return []string{"slack"} }
//	func (n *OrphanedPaymentAlert) ToSlack() notification.SlackData {
//	    return notification.SlackData{Text: "orphaned charge " + n.TxID}
//	}
//
//	notification.Send("", &OrphanedPaymentAlert{TxID: tx})
package notification

import (
	"fmt"
	"time"

	"github.com/rishavanand/bazario/pkg/httpx"
	"github.com/rishavanand/bazario/pkg/logger"
	"github.com/rishavanand/bazario/pkg/mail"
)

// Notification routes itself: Via returns channel names out of "mail",
// "slack", "webhook".
type Notification interface {
	Via() []string
}

// Per-channel interfaces. A notification implements the ones its Via list
// mentions; a missing implementation is reported as a channel error.
type (
	Mailable    interface{ ToMail() MailData }
	Slackable   interface{ ToSlack() SlackData }
	Webhookable interface{ ToWebhook() WebhookData }
)

// MailData is the mail channel payload.
type MailData struct {
	To      string // empty means use the address passed to Send
	Subject string
	Body    string // HTML
	Text    string // fallback when Body is empty
}

// SlackData is an incoming-webhook message.
type SlackData struct {
	WebhookURL  string // empty means the configured default
	Text        string
	Attachments []SlackAttachment
}

// SlackAttachment is one attachment block.
type SlackAttachment struct {
	Color  string `json:"color,omitempty"` // good | warning | danger
	Title  string `json:"title,omitempty"`
	Text   string `json:"text,omitempty"`
	Footer string `json:"footer,omitempty"`
}

// WebhookData is an arbitrary JSON POST.
type WebhookData struct {
	URL     string
	Payload interface{}
	Headers map[string]string
}

var defaultSlackWebhook string

// SetSlackWebhook sets the fallback Slack incoming-webhook URL. Called at
// boot from config.
func SetSlackWebhook(url string) { defaultSlackWebhook = url }

// Send delivers n on every channel it names. Channels fail independently;
// the returned slice holds one error per failed channel.
func Send(address string, n Notification) []error {
	var errs []error
	for _, ch := range n.Via() {
		err := deliver(ch, address, n)
		if err == nil {
			continue
		}
		logger.Error("notification: channel failed", "channel", ch, "error", err)
		errs = append(errs, err)
	}
	return errs
}

// SendAsync is Send in a goroutine, for callers on a request path.
func SendAsync(address string, n Notification) {
	go func() {
		for _, err := range Send(address, n) {
			logger.Error("notification: async error", "error", err)
		}
	}()
}

func deliver(channel, address string, n Notification) error {
	switch channel {
	case "mail":
		if m, ok := n.(Mailable); ok {
			return deliverMail(address, m.ToMail())
		}
	case "slack":
		if s, ok := n.(Slackable); ok {
			return deliverSlack(s.ToSlack())
		}
	case "webhook":
		if w, ok := n.(Webhookable); ok {
			return deliverWebhook(w.ToWebhook())
		}
	default:
		return fmt.Errorf("notification: unknown channel %q", channel)
	}
	return fmt.Errorf("notification: %T does not implement the %s channel", n, channel)
}

func deliverMail(address string, d MailData) error {
	to := d.To
	if to == "" {
		to = address
	}
	if d.Body != "" {
		return mail.To(to).Subject(d.Subject).Body(d.Body).Send()
	}
	return mail.To(to).Subject(d.Subject).Text(d.Text).Send()
}

func deliverSlack(d SlackData) error {
	url := d.WebhookURL
	if url == "" {
		url = defaultSlackWebhook
	}
	if url == "" {
		return fmt.Errorf("notification: slack webhook URL not configured")
	}

	msg := struct {
		Text        string            `json:"text,omitempty"`
		Attachments []SlackAttachment `json:"attachments,omitempty"`
	}{d.Text, d.Attachments}

	resp, err := httpx.Post(url).Body(msg).Timeout(5 * time.Second).Send()
	if err != nil {
		return fmt.Errorf("notification: slack post: %w", err)
	}
	return resp.Throw()
}

func deliverWebhook(d WebhookData) error {
	if d.URL == "" {
		return fmt.Errorf("notification: webhook URL is empty")
	}
	req := httpx.Post(d.URL).Body(d.Payload).Timeout(10 * time.Second)
	for k, v := range d.Headers {
		req.Header(k, v)
	}
	resp, err := req.Send()
	if err != nil {
		return fmt.Errorf("notification: webhook send: %w", err)
	}
	return resp.Throw()
}
