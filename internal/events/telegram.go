package events

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"
)

// Sender is the part of *tele.Bot the publisher needs.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// TelegramPublisher posts selected events to an operations chat or channel.
type TelegramPublisher struct {
	sender    Sender
	recipient tele.Recipient
	types     map[string]bool
}

// NewTelegramPublisher builds an offline bot: it only sends and never polls for updates.
// channel is either @name or a numeric chat id.
func NewTelegramPublisher(token, channel string, types ...string) (*TelegramPublisher, error) {
	bot, err := tele.NewBot(tele.Settings{Token: token, Offline: true})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return newTelegramPublisher(bot, channel, types...)
}

func newTelegramPublisher(sender Sender, channel string, types ...string) (*TelegramPublisher, error) {
	recipient, err := parseChannel(channel)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		types = []string{BookingCreated, BookingAssigned, PaymentSettled, DecoratorApplied}
	}
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return &TelegramPublisher{sender: sender, recipient: recipient, types: set}, nil
}

func parseChannel(channel string) (tele.Recipient, error) {
	channel = strings.TrimSpace(channel)
	if strings.HasPrefix(channel, "@") && len(channel) > 1 {
		return &tele.Chat{Username: channel[1:]}, nil
	}
	id, err := strconv.ParseInt(channel, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid channel ID format %q: %w", channel, err)
	}
	return &tele.Chat{ID: id}, nil
}

func (p *TelegramPublisher) Publish(ctx context.Context, ev Event) error {
	if !p.types[ev.Type] {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := formatTelegram(ev)
	if err != nil {
		return err
	}
	if _, err := p.sender.Send(p.recipient, msg, &tele.SendOptions{ParseMode: tele.ModeHTML}); err != nil {
		return fmt.Errorf("failed to send %s to telegram: %w", ev.Type, err)
	}
	return nil
}

func formatTelegram(ev Event) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n%s", html.EscapeString(ev.Type), ev.OccurredAt.Format("2006-01-02 15:04 UTC"))
	if ev.Data != nil {
		data, err := json.MarshalIndent(ev.Data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode event %s: %w", ev.Type, err)
		}
		fmt.Fprintf(&b, "\n<pre>%s</pre>", html.EscapeString(string(data)))
	}
	return b.String(), nil
}
