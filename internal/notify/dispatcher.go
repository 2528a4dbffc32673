// Package notify delivers templated status messages to a job's originator.
// Delivery is best effort: transport errors are logged and swallowed, never
// propagated to the state transition that triggered them.
package notify

import (
	"context"
	"fmt"

	"golang.org/x/text/language"

	"dispatch/internal/domain"
	"dispatch/internal/infra"
)

// Sender is the outbound transport, satisfied by the telegram client.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string) error
}

var supported = []language.Tag{
	language.English, // first entry is the fallback
	language.Chinese,
}

var localeKeys = []string{"en", "zh"}

// Dispatcher formats and sends originator-facing messages in the locale
// resolved at job creation.
type Dispatcher struct {
	sender  Sender
	logger  *infra.Logger
	matcher language.Matcher
}

// NewDispatcher wires a dispatcher to its transport.
func NewDispatcher(sender Sender, logger *infra.Logger) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		matcher: language.NewMatcher(supported),
	}
}

// Welcome replies to /start.
func (d *Dispatcher) Welcome(ctx context.Context, chatID int64, locale string) {
	d.send(ctx, chatID, locale, msgWelcome)
}

// Help replies to /help.
func (d *Dispatcher) Help(ctx context.Context, chatID int64, locale string) {
	d.send(ctx, chatID, locale, msgHelp)
}

// EmptyPrompt tells the originator their command lacked a description.
func (d *Dispatcher) EmptyPrompt(ctx context.Context, chatID int64, locale string) {
	d.send(ctx, chatID, locale, msgEmptyPrompt)
}

// JobQueued acknowledges a job that entered the queue directly.
func (d *Dispatcher) JobQueued(ctx context.Context, job domain.Job) {
	d.send(ctx, job.ChatID, job.Locale, msgQueued, job.ID)
}

// PaymentRequired sends payment instructions, with the QR image attached when
// one is available.
func (d *Dispatcher) PaymentRequired(ctx context.Context, job domain.Job, amount, currency string, qr []byte) {
	text := d.format(job.Locale, msgPaymentRequired, job.ID, amount, currency)
	var err error
	if len(qr) > 0 {
		err = d.sender.SendPhoto(ctx, job.ChatID, qr, text)
	} else {
		err = d.sender.SendMessage(ctx, job.ChatID, text)
	}
	d.observe(job.ChatID, err)
}

// PaymentReceived confirms the payment and the queue entry.
func (d *Dispatcher) PaymentReceived(ctx context.Context, job domain.Job) {
	d.send(ctx, job.ChatID, job.Locale, msgPaymentReceived, job.ID)
}

// JobCompleted delivers the terminal success message, including the download
// link when the worker supplied one.
func (d *Dispatcher) JobCompleted(ctx context.Context, job domain.Job, resultURL string) {
	if resultURL != "" {
		d.send(ctx, job.ChatID, job.Locale, msgCompleted, job.ID, resultURL)
		return
	}
	d.send(ctx, job.ChatID, job.Locale, msgCompletedNoLink, job.ID)
}

// JobFailed delivers the terminal failure message.
func (d *Dispatcher) JobFailed(ctx context.Context, job domain.Job) {
	d.send(ctx, job.ChatID, job.Locale, msgFailed, job.ID)
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, locale, key string, args ...any) {
	d.observe(chatID, d.sender.SendMessage(ctx, chatID, d.format(locale, key, args...)))
}

func (d *Dispatcher) observe(chatID int64, err error) {
	if err == nil {
		return
	}
	// Best effort only: the transition already committed and is not rolled
	// back or retried.
	if d.logger != nil {
		d.logger.Error().Err(err).Int64("chat_id", chatID).Msg("notification delivery failed")
	}
}

func (d *Dispatcher) format(locale, key string, args ...any) string {
	_, idx := language.MatchStrings(d.matcher, locale)
	tmpl := templates[localeKeys[idx]][key]
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
