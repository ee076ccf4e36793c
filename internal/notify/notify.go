package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"LotMonitor/internal/models"
	"LotMonitor/pkg/config"
	"LotMonitor/utils"
)

// Message is one outbound WhatsApp message.
type Message struct {
	Body     string
	To       string
	MediaURL string
}

// Sender delivers a single message. Implementations must treat each call
// independently; the notifier handles pacing and failure accounting.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Delivery records the outcome of one (lot, recipient) send attempt.
type Delivery struct {
	LotID         string
	Recipient     string
	MediaAttached bool
	Err           error
}

// Report aggregates every attempted delivery of one batch.
type Report struct {
	Deliveries []Delivery
}

// Sent returns the number of successful deliveries.
func (r *Report) Sent() int {
	n := 0
	for _, d := range r.Deliveries {
		if d.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of failed deliveries.
func (r *Report) Failed() int {
	return len(r.Deliveries) - r.Sent()
}

// Notifier fans a batch of lots out to every recipient, one message per
// (lot, recipient) pair, in discovery then recipient order.
type Notifier struct {
	Sender           Sender
	Recipients       []string
	PrimaryRecipient string
	SendDelay        time.Duration
	MaxMessageLen    int
}

// New creates a notifier from the delivery configuration.
func New(sender Sender, cfg config.TwilioConfig) *Notifier {
	return &Notifier{
		Sender:           sender,
		Recipients:       cfg.Recipients,
		PrimaryRecipient: cfg.PrimaryRecipient,
		SendDelay:        cfg.SendDelay(),
		MaxMessageLen:    cfg.MaxMessageLen,
	}
}

// Deliver sends one message per lot to every recipient. A failure for one
// pair is logged and recorded but never aborts the rest of the batch: the
// goal is maximum successful delivery, not all-or-nothing.
//
// The first lot's photo is attached exactly once: first lot, primary
// recipient only, and only when a photo exists.
func (n *Notifier) Deliver(ctx context.Context, lots []*models.LotDetail) *Report {
	report := &Report{}
	if len(lots) == 0 {
		return report
	}

	for i, lot := range lots {
		body := n.FormatMessage(i+1, lot)
		for _, recipient := range n.Recipients {
			withPhoto := i == 0 && recipient == n.PrimaryRecipient && lot.HasPhoto()

			msg := Message{Body: body, To: recipient}
			if withPhoto {
				msg.MediaURL = lot.PhotoURL
			}

			err := n.Sender.Send(ctx, msg)
			if err != nil {
				log.Printf("Failed to send lot #%d to %s: %v", i+1, recipient, err)
			} else {
				log.Printf("Sent lot #%d to %s", i+1, recipient)
			}
			report.Deliveries = append(report.Deliveries, Delivery{
				LotID:         lot.LotID,
				Recipient:     recipient,
				MediaAttached: withPhoto,
				Err:           err,
			})

			// Pace sends to respect the channel's rate limits.
			if n.SendDelay > 0 {
				select {
				case <-time.After(n.SendDelay):
				case <-ctx.Done():
					return report
				}
			}
		}
	}

	log.Printf("Delivered %d/%d messages", report.Sent(), len(report.Deliveries))
	return report
}

// FormatMessage renders the per-lot message body. The damage section is only
// included for a real summary, never for the no-image or error markers.
func (n *Notifier) FormatMessage(index int, lot *models.LotDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*LOT #%d*: %s | %skm | %s/%s/%s | %s | ¥%s",
		index, lot.Model, lot.Mileage,
		lot.ScoreOverall, lot.Interior, lot.Exterior,
		lot.Fuel, lot.StartPrice)
	b.WriteString("\n" + lot.URL + "\n")

	if lot.HasDamageSummary() {
		fmt.Fprintf(&b, "   *DAMAGE:*\n%s\n", strings.TrimSpace(lot.ReportSummary))
	}

	b.WriteString("\nGood Luck!")
	return utils.Truncate(b.String(), n.MaxMessageLen)
}
