// Package worker runs the periodic background jobs.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"giftmarket-bot/internal/models"
	"giftmarket-bot/internal/notify"
	"giftmarket-bot/internal/repository"
)

const pendingScanLimit = 50

// Reminder periodically nudges the admin about deposits still waiting for a
// decision.
type Reminder struct {
	deposits repository.Deposits
	notifier notify.Notifier
	interval time.Duration
}

func NewReminder(deposits repository.Deposits, notifier notify.Notifier, interval time.Duration) *Reminder {
	return &Reminder{deposits: deposits, notifier: notifier, interval: interval}
}

// Start runs the reminder loop until ctx is cancelled. It checks once right
// away, then on every tick.
func (r *Reminder) Start(ctx context.Context) {
	logrus.Info("Pending deposit reminder started")
	r.remind(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.remind(ctx)
		}
	}
}

func (r *Reminder) remind(ctx context.Context) {
	pending, err := r.deposits.ListByStatus(ctx, models.DepositPending, pendingScanLimit)
	if err != nil {
		logrus.Errorf("Failed to scan pending deposits: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}
	r.notifier.NotifyAdmin(fmt.Sprintf("⏰ %d deposit(s) awaiting review. Open the admin panel to decide them.", len(pending)))
}
