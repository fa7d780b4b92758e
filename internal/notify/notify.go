// Package notify delivers outbound messages best-effort. Deliveries run on a
// fixed pool of workers behind a bounded queue; a failure is logged with its
// delivery id and counted, never retried, and never rolls back the mutation
// that queued it.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"giftmarket-bot/internal/metrics"
)

// Sender performs the actual message delivery.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Notifier is the fire-and-forget surface the workflows use.
type Notifier interface {
	NotifyUser(userID int64, text string)
	NotifyAdmin(text string)
	Announce(text string)
}

const sendTimeout = 10 * time.Second

type delivery struct {
	id     string
	kind   string
	chatID int64
	text   string
}

type Service struct {
	sender    Sender
	adminID   int64
	channelID int64
	queue     chan delivery
	wg        sync.WaitGroup
}

// NewService starts the delivery workers. adminID and channelID of zero
// disable the corresponding destinations.
func NewService(sender Sender, adminID, channelID int64, workers, queueSize int) *Service {
	s := &Service{
		sender:    sender,
		adminID:   adminID,
		channelID: channelID,
		queue:     make(chan delivery, queueSize),
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

func (s *Service) worker() {
	defer s.wg.Done()
	for d := range s.queue {
		metrics.NotifyQueueDepth.Set(float64(len(s.queue)))
		s.deliver(d)
	}
}

func (s *Service) deliver(d delivery) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := s.sender.SendText(ctx, d.chatID, d.text); err != nil {
		metrics.NotificationFailures.Inc()
		logrus.WithFields(logrus.Fields{
			"delivery_id": d.id,
			"kind":        d.kind,
			"chat_id":     d.chatID,
		}).Warnf("Failed to deliver notification: %v", err)
		return
	}
	metrics.NotificationsSent.Inc()
}

func (s *Service) enqueue(kind string, chatID int64, text string) {
	d := delivery{id: uuid.NewString(), kind: kind, chatID: chatID, text: text}
	select {
	case s.queue <- d:
		metrics.NotifyQueueDepth.Set(float64(len(s.queue)))
	default:
		metrics.NotificationsDropped.Inc()
		logrus.WithFields(logrus.Fields{
			"delivery_id": d.id,
			"kind":        kind,
			"chat_id":     chatID,
		}).Warn("Dropped notification: queue full")
	}
}

func (s *Service) NotifyUser(userID int64, text string) {
	s.enqueue("user", userID, text)
}

func (s *Service) NotifyAdmin(text string) {
	if s.adminID == 0 {
		return
	}
	s.enqueue("admin", s.adminID, text)
}

func (s *Service) Announce(text string) {
	if s.channelID == 0 {
		return
	}
	s.enqueue("announce", s.channelID, text)
}

// Stop drains the queue and waits for in-flight deliveries to finish.
func (s *Service) Stop() {
	close(s.queue)
	s.wg.Wait()
}
