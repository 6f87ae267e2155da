package mail

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Mailer is the outbound mail boundary. Delivery is always fire-and-forget
// from the caller's point of view; a failed send never invalidates the
// operation that triggered it.
type Mailer interface {
	SendReservationLink(ctx context.Context, to, link string, expiresAt time.Time) error
	SendBookingConfirmation(ctx context.Context, to string, slotStart time.Time) error
}

// LogMailer records outbound mail in the log instead of delivering it.
// Wire a real transport here once SMTP credentials exist.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendReservationLink(_ context.Context, to, link string, expiresAt time.Time) error {
	m.logger.Info("reservation link mail",
		zap.String("to", to),
		zap.String("link", link),
		zap.Time("expires_at", expiresAt))
	return nil
}

func (m *LogMailer) SendBookingConfirmation(_ context.Context, to string, slotStart time.Time) error {
	m.logger.Info("booking confirmation mail",
		zap.String("to", to),
		zap.Time("slot_start", slotStart))
	return nil
}
