package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/harentsoaR/clinic-api/internal/models"
	"github.com/harentsoaR/clinic-api/internal/schedule"
)

// SMSSender delivers a text message to one phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// EmailSender delivers one email.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

const sendTimeout = 15 * time.Second

// NotificationService confirms bookings to patients over SMS and email.
// Deliveries run in the background so they never delay the API response.
type NotificationService struct {
	sms    SMSSender
	email  EmailSender
	logger zerolog.Logger
	wg     sync.WaitGroup
}

// NewNotificationService accepts nil senders for channels that are not configured.
func NewNotificationService(sms SMSSender, email EmailSender, logger zerolog.Logger) *NotificationService {
	return &NotificationService{sms: sms, email: email, logger: logger}
}

func (s *NotificationService) AppointmentBooked(ctx context.Context, apt models.Appointment) {
	ctx = context.WithoutCancel(ctx)
	body := confirmationText(apt)

	if s.sms != nil && apt.Mobile != "" {
		s.dispatch("sms", apt.ID, func() error {
			ctx, cancel := context.WithTimeout(ctx, sendTimeout)
			defer cancel()
			return s.sms.SendSMS(ctx, apt.Mobile, body)
		})
	} else if apt.Mobile == "" {
		s.logger.Debug().Str("appointment_id", apt.ID).Msg("SMS not sent: patient has no phone number")
	}

	if s.email != nil && apt.Email != "" {
		msg := EmailMessage{
			To:      apt.Email,
			ToName:  apt.FullName,
			Subject: "Your appointment is confirmed",
			Body:    body,
		}
		s.dispatch("email", apt.ID, func() error {
			ctx, cancel := context.WithTimeout(ctx, sendTimeout)
			defer cancel()
			return s.email.Send(ctx, msg)
		})
	}
}

// Wait blocks until in-flight deliveries finish. Used on shutdown.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) dispatch(channel, appointmentID string, send func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := send(); err != nil {
			s.logger.Warn().Err(err).Str("channel", channel).Str("appointment_id", appointmentID).Msg("booking confirmation not delivered")
			return
		}
		s.logger.Info().Str("channel", channel).Str("appointment_id", appointmentID).Msg("booking confirmation sent")
	}()
}

func confirmationText(apt models.Appointment) string {
	when := apt.Date + " at " + apt.Time
	if d, err := time.Parse(schedule.DateLayout+" 15:04", apt.Date+" "+apt.Time); err == nil {
		when = d.Format("Jan 2 at 3:04 PM")
	}
	name := strings.TrimSpace(apt.FullName)
	if name == "" {
		return fmt.Sprintf("Appointment Confirmed: %s.", when)
	}
	return fmt.Sprintf("Appointment Confirmed: %s on %s.", name, when)
}
