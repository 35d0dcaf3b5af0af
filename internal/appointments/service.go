package appointments

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/harentsoaR/clinic-api/internal/metrics"
	"github.com/harentsoaR/clinic-api/internal/models"
	"github.com/harentsoaR/clinic-api/internal/schedule"
)

// Notifier is told about new bookings. Implementations must not block.
type Notifier interface {
	AppointmentBooked(ctx context.Context, appt models.Appointment)
}

// PatientRegistrar records the patient behind a first booking.
type PatientRegistrar interface {
	EnsurePatient(ctx context.Context, appt models.Appointment) error
}

type ServiceConfig struct {
	Store      *Store
	Controller *Controller
	Policy     schedule.Policy
	Patients   PatientRegistrar
	Notifier   Notifier
	Metrics    *metrics.ClinicMetrics
	Logger     zerolog.Logger
}

// Service is the single entry point every booking surface goes through.
type Service struct {
	store    *Store
	ctrl     *Controller
	policy   schedule.Policy
	patients PatientRegistrar
	notifier Notifier
	metrics  *metrics.ClinicMetrics
	logger   zerolog.Logger
}

func NewService(cfg ServiceConfig) *Service {
	return &Service{
		store:    cfg.Store,
		ctrl:     cfg.Controller,
		policy:   cfg.Policy,
		patients: cfg.Patients,
		notifier: cfg.Notifier,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
}

// SlotAvailability is one bookable time on a given day.
type SlotAvailability struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

func (s *Service) Book(ctx context.Context, in Input, flow Flow) (models.Appointment, error) {
	var created models.Appointment
	err := s.store.Mutate(ctx, func(current []models.Appointment) ([]models.Appointment, error) {
		rec, err := s.ctrl.Validate(current, in, flow, nil)
		if err != nil {
			return nil, err
		}
		created = rec
		return Upsert(current, rec), nil
	})
	s.metrics.ObserveBooking(flow.String(), outcome(err, "created"))
	if err != nil {
		s.logFailure(err, "book appointment", "")
		return models.Appointment{}, err
	}

	// The booking stands even if the patient roster cannot be updated.
	if s.patients != nil {
		if err := s.patients.EnsurePatient(ctx, created); err != nil {
			s.logger.Warn().Err(err).Str("appointment_id", created.ID).Msg("failed to register patient for booking")
		}
	}
	if s.notifier != nil {
		s.notifier.AppointmentBooked(ctx, created)
	}
	s.logger.Info().Str("appointment_id", created.ID).Str("date", created.Date).Str("time", created.Time).Str("flow", flow.String()).Msg("appointment booked")
	return created, nil
}

// Update fully replaces the editable fields of an appointment.
func (s *Service) Update(ctx context.Context, id string, in Input, flow Flow) (models.Appointment, error) {
	var updated models.Appointment
	err := s.store.Mutate(ctx, func(current []models.Appointment) ([]models.Appointment, error) {
		i := indexOf(current, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		existing := current[i]
		rec, err := s.ctrl.Validate(current, in, flow, &existing)
		if err != nil {
			return nil, err
		}
		updated = rec
		return Upsert(current, rec), nil
	})
	s.metrics.ObserveBooking(flow.String(), outcome(err, "updated"))
	if err != nil {
		s.logFailure(err, "update appointment", id)
		return models.Appointment{}, err
	}
	return updated, nil
}

func (s *Service) ChangeStatus(ctx context.Context, id string, status models.AppointmentStatus) (models.Appointment, error) {
	var changed models.Appointment
	err := s.store.Mutate(ctx, func(current []models.Appointment) ([]models.Appointment, error) {
		next, err := ChangeStatus(current, id, status)
		if err != nil {
			return nil, err
		}
		changed = next[indexOf(next, id)]
		return next, nil
	})
	if err != nil {
		s.logFailure(err, "change appointment status", id)
		return models.Appointment{}, err
	}
	s.metrics.ObserveStatusChange(string(status))
	return changed, nil
}

// Delete is idempotent.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, id); err != nil {
		s.logFailure(err, "delete appointment", id)
		return err
	}
	return nil
}

func (s *Service) Get(id string) (models.Appointment, error) {
	records := s.store.Snapshot()
	if i := indexOf(records, id); i >= 0 {
		return records[i], nil
	}
	return models.Appointment{}, ErrNotFound
}

func (s *Service) List(f Filter) []models.Appointment {
	return Project(s.store.Snapshot(), f)
}

func (s *Service) All() []models.Appointment {
	return s.store.Snapshot()
}

// Slots lists the day's slot grid with each slot's availability.
func (s *Service) Slots(date string) ([]SlotAvailability, error) {
	if !schedule.ValidDate(date) {
		return nil, invalid(ErrInvalidValue, "date")
	}
	ix := NewSlotIndex(s.store.Snapshot())
	slots := s.policy.Slots()
	out := make([]SlotAvailability, 0, len(slots))
	for _, t := range slots {
		out = append(out, SlotAvailability{Time: t, Available: !ix.Conflicts(date, t, "")})
	}
	return out, nil
}

func (s *Service) logFailure(err error, action, id string) {
	if errors.Is(err, ErrPersistence) {
		s.logger.Error().Err(err).Str("appointment_id", id).Msg(action)
		return
	}
	s.logger.Debug().Err(err).Str("appointment_id", id).Msg(action + " rejected")
}

func outcome(err error, success string) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return success
	case errors.Is(err, ErrDuplicateSlot):
		return "duplicate_slot"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &verr):
		return "invalid"
	default:
		return "error"
	}
}
