package patients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harentsoaR/clinic-api/internal/appointments"
	"github.com/harentsoaR/clinic-api/internal/metrics"
	"github.com/harentsoaR/clinic-api/internal/models"
	"github.com/harentsoaR/clinic-api/internal/storage"
)

var (
	ErrMissingRequiredField = errors.New("name, mobile and age are required")
	ErrPatientExists        = errors.New("patient already exists with these details")
	ErrNotFound             = errors.New("patient not found")
	ErrPersistence          = errors.New("failed to save patients")
)

type Input struct {
	FullName string `json:"fullName"`
	Age      string `json:"age"`
	Gender   string `json:"gender"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Mobile2  string `json:"mobile2"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

func (in Input) trimmed() Input {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Age = strings.TrimSpace(in.Age)
	in.Gender = strings.TrimSpace(in.Gender)
	in.Email = strings.TrimSpace(in.Email)
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.Mobile2 = strings.TrimSpace(in.Mobile2)
	in.Address = strings.TrimSpace(in.Address)
	in.Notes = strings.TrimSpace(in.Notes)
	return in
}

// Service owns the patient roster. Deleting a patient also removes every
// appointment booked under the patient's mobile.
type Service struct {
	mu      sync.Mutex
	records []models.Patient
	coll    *storage.Collection[models.Patient]
	appts   *appointments.Store
	metrics *metrics.ClinicMetrics
	logger  zerolog.Logger
	now     func() time.Time
	newID   func() string
}

func NewService(kv storage.KV, appts *appointments.Store, m *metrics.ClinicMetrics, logger zerolog.Logger) *Service {
	return &Service{
		records: []models.Patient{},
		coll:    storage.NewCollection[models.Patient](kv, storage.KeyPatients),
		appts:   appts,
		metrics: m,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s *Service) Load(ctx context.Context) error {
	records, err := s.coll.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return nil
}

func (s *Service) All() []models.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Patient(nil), s.records...)
}

// List returns the merged patient view for search.
func (s *Service) List(search string) []PatientView {
	return Merge(s.All(), s.appts.Snapshot(), search)
}

// EnsurePatient adds the patient behind a booking unless one with the same
// name, mobile and age already exists.
func (s *Service) EnsurePatient(ctx context.Context, appt models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if Exists(s.records, appt.FullName, appt.Mobile, appt.Age) {
		return nil
	}
	p := models.Patient{
		ID:        s.newID(),
		FullName:  appt.FullName,
		Age:       appt.Age,
		Gender:    appt.Gender,
		Email:     appt.Email,
		Mobile:    appt.Mobile,
		Mobile2:   appt.Mobile2,
		Address:   appt.Address,
		CreatedAt: s.now().UTC(),
	}
	if err := s.commit(ctx, append(clone(s.records), p)); err != nil {
		return err
	}
	s.logger.Info().Str("patient_id", p.ID).Str("appointment_id", appt.ID).Msg("patient registered from booking")
	return nil
}

func (s *Service) Create(ctx context.Context, in Input) (models.Patient, error) {
	in = in.trimmed()
	if in.FullName == "" || in.Mobile == "" || in.Age == "" {
		return models.Patient{}, ErrMissingRequiredField
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if Exists(s.records, in.FullName, in.Mobile, in.Age) {
		return models.Patient{}, ErrPatientExists
	}
	p := fromInput(in)
	p.ID = s.newID()
	p.CreatedAt = s.now().UTC()
	if err := s.commit(ctx, append(clone(s.records), p)); err != nil {
		return models.Patient{}, err
	}
	return p, nil
}

// Update replaces every editable field; id and createdAt are kept.
func (s *Service) Update(ctx context.Context, id string, in Input) (models.Patient, error) {
	in = in.trimmed()
	if in.FullName == "" || in.Mobile == "" || in.Age == "" {
		return models.Patient{}, ErrMissingRequiredField
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.records, id)
	if i < 0 {
		return models.Patient{}, ErrNotFound
	}
	p := fromInput(in)
	p.ID = s.records[i].ID
	p.CreatedAt = s.records[i].CreatedAt

	next := clone(s.records)
	next[i] = p
	if err := s.commit(ctx, next); err != nil {
		return models.Patient{}, err
	}
	return p, nil
}

// Delete removes the patient and then every appointment under its mobile.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.records, id)
	if i < 0 {
		return ErrNotFound
	}
	victim := s.records[i]
	next := make([]models.Patient, 0, len(s.records)-1)
	next = append(next, s.records[:i]...)
	next = append(next, s.records[i+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	err := s.appts.Mutate(ctx, func(current []models.Appointment) ([]models.Appointment, error) {
		return appointments.RemoveByMobile(current, victim.Mobile), nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("patient_id", id).Msg("patient deleted but appointments were not removed")
		return err
	}
	s.logger.Info().Str("patient_id", id).Msg("patient deleted")
	return nil
}

// commit persists next and then makes it current. Callers hold s.mu.
func (s *Service) commit(ctx context.Context, next []models.Patient) error {
	start := time.Now()
	err := s.coll.Save(ctx, next)
	s.metrics.ObserveSave(storage.KeyPatients, err, time.Since(start).Seconds())
	if err != nil {
		s.logger.Error().Err(err).Str("key", storage.KeyPatients).Msg("failed to save patients")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.records = next
	return nil
}

func fromInput(in Input) models.Patient {
	return models.Patient{
		FullName: in.FullName,
		Age:      in.Age,
		Gender:   in.Gender,
		Email:    in.Email,
		Mobile:   in.Mobile,
		Mobile2:  in.Mobile2,
		Address:  in.Address,
		Notes:    in.Notes,
	}
}

func clone(records []models.Patient) []models.Patient {
	out := make([]models.Patient, len(records))
	copy(out, records)
	return out
}
