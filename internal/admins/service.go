package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harentsoaR/clinic-api/internal/metrics"
	"github.com/harentsoaR/clinic-api/internal/models"
	"github.com/harentsoaR/clinic-api/internal/storage"
	"github.com/harentsoaR/clinic-api/internal/utils"
)

var (
	ErrLastSuperAdmin     = errors.New("cannot remove the last Super Admin")
	ErrEmailTaken         = errors.New("an admin with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("admin not found")
	ErrInvalidName        = errors.New("full name must be 3-30 letters or spaces")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidRole        = errors.New("role must be Admin or Super Admin")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrPersistence        = errors.New("failed to save admins")
)

type RegisterInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Service manages the admin roster and issues session tokens.
type Service struct {
	mu      sync.Mutex
	records []models.Admin
	coll    *storage.Collection[models.Admin]
	tokens  *utils.TokenManager
	metrics *metrics.ClinicMetrics
	logger  zerolog.Logger
	now     func() time.Time
	newID   func() string
}

func NewService(kv storage.KV, tokens *utils.TokenManager, m *metrics.ClinicMetrics, logger zerolog.Logger) *Service {
	return &Service{
		records: []models.Admin{},
		coll:    storage.NewCollection[models.Admin](kv, storage.KeyAdmins),
		tokens:  tokens,
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

// List returns sanitized admins matching term.
func (s *Service) List(term string) []models.Admin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Search(s.records, term)
}

func (s *Service) Get(uid string) (models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.records, uid); i >= 0 {
		return s.records[i].Sanitized(), nil
	}
	return models.Admin{}, ErrNotFound
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (models.Admin, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := strings.TrimSpace(in.Role)
	if err := validateProfile(fullName, email, role); err != nil {
		return models.Admin{}, err
	}
	if len(in.Password) < minPasswordLength {
		return models.Admin{}, ErrWeakPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if emailTaken(s.records, email, "") {
		return models.Admin{}, ErrEmailTaken
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return models.Admin{}, fmt.Errorf("hash password: %w", err)
	}
	admin := models.Admin{
		UID:          s.newID(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.commit(ctx, append(clone(s.records), admin)); err != nil {
		return models.Admin{}, err
	}
	s.logger.Info().Str("uid", admin.UID).Str("role", role).Msg("admin registered")
	return admin.Sanitized(), nil
}

// Login checks credentials, stamps lastLogin and returns a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, models.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()
	i := -1
	for j := range s.records {
		if s.records[j].Email == email {
			i = j
			break
		}
	}
	if i < 0 || !utils.CheckPasswordHash(password, s.records[i].PasswordHash) {
		return "", models.Admin{}, ErrInvalidCredentials
	}

	next := clone(s.records)
	next[i].LastLogin = s.now().UTC()
	admin := next[i]
	token, err := s.tokens.GenerateJWT(admin.UID, admin.Role, admin.Email)
	if err != nil {
		return "", models.Admin{}, fmt.Errorf("generate token: %w", err)
	}
	if err := s.commit(ctx, next); err != nil {
		return "", models.Admin{}, err
	}
	return token, admin.Sanitized(), nil
}

// Update replaces name, email and role. The last Super Admin cannot be demoted.
func (s *Service) Update(ctx context.Context, uid string, in UpdateInput) (models.Admin, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := strings.TrimSpace(in.Role)
	if err := validateProfile(fullName, email, role); err != nil {
		return models.Admin{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.records, uid)
	if i < 0 {
		return models.Admin{}, ErrNotFound
	}
	if emailTaken(s.records, email, uid) {
		return models.Admin{}, ErrEmailTaken
	}
	if s.records[i].Role == models.RoleSuperAdmin && role != models.RoleSuperAdmin && superAdminCount(s.records) == 1 {
		return models.Admin{}, ErrLastSuperAdmin
	}

	next := clone(s.records)
	next[i].FullName = fullName
	next[i].Email = email
	next[i].Role = role
	if err := s.commit(ctx, next); err != nil {
		return models.Admin{}, err
	}
	return next[i].Sanitized(), nil
}

func (s *Service) Delete(ctx context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.records, uid)
	if i < 0 {
		return ErrNotFound
	}
	if !CanDelete(s.records, uid) {
		return ErrLastSuperAdmin
	}
	next := make([]models.Admin, 0, len(s.records)-1)
	next = append(next, s.records[:i]...)
	next = append(next, s.records[i+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.logger.Info().Str("uid", uid).Msg("admin deleted")
	return nil
}

// Seed registers a Super Admin when the roster is empty. It reports whether
// an admin was created.
func (s *Service) Seed(ctx context.Context, fullName, email, password string) (bool, error) {
	s.mu.Lock()
	empty := len(s.records) == 0
	s.mu.Unlock()
	if !empty {
		return false, nil
	}
	_, err := s.Register(ctx, RegisterInput{FullName: fullName, Email: email, Password: password, Role: models.RoleSuperAdmin})
	if err != nil {
		return false, err
	}
	return true, nil
}

// commit persists next and then makes it current. Callers hold s.mu.
func (s *Service) commit(ctx context.Context, next []models.Admin) error {
	start := time.Now()
	err := s.coll.Save(ctx, next)
	s.metrics.ObserveSave(storage.KeyAdmins, err, time.Since(start).Seconds())
	if err != nil {
		s.logger.Error().Err(err).Str("key", storage.KeyAdmins).Msg("failed to save admins")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.records = next
	return nil
}

func clone(records []models.Admin) []models.Admin {
	out := make([]models.Admin, len(records))
	copy(out, records)
	return out
}
