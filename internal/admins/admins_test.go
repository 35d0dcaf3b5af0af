package admins

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/clinic-api/internal/models"
	"github.com/harentsoaR/clinic-api/internal/storage"
	"github.com/harentsoaR/clinic-api/internal/utils"
)

var loginTime = time.Date(2025, 1, 9, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *utils.TokenManager, *storage.MemoryStore) {
	t.Helper()
	kv := storage.NewMemoryStore()
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	svc := NewService(kv, tokens, nil, zerolog.Nop())
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("uid-%d", n)
	}
	svc.now = func() time.Time { return loginTime }
	require.NoError(t, svc.Load(context.Background()))
	return svc, tokens, kv
}

func TestCanDelete(t *testing.T) {
	roster := []models.Admin{{UID: "1", Role: models.RoleSuperAdmin}}
	assert.False(t, CanDelete(roster, "1"))

	roster = append(roster, models.Admin{UID: "2", Role: models.RoleSuperAdmin})
	assert.True(t, CanDelete(roster, "1"))
	assert.True(t, CanDelete(roster, "2"))
}

func TestCanDeletePlainAdmin(t *testing.T) {
	roster := []models.Admin{
		{UID: "1", Role: models.RoleSuperAdmin},
		{UID: "2", Role: models.RoleAdmin},
	}
	assert.True(t, CanDelete(roster, "2"))
	assert.False(t, CanDelete(roster, "1"))
}

func TestSearch(t *testing.T) {
	roster := []models.Admin{
		{UID: "1", FullName: "Maya Stone", Email: "maya@clinic.test", Role: models.RoleSuperAdmin, PasswordHash: "h"},
		{UID: "2", FullName: "Ravi Kumar", Email: "ravi@clinic.test", Role: models.RoleAdmin},
	}

	assert.Len(t, Search(roster, ""), 2)
	assert.Len(t, Search(roster, "super"), 1)
	assert.Len(t, Search(roster, "RAVI@"), 1)
	assert.Len(t, Search(roster, "admin"), 2)

	got := Search(roster, "maya")
	require.Len(t, got, 1)
	assert.Empty(t, got[0].PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	valid := RegisterInput{FullName: "Maya Stone", Email: "maya@clinic.test", Password: "secret1", Role: models.RoleAdmin}

	cases := []struct {
		name     string
		mutate   func(*RegisterInput)
		expected error
	}{
		{"short name", func(in *RegisterInput) { in.FullName = "Al" }, ErrInvalidName},
		{"digits in name", func(in *RegisterInput) { in.FullName = "Maya 2" }, ErrInvalidName},
		{"bad email", func(in *RegisterInput) { in.Email = "maya@clinic" }, ErrInvalidEmail},
		{"bad role", func(in *RegisterInput) { in.Role = "Owner" }, ErrInvalidRole},
		{"short password", func(in *RegisterInput) { in.Password = "12345" }, ErrWeakPassword},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := valid
			c.mutate(&in)
			_, err := svc.Register(ctx, in)
			assert.ErrorIs(t, err, c.expected)
		})
	}
	assert.Empty(t, svc.List(""))
}

func TestRegisterLowercasesAndRejectsDuplicateEmail(t *testing.T) {
	svc, _, kv := newTestService(t)
	ctx := context.Background()

	admin, err := svc.Register(ctx, RegisterInput{FullName: "Maya Stone", Email: "  Maya@Clinic.TEST ", Password: "secret1", Role: models.RoleSuperAdmin})
	require.NoError(t, err)
	assert.Equal(t, "maya@clinic.test", admin.Email)
	assert.Empty(t, admin.PasswordHash)

	raw, err := kv.Get(ctx, storage.KeyAdmins)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "passwordHash")
	assert.NotContains(t, string(raw), "secret1")

	_, err = svc.Register(ctx, RegisterInput{FullName: "Maya Other", Email: "MAYA@clinic.test", Password: "secret2", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginIssuesTokenAndStampsLastLogin(t *testing.T) {
	svc, tokens, _ := newTestService(t)
	ctx := context.Background()
	registered, err := svc.Register(ctx, RegisterInput{FullName: "Maya Stone", Email: "maya@clinic.test", Password: "secret1", Role: models.RoleSuperAdmin})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "maya@clinic.test", "wrong!!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@clinic.test", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, admin, err := svc.Login(ctx, " MAYA@clinic.test", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.UID, admin.UID)
	assert.True(t, admin.LastLogin.Equal(loginTime))
	assert.Empty(t, admin.PasswordHash)

	claims, err := tokens.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, registered.UID, claims.UserID)
	assert.Equal(t, models.RoleSuperAdmin, claims.Role)
	assert.Equal(t, "maya@clinic.test", claims.Email)
}

func TestUpdateGuardsLastSuperAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	boss, err := svc.Register(ctx, RegisterInput{FullName: "Maya Stone", Email: "maya@clinic.test", Password: "secret1", Role: models.RoleSuperAdmin})
	require.NoError(t, err)
	staff, err := svc.Register(ctx, RegisterInput{FullName: "Ravi Kumar", Email: "ravi@clinic.test", Password: "secret1", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.Update(ctx, boss.UID, UpdateInput{FullName: "Maya Stone", Email: "maya@clinic.test", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrLastSuperAdmin)

	_, err = svc.Update(ctx, staff.UID, UpdateInput{FullName: "Ravi Kumar", Email: "maya@clinic.test", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrEmailTaken)

	promoted, err := svc.Update(ctx, staff.UID, UpdateInput{FullName: "Ravi Kumar", Email: "ravi@clinic.test", Role: models.RoleSuperAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, promoted.Role)

	demoted, err := svc.Update(ctx, boss.UID, UpdateInput{FullName: "Maya Stone", Email: "maya@clinic.test", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, demoted.Role)

	_, err = svc.Update(ctx, "missing", UpdateInput{FullName: "Nobody Here", Email: "x@clinic.test", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteGuardsLastSuperAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	boss, err := svc.Register(ctx, RegisterInput{FullName: "Maya Stone", Email: "maya@clinic.test", Password: "secret1", Role: models.RoleSuperAdmin})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, boss.UID), ErrLastSuperAdmin)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrNotFound)

	second, err := svc.Register(ctx, RegisterInput{FullName: "Ravi Kumar", Email: "ravi@clinic.test", Password: "secret1", Role: models.RoleSuperAdmin})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, boss.UID))
	assert.ErrorIs(t, svc.Delete(ctx, second.UID), ErrLastSuperAdmin)

	_, err = svc.Get(boss.UID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeedOnlyWhenEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Seed(ctx, "Clinic Owner", "owner@clinic.test", "changeme")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Seed(ctx, "Other Owner", "other@clinic.test", "changeme")
	require.NoError(t, err)
	assert.False(t, created)

	all := svc.List("")
	require.Len(t, all, 1)
	assert.Equal(t, models.RoleSuperAdmin, all[0].Role)
}

func TestLoadRestoresRoster(t *testing.T) {
	svc, tokens, kv := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{FullName: "Maya Stone", Email: "maya@clinic.test", Password: "secret1", Role: models.RoleSuperAdmin})
	require.NoError(t, err)

	reloaded := NewService(kv, tokens, nil, zerolog.Nop())
	require.NoError(t, reloaded.Load(ctx))
	_, _, err = reloaded.Login(ctx, "maya@clinic.test", "secret1")
	assert.NoError(t, err)
}
