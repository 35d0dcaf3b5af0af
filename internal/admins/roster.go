package admins

import (
	"regexp"
	"strings"

	"github.com/harentsoaR/clinic-api/internal/models"
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z ]{3,30}$`)
	emailPattern = regexp.MustCompile(`^[\w-]+(\.[\w-]+)*@([\w-]+\.)+[a-zA-Z]{2,7}$`)
)

const minPasswordLength = 6

// CanDelete is false only when uid is the sole remaining Super Admin.
func CanDelete(roster []models.Admin, uid string) bool {
	i := indexOf(roster, uid)
	if i < 0 {
		return true
	}
	return roster[i].Role != models.RoleSuperAdmin || superAdminCount(roster) > 1
}

func superAdminCount(roster []models.Admin) int {
	n := 0
	for _, a := range roster {
		if a.Role == models.RoleSuperAdmin {
			n++
		}
	}
	return n
}

// Search matches name, email or role case-insensitively.
func Search(roster []models.Admin, term string) []models.Admin {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]models.Admin, 0, len(roster))
	for _, a := range roster {
		if term == "" ||
			strings.Contains(strings.ToLower(a.FullName), term) ||
			strings.Contains(strings.ToLower(a.Email), term) ||
			strings.Contains(strings.ToLower(a.Role), term) {
			out = append(out, a.Sanitized())
		}
	}
	return out
}

func validRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleSuperAdmin
}

func validateProfile(fullName, email, role string) error {
	if !namePattern.MatchString(fullName) {
		return ErrInvalidName
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if !validRole(role) {
		return ErrInvalidRole
	}
	return nil
}

func emailTaken(roster []models.Admin, email, exceptUID string) bool {
	for _, a := range roster {
		if a.UID != exceptUID && strings.EqualFold(a.Email, email) {
			return true
		}
	}
	return false
}

func indexOf(roster []models.Admin, uid string) int {
	for i := range roster {
		if roster[i].UID == uid {
			return i
		}
	}
	return -1
}
