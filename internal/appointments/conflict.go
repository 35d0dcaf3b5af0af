package appointments

import "github.com/harentsoaR/clinic-api/internal/models"

// HasConflict reports whether any record occupies (date, time). A record whose
// id equals excludeID is ignored; an empty excludeID excludes nothing.
func HasConflict(records []models.Appointment, date, time, excludeID string) bool {
	for _, r := range records {
		if r.Date == date && r.Time == time && (excludeID == "" || r.ID != excludeID) {
			return true
		}
	}
	return false
}

type slotKey struct{ date, time string }

// SlotIndex answers the same question as HasConflict in constant time. Build
// it once per snapshot when checking many slots.
type SlotIndex map[slotKey][]string

func NewSlotIndex(records []models.Appointment) SlotIndex {
	ix := make(SlotIndex, len(records))
	for _, r := range records {
		k := slotKey{r.Date, r.Time}
		ix[k] = append(ix[k], r.ID)
	}
	return ix
}

func (ix SlotIndex) Conflicts(date, time, excludeID string) bool {
	for _, id := range ix[slotKey{date, time}] {
		if excludeID == "" || id != excludeID {
			return true
		}
	}
	return false
}
