package appointments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/clinic-api/internal/models"
)

func TestValidateCreateAssignsIDAndCreatedAt(t *testing.T) {
	c := newTestController()

	rec, err := c.Validate(nil, validInput(), FlowStandard, nil)
	require.NoError(t, err)
	assert.Equal(t, "id-1", rec.ID)
	assert.True(t, rec.CreatedAt.Equal(fixedNow))
	assert.Equal(t, "2025-01-10", rec.Date)
	assert.Equal(t, "14:00", rec.Time)
	assert.Equal(t, models.StatusActive, rec.Status)
}

func TestValidateMissingRequiredFields(t *testing.T) {
	c := newTestController()
	in := validInput()
	in.FullName = "  "
	in.Time = ""

	_, err := c.Validate(nil, in, FlowStandard, nil)
	require.ErrorIs(t, err, ErrMissingRequiredField)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"fullName", "time"}, verr.Fields)
}

func TestValidateFlowSpecificRequiredFields(t *testing.T) {
	c := newTestController()
	in := validInput()
	in.Age = ""
	in.PatientStatus = ""

	_, err := c.Validate(nil, in, FlowStandard, nil)
	assert.NoError(t, err)

	_, err = c.Validate(nil, in, FlowCalendar, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrMissingRequiredField)
	assert.Equal(t, []string{"age", "patientStatus"}, verr.Fields)

	_, err = c.Validate(nil, in, FlowQuickBook, nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"age"}, verr.Fields)
}

func TestValidateRejectsYesterday(t *testing.T) {
	c := newTestController()
	in := validInput()
	in.Date = "2025-01-08"

	for _, flow := range []Flow{FlowStandard, FlowCalendar, FlowQuickBook} {
		_, err := c.Validate(nil, in, flow, nil)
		assert.ErrorIs(t, err, ErrPastDate, flow.String())
	}
}

func TestValidateAcceptsToday(t *testing.T) {
	c := newTestController()
	in := validInput()
	in.Date = "2025-01-09"
	in.Time = "13:30"

	_, err := c.Validate(nil, in, FlowStandard, nil)
	assert.NoError(t, err)
}

func TestValidateQuickBookMobile(t *testing.T) {
	c := newTestController()

	for _, mobile := range []string{"123456789", "12345678901", "12345abcde", "+123456789"} {
		in := validInput()
		in.Mobile = mobile
		_, err := c.Validate(nil, in, FlowQuickBook, nil)
		assert.ErrorIs(t, err, ErrInvalidMobile, mobile)
	}

	in := validInput()
	in.Mobile = "   "
	in.FullName = ""
	_, err := c.Validate(nil, in, FlowQuickBook, nil)
	assert.ErrorIs(t, err, ErrInvalidMobile, "mobile is checked before required fields")

	in = validInput()
	in.Mobile = "1234567890"
	rec, err := c.Validate(nil, in, FlowQuickBook, nil)
	require.NoError(t, err)
	assert.Equal(t, "1234567890", rec.Mobile)

	in.Mobile = "123 456 7890"
	rec, err = c.Validate(nil, in, FlowQuickBook, nil)
	require.NoError(t, err)
	assert.Equal(t, "1234567890", rec.Mobile)
}

func TestValidateStandardFlowDoesNotCheckMobileShape(t *testing.T) {
	c := newTestController()
	in := validInput()
	in.Mobile = "12345"

	_, err := c.Validate(nil, in, FlowStandard, nil)
	assert.NoError(t, err)
}

func TestValidateRejectsDuplicateSlot(t *testing.T) {
	c := newTestController()
	records := []models.Appointment{appt("a", "2025-01-10", "14:00", models.StatusActive)}

	_, err := c.Validate(records, validInput(), FlowStandard, nil)
	assert.ErrorIs(t, err, ErrDuplicateSlot)
}

func TestValidateEditExcludesItselfAndKeepsIdentity(t *testing.T) {
	c := newTestController()
	existing := appt("a", "2025-01-10", "14:00", models.StatusActive)
	existing.CreatedAt = fixedNow.AddDate(0, 0, -3)
	records := []models.Appointment{existing}

	in := validInput()
	in.Notes = "moved notes"
	rec, err := c.Validate(records, in, FlowStandard, &existing)
	require.NoError(t, err)
	assert.Equal(t, "a", rec.ID)
	assert.True(t, rec.CreatedAt.Equal(existing.CreatedAt))
	assert.Equal(t, "moved notes", rec.Notes)
}

func TestValidateNormalizesTime(t *testing.T) {
	c := newTestController()
	in := validInput()
	in.Time = "2:30 PM"

	rec, err := c.Validate(nil, in, FlowStandard, nil)
	require.NoError(t, err)
	assert.Equal(t, "14:30", rec.Time)

	records := []models.Appointment{rec}
	in.Time = "14:30"
	_, err = c.Validate(records, in, FlowStandard, nil)
	assert.ErrorIs(t, err, ErrDuplicateSlot)
}

func TestValidateRejectsMalformedValues(t *testing.T) {
	c := newTestController()
	cases := map[string]func(*Input){
		"status":        func(in *Input) { in.Status = "Pending" },
		"patientStatus": func(in *Input) { in.PatientStatus = "Other" },
		"date":          func(in *Input) { in.Date = "2025-13-40" },
		"time":          func(in *Input) { in.Time = "noon" },
	}
	for field, mutate := range cases {
		in := validInput()
		mutate(&in)
		_, err := c.Validate(nil, in, FlowStandard, nil)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, field)
		assert.ErrorIs(t, err, ErrInvalidValue, field)
		assert.Equal(t, []string{field}, verr.Fields)
	}
}

func TestChangeStatus(t *testing.T) {
	records := []models.Appointment{
		appt("1", "2025-01-10", "14:00", models.StatusActive),
		appt("2", "2025-01-10", "14:30", models.StatusActive),
	}

	next, err := ChangeStatus(records, "2", models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, next[1].Status)
	assert.Equal(t, models.StatusActive, records[1].Status, "input must not be mutated")

	next, err = ChangeStatus(next, "2", models.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, next[1].Status)

	_, err = ChangeStatus(records, "missing", models.StatusCancelled)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAppointmentIsIdempotent(t *testing.T) {
	records := []models.Appointment{appt("1", "2025-01-10", "14:00", models.StatusActive)}

	next := DeleteAppointment(records, "1")
	assert.Empty(t, next)
	assert.Empty(t, DeleteAppointment(next, "1"))
	assert.Len(t, records, 1)
}

func TestRemoveByMobile(t *testing.T) {
	records := []models.Appointment{
		{ID: "1", Mobile: "111"},
		{ID: "2", Mobile: "222"},
		{ID: "3", Mobile: "111"},
	}
	next := RemoveByMobile(records, "111")
	require.Len(t, next, 1)
	assert.Equal(t, "2", next[0].ID)
}

func TestParseFlow(t *testing.T) {
	cases := map[string]Flow{"": FlowStandard, "standard": FlowStandard, "Calendar": FlowCalendar, "quick": FlowQuickBook}
	for in, expected := range cases {
		got, err := ParseFlow(in)
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}
	_, err := ParseFlow("bogus")
	assert.Error(t, err)
}
