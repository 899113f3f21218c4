package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
	"github.com/accord-hospitals/interview-portal/backend/internal/utils"
)

func TestNormalizeContact(t *testing.T) {
	cases := map[string]string{
		"9876543210":        "9876543210",
		"+91 98765-43210":   "9876543210",
		"0091 9876543210":   "00919876543210",
		"098765 43210":      "9876543210",
		" (020) 2612 3456 ": "2026123456",
		"91234":             "91234",
		"n/a":               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, utils.NormalizeContact(in), in)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "hod@accord.in", utils.NormalizeEmail("  HOD@Accord.IN "))
}

func TestCollapseSpaces(t *testing.T) {
	assert.Equal(t, "A. Kumar", utils.CollapseSpaces("  A.   Kumar\t"))
}

func TestGenerateRandomApplication(t *testing.T) {
	app, err := utils.GenerateRandomApplication()
	require.NoError(t, err)

	assert.Len(t, app.Contact, 10)
	assert.Equal(t, domain.StatusApplied, app.Status)

	academic, err := app.AcademicHistory()
	require.NoError(t, err)
	assert.NotEmpty(t, academic)
}
