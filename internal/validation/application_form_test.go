package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validForm() ApplicationForm {
	return ApplicationForm{
		FullName:    "Asha Rao",
		Email:       "asha@x.com",
		Phone:       "9876543210",
		DateOfBirth: "2002-05-01",
		Address:     "12 MG Road, Mumbai 400001",
		Course:      "Bachelor of Science (B.Sc.)",
		Department:  "Physics",
	}
}

func TestValidateApplicationForm_Valid(t *testing.T) {
	assert.Nil(t, ValidateApplicationForm(validForm()))
}

// Each field is violated on its own; only that field's key may appear.
func TestValidateApplicationForm_SingleFieldViolations(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*ApplicationForm)
		field   string
		message string
	}{
		{"short full name", func(f *ApplicationForm) { f.FullName = "A" }, "full_name", "at least 2"},
		{"long full name", func(f *ApplicationForm) { f.FullName = strings.Repeat("a", 101) }, "full_name", "at most 100"},
		{"bad email", func(f *ApplicationForm) { f.Email = "not-an-email" }, "email", "Invalid email"},
		{"short phone", func(f *ApplicationForm) { f.Phone = "12345" }, "phone", "at least 10"},
		{"long phone", func(f *ApplicationForm) { f.Phone = strings.Repeat("1", 16) }, "phone", "at most 15"},
		{"missing dob", func(f *ApplicationForm) { f.DateOfBirth = "" }, "date_of_birth", "required"},
		{"short address", func(f *ApplicationForm) { f.Address = "nowhere" }, "address", "at least 10"},
		{"unknown course", func(f *ApplicationForm) { f.Course = "Astrology" }, "course", "select a course"},
		{"unknown department", func(f *ApplicationForm) { f.Department = "Alchemy" }, "department", "select a department"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mutate(&form)

			errs := ValidateApplicationForm(form)
			assert.Len(t, errs, 1)
			assert.Contains(t, errs[tc.field], tc.message)
		})
	}
}

func TestValidateApplicationForm_ReportsAllViolationsAtOnce(t *testing.T) {
	errs := ValidateApplicationForm(ApplicationForm{})
	for _, field := range []string{"full_name", "email", "phone", "date_of_birth", "address", "course", "department"} {
		assert.Contains(t, errs, field)
	}
}

func TestValidateApplicationForm_EveryListedOptionAccepted(t *testing.T) {
	for _, course := range Courses {
		form := validForm()
		form.Course = course
		assert.Nil(t, ValidateApplicationForm(form), "course %q should be accepted", course)
	}
	for _, dept := range Departments {
		form := validForm()
		form.Department = dept
		assert.Nil(t, ValidateApplicationForm(form), "department %q should be accepted", dept)
	}
}
