// Package validation holds the declarative schema for admission
// application submissions. Validation is synchronous and never touches
// the network; a failed validation reports every violated field at once.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Courses is the fixed set of courses offered on the application form.
var Courses = []string{
	"Bachelor of Science (B.Sc.)",
	"Bachelor of Arts (B.A.)",
	"Bachelor of Commerce (B.Com.)",
	"Bachelor of Technology (B.Tech.)",
	"Master of Science (M.Sc.)",
	"Master of Arts (M.A.)",
	"Master of Commerce (M.Com.)",
	"Master of Technology (M.Tech.)",
}

// Departments is the fixed set of departments offered on the application form.
var Departments = []string{
	"Computer Science",
	"Electronics",
	"Mechanical Engineering",
	"Civil Engineering",
	"English Literature",
	"History",
	"Economics",
	"Mathematics",
	"Physics",
	"Chemistry",
	"Business Administration",
}

const (
	courseTag     = "course"
	departmentTag = "department"
)

// ApplicationForm carries the submission fields before they become a
// persisted application.
type ApplicationForm struct {
	FullName    string `json:"full_name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Phone       string `json:"phone" validate:"required,min=10,max=15"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
	Address     string `json:"address" validate:"required,min=10,max=500"`
	Course      string `json:"course" validate:"required,course"`
	Department  string `json:"department" validate:"required,department"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(courseTag, oneOfList(Courses))
	_ = validate.RegisterValidation(departmentTag, oneOfList(Departments))
}

func oneOfList(options []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, opt := range options {
			if value == opt {
				return true
			}
		}
		return false
	}
}

// ValidateApplicationForm checks every rule of the submission schema and
// returns a message per violated field, keyed by the JSON field name.
// A nil map means the form is valid.
func ValidateApplicationForm(form ApplicationForm) map[string]string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"form": err.Error()}
	}

	fieldErrs := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fieldErrs[fe.Field()] = messageFor(fe)
	}
	return fieldErrs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Field() {
	case "full_name":
		if fe.Tag() == "max" {
			return "Full name must be at most 100 characters"
		}
		return "Full name must be at least 2 characters"
	case "email":
		return "Invalid email address"
	case "phone":
		if fe.Tag() == "max" {
			return "Phone number must be at most 15 digits"
		}
		return "Phone number must be at least 10 digits"
	case "date_of_birth":
		return "Date of birth is required"
	case "address":
		if fe.Tag() == "max" {
			return "Address must be at most 500 characters"
		}
		return "Address must be at least 10 characters"
	case "course":
		return "Please select a course"
	case "department":
		return "Please select a department"
	default:
		return "Invalid value"
	}
}
