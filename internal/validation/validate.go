// Package validation implements the field-level gate run against raw input
// before anything touches the store. Checks run in a fixed order and the
// first failure wins; messages are part of the public contract and must not
// be reworded.
package validation

import (
	"regexp"

	"github.com/spec-kit/user-service/internal/domain"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

const (
	MsgMissingFields    = "Some Fields are Missing"
	MsgInvalidName      = "Names must contain only letters and spaces"
	MsgInvalidEmail     = "Only smu.edu.ph Emails Onlys"
	MsgInvalidAge       = "Age Must Be Between 1 and 500"
	MsgInvalidGender    = "Gender is Invalid"
	MsgPasswordTooShort = "Password must be at least 6 characters long"
	MsgInvalidRole      = "Role is Invalid"
)

const MinPasswordLength = 6

var (
	nameRe          = regexp.MustCompile(`^[A-Za-z ]{2,30}$`)
	middleInitialRe = regexp.MustCompile(`^[A-Za-z]{1,3}$`)
	emailRe         = regexp.MustCompile(`^[\w.-]+@smu\.edu\.ph$`)
)

// Input carries the raw values for a full (register / admin-create) check.
// Age arrives as a plain int: an explicit 0 and an absent field are
// indistinguishable, and both trip the presence check before the range
// check ever runs.
type Input struct {
	FirstName     string
	LastName      string
	MiddleInitial string
	Email         string
	Age           int
	Gender        string
	Role          string
	Password      string

	// RequirePassword is set on the registration and admin-create paths.
	RequirePassword bool
}

// PartialInput carries the fields of an update request; nil means absent.
type PartialInput struct {
	FirstName     *string
	LastName      *string
	MiddleInitial *string
	Email         *string
	Age           *int
	Gender        *string
	Role          *string
	Password      *string
}

// Validate runs the full check chain, short-circuiting on the first failure.
func Validate(in Input) error {
	switch {
	case in.FirstName == "":
		return apperrors.NewValidationError("firstName", MsgMissingFields)
	case in.LastName == "":
		return apperrors.NewValidationError("lastName", MsgMissingFields)
	case in.Email == "":
		return apperrors.NewValidationError("email", MsgMissingFields)
	case in.Age == 0:
		return apperrors.NewValidationError("age", MsgMissingFields)
	case in.Gender == "":
		return apperrors.NewValidationError("gender", MsgMissingFields)
	}

	if !nameRe.MatchString(in.FirstName) {
		return apperrors.NewValidationError("firstName", MsgInvalidName)
	}
	if !nameRe.MatchString(in.LastName) {
		return apperrors.NewValidationError("lastName", MsgInvalidName)
	}
	if in.MiddleInitial != "" && !middleInitialRe.MatchString(in.MiddleInitial) {
		return apperrors.NewValidationError("middleInitial", MsgInvalidName)
	}

	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if err := validateAge(in.Age); err != nil {
		return err
	}
	if !domain.Gender(in.Gender).Valid() {
		return apperrors.NewValidationError("gender", MsgInvalidGender)
	}

	if in.RequirePassword || in.Password != "" {
		if len(in.Password) < MinPasswordLength {
			return apperrors.NewValidationError("password", MsgPasswordTooShort)
		}
	}

	if in.Role != "" && !domain.Role(in.Role).Valid() {
		return apperrors.NewValidationError("role", MsgInvalidRole)
	}

	return nil
}

// ValidatePartial applies the same rules to whichever fields are present.
func ValidatePartial(in PartialInput) error {
	if in.FirstName != nil && !nameRe.MatchString(*in.FirstName) {
		return apperrors.NewValidationError("firstName", MsgInvalidName)
	}
	if in.LastName != nil && !nameRe.MatchString(*in.LastName) {
		return apperrors.NewValidationError("lastName", MsgInvalidName)
	}
	if in.MiddleInitial != nil && *in.MiddleInitial != "" && !middleInitialRe.MatchString(*in.MiddleInitial) {
		return apperrors.NewValidationError("middleInitial", MsgInvalidName)
	}
	if in.Email != nil {
		if err := validateEmail(*in.Email); err != nil {
			return err
		}
	}
	if in.Age != nil {
		if err := validateAge(*in.Age); err != nil {
			return err
		}
	}
	if in.Gender != nil && !domain.Gender(*in.Gender).Valid() {
		return apperrors.NewValidationError("gender", MsgInvalidGender)
	}
	if in.Password != nil && len(*in.Password) < MinPasswordLength {
		return apperrors.NewValidationError("password", MsgPasswordTooShort)
	}
	if in.Role != nil && !domain.Role(*in.Role).Valid() {
		return apperrors.NewValidationError("role", MsgInvalidRole)
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) < 10 || len(email) > 50 || !emailRe.MatchString(email) {
		return apperrors.NewValidationError("email", MsgInvalidEmail)
	}
	return nil
}

func validateAge(age int) error {
	if age < 1 || age > 500 {
		return apperrors.NewValidationError("age", MsgInvalidAge)
	}
	return nil
}
