package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/user-service/pkg/util"
)

func validInput() Input {
	return Input{
		FirstName:       "John",
		LastName:        "Doe",
		Email:           "john@smu.edu.ph",
		Age:             25,
		Gender:          "male",
		Password:        "password123",
		RequirePassword: true,
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, Validate(validInput()))

	in := validInput()
	in.MiddleInitial = "A"
	require.NoError(t, Validate(in))

	in = validInput()
	in.Gender = "rather-not-say"
	in.Role = "admin"
	require.NoError(t, Validate(in))
}

func TestValidate_FirstFailureWins(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Input)
		message string
	}{
		{"missing first name", func(in *Input) { in.FirstName = "" }, MsgMissingFields},
		{"missing last name", func(in *Input) { in.LastName = "" }, MsgMissingFields},
		{"missing email", func(in *Input) { in.Email = "" }, MsgMissingFields},
		{"missing gender", func(in *Input) { in.Gender = "" }, MsgMissingFields},
		// age 0 is falsy: presence trips before the range check
		{"zero age", func(in *Input) { in.Age = 0 }, MsgMissingFields},
		{"zero age with bad name", func(in *Input) { in.Age = 0; in.FirstName = "J0hn" }, MsgMissingFields},
		{"digits in name", func(in *Input) { in.FirstName = "J0hn" }, MsgInvalidName},
		{"one letter name", func(in *Input) { in.LastName = "D" }, MsgInvalidName},
		{"long middle initial", func(in *Input) { in.MiddleInitial = "ABCD" }, MsgInvalidName},
		{"space in middle initial", func(in *Input) { in.MiddleInitial = "A B" }, MsgInvalidName},
		{"wrong domain", func(in *Input) { in.Email = "john@gmail.com" }, MsgInvalidEmail},
		{"email too short", func(in *Input) { in.Email = "a@smu.edu" }, MsgInvalidEmail},
		{"negative age", func(in *Input) { in.Age = -3 }, MsgInvalidAge},
		{"age over cap", func(in *Input) { in.Age = 501 }, MsgInvalidAge},
		{"unknown gender", func(in *Input) { in.Gender = "other" }, MsgInvalidGender},
		{"case sensitive gender", func(in *Input) { in.Gender = "Male" }, MsgInvalidGender},
		{"short password", func(in *Input) { in.Password = "12345" }, MsgPasswordTooShort},
		{"unknown role", func(in *Input) { in.Role = "superadmin" }, MsgInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := Validate(in)
			require.Error(t, err)

			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, 400, domainErr.HTTPStatus)
			assert.Equal(t, tt.message, domainErr.Message)
		})
	}
}

func TestValidate_AgeUpperBound(t *testing.T) {
	in := validInput()
	in.Age = 500
	require.NoError(t, Validate(in))
}

func TestValidatePartial(t *testing.T) {
	str := func(s string) *string { return &s }
	num := func(n int) *int { return &n }

	require.NoError(t, ValidatePartial(PartialInput{}))
	require.NoError(t, ValidatePartial(PartialInput{FirstName: str("Jane"), Age: num(30)}))

	tests := []struct {
		name    string
		in      PartialInput
		message string
	}{
		{"bad name", PartialInput{FirstName: str("Jane1")}, MsgInvalidName},
		{"bad email", PartialInput{Email: str("jane@yahoo.com")}, MsgInvalidEmail},
		{"zero age is out of range", PartialInput{Age: num(0)}, MsgInvalidAge},
		{"bad gender", PartialInput{Gender: str("FEMALE")}, MsgInvalidGender},
		{"short password", PartialInput{Password: str("abc")}, MsgPasswordTooShort},
		{"bad role", PartialInput{Role: str("root")}, MsgInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePartial(tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.message, apperrors.ToDomainError(err).Message)
		})
	}
}
