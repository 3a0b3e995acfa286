package dto

import (
	"time"

	"github.com/spec-kit/user-service/internal/domain"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    interface{}            `json:"data,omitempty"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
}

// RegisterRequest payload for POST /users/register and POST /users.
type RegisterRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	MiddleInitial string `json:"middleInitial"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	Role          string `json:"role"`
}

// LoginRequest payload for POST /users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateRequest payload for PUT /users/:id. Nil means the field was absent.
type UpdateRequest struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	MiddleInitial *string `json:"middleInitial"`
	Email         *string `json:"email"`
	Password      *string `json:"password"`
	Age           *int    `json:"age"`
	Gender        *string `json:"gender"`
	Role          *string `json:"role"`
}

// AccountResponse is the public view of an account. There is deliberately
// no credential field here.
type AccountResponse struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	MiddleInitial string    `json:"middleInitial,omitempty"`
	Email         string    `json:"email"`
	Age           int       `json:"age"`
	Gender        string    `json:"gender"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AuthData bundles the account and its bearer token for register/login.
type AuthData struct {
	User      AccountResponse `json:"user"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// NewAccountResponse maps the domain model to its public view.
func NewAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:            account.ID,
		FirstName:     account.FirstName,
		LastName:      account.LastName,
		MiddleInitial: account.MiddleInitial,
		Email:         account.Email,
		Age:           account.Age,
		Gender:        string(account.Gender),
		Role:          string(account.Role),
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
	}
}

// NewAccountResponses maps a list of accounts.
func NewAccountResponses(accounts []*domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, NewAccountResponse(account))
	}
	return out
}
