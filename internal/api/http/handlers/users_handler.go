package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/api/dto"
	"github.com/spec-kit/user-service/internal/auth"
	"github.com/spec-kit/user-service/internal/service"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// UsersHandler exposes registration, login, profile, and admin CRUD.
type UsersHandler struct {
	accounts *service.AccountService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accounts *service.AccountService) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

// Register handles POST /users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Invalid request body")
	}

	account, token, exp, err := h.accounts.Register(c.UserContext(), registerInput(req))
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.Envelope{
		Success: true,
		Message: "User registered successfully",
		Data: dto.AuthData{
			User:      dto.NewAccountResponse(account),
			Token:     token,
			ExpiresAt: exp,
		},
	})
}

// Login handles POST /users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewUnauthorized(service.MsgInvalidCredentials)
	}

	account, token, exp, err := h.accounts.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.Envelope{
		Success: true,
		Message: "Login successful",
		Data: dto.AuthData{
			User:      dto.NewAccountResponse(account),
			Token:     token,
			ExpiresAt: exp,
		},
	})
}

// Profile handles GET /users/profile for any authenticated caller.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	claims := mustClaims(c)

	account, err := h.accounts.GetByID(c.UserContext(), claims.AccountID())
	if err != nil {
		return err
	}

	return c.JSON(dto.Envelope{
		Success: true,
		Data:    fiber.Map{"user": dto.NewAccountResponse(account)},
	})
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	accounts, err := h.accounts.List(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(dto.Envelope{
		Success: true,
		Data:    fiber.Map{"users": dto.NewAccountResponses(accounts)},
	})
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	account, err := h.accounts.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(dto.Envelope{
		Success: true,
		Data:    fiber.Map{"user": dto.NewAccountResponse(account)},
	})
}

// Create handles POST /users (admin create).
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	claims := mustClaims(c)

	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Invalid request body")
	}

	account, err := h.accounts.AdminCreate(c.UserContext(), claims.AccountID(), registerInput(req))
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.Envelope{
		Success: true,
		Message: "User created successfully",
		Data:    fiber.Map{"user": dto.NewAccountResponse(account)},
	})
}

// Update handles PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	claims := mustClaims(c)

	var req dto.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Invalid request body")
	}

	account, err := h.accounts.Update(c.UserContext(), claims.AccountID(), c.Params("id"), service.UpdateInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		MiddleInitial: req.MiddleInitial,
		Email:         req.Email,
		Password:      req.Password,
		Age:           req.Age,
		Gender:        req.Gender,
		Role:          req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.Envelope{
		Success: true,
		Message: "User updated successfully",
		Data:    fiber.Map{"user": dto.NewAccountResponse(account)},
	})
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	claims := mustClaims(c)

	if err := h.accounts.Delete(c.UserContext(), claims.AccountID(), c.Params("id")); err != nil {
		return err
	}

	return c.JSON(dto.Envelope{
		Success: true,
		Message: "User deleted successfully",
	})
}

// DeleteAll handles DELETE /users/deleteAllUsers.
func (h *UsersHandler) DeleteAll(c *fiber.Ctx) error {
	claims := mustClaims(c)

	count, err := h.accounts.DeleteAll(c.UserContext(), claims.AccountID())
	if err != nil {
		return err
	}

	return c.JSON(dto.Envelope{
		Success: true,
		Message: fmt.Sprintf("%d users deleted", count),
	})
}

func registerInput(req dto.RegisterRequest) service.RegisterInput {
	return service.RegisterInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		MiddleInitial: req.MiddleInitial,
		Email:         req.Email,
		Password:      req.Password,
		Age:           req.Age,
		Gender:        req.Gender,
		Role:          req.Role,
	}
}

// mustClaims fetches the verified claims; the router guarantees the auth
// middleware ran first on every route that calls this.
func mustClaims(c *fiber.Ctx) *auth.Claims {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		panic("handlers: claims missing on authenticated route " + c.Path())
	}
	return claims
}
