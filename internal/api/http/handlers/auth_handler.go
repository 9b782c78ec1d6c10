package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hunde51/task-management-app/internal/api/dto"
	"github.com/hunde51/task-management-app/internal/service"
	apperrors "github.com/hunde51/task-management-app/pkg/util/errorutil"
)

// AuthHandler exposes registration, login and profile endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if err := validateRegister(req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.Success("User registered successfully", dto.NewUserResponse(user)))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("missing credentials", map[string]any{
			"username": "required",
			"password": "required",
		})
	}

	user, token, expiresAt, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.Success("Login successful", dto.LoginResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresAt:   expiresAt,
		},
		User: dto.NewUserResponse(user),
	}))
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success("Current user profile", dto.NewUserResponse(user)))
}

func validateRegister(req dto.RegisterRequest) error {
	fields := map[string]any{}
	if strings.TrimSpace(req.Username) == "" {
		fields["username"] = "required"
	}
	if strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@") {
		fields["email"] = "must be a valid email address"
	}
	if strings.TrimSpace(req.FirstName) == "" {
		fields["first_name"] = "required"
	}
	if strings.TrimSpace(req.LastName) == "" {
		fields["last_name"] = "required"
	}
	if len(req.Password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError("invalid registration payload", fields)
	}
	return nil
}
