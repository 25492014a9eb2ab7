package stubserver

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/hiredesk-session/internal/authclient"
)

// Handler exposes the authentication service contract: signup and signin
// answer with the {success, description, token?} envelope regardless of
// outcome, logout answers with opaque text.
type Handler struct {
	accounts   AccountRegistry
	issuer     *Issuer
	bcryptCost int
	logger     *zap.Logger
}

// NewHandler constructs the handler.
func NewHandler(accounts AccountRegistry, issuer *Issuer, bcryptCost int, logger *zap.Logger) *Handler {
	return &Handler{accounts: accounts, issuer: issuer, bcryptCost: bcryptCost, logger: logger}
}

// SignUp handles POST /api/auth/signup. Signup never returns a usable
// token; clients follow up with signin.
func (h *Handler) SignUp(c *fiber.Ctx) error {
	var req authclient.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.FullName == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		return refuse(c, "fio, username, email and password are required")
	}
	if !req.Role.Valid() {
		return refuse(c, "role must be CANDIDATE, HR or ADMIN")
	}

	hash, err := HashPassword(req.Password, h.bcryptCost)
	if err != nil {
		return err
	}

	account := &Account{
		FullName:     req.FullName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CompanyName:  req.CompanyName,
		Role:         req.Role,
	}
	if err := h.accounts.Create(c.Context(), account); err != nil {
		if errors.Is(err, ErrAccountExists) {
			return refuse(c, "username or email already registered")
		}
		return err
	}

	h.logger.Info("stub account created",
		zap.String("username", account.Username),
		zap.String("role", string(account.Role)))

	return c.JSON(authclient.Envelope{Success: true, Description: "account created"})
}

// SignIn handles POST /api/auth/signin.
func (h *Handler) SignIn(c *fiber.Ctx) error {
	var creds authclient.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	account, err := h.accounts.GetByUsername(c.Context(), creds.Username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return refuse(c, "invalid username or password")
		}
		return err
	}
	if err := ComparePassword(account.PasswordHash, creds.Password); err != nil {
		return refuse(c, "invalid username or password")
	}

	signed, _, err := h.issuer.Issue(account)
	if err != nil {
		return err
	}

	return c.JSON(authclient.Envelope{Success: true, Description: "signed in", Token: signed})
}

// Logout handles POST /api/auth/logout. The stub keeps no server-side
// session, so the acknowledgment is all there is.
func (h *Handler) Logout(c *fiber.Ctx) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return c.SendString("logged out")
}

// refuse answers a well-formed request the service declines; refusals
// ride the envelope, not the HTTP status.
func refuse(c *fiber.Ctx, description string) error {
	return c.JSON(authclient.Envelope{Success: false, Description: description})
}
