package Controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"Checkpoint/Models"
	"Checkpoint/SheetApi"
	"Checkpoint/middleware"
)

// AuthController handles login, logout and password changes. Credentials are
// checked against the remote sheet when one is configured, with the local
// user table as fallback so the app stays usable in local-only mode.
type AuthController struct {
	DB     *gorm.DB
	Client *SheetApi.Client
}

func NewAuthController(db *gorm.DB, client *SheetApi.Client) *AuthController {
	return &AuthController{DB: db, Client: client}
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (a *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}

	name, role := req.Name, ""

	if a.Client.Configured() {
		remote, err := a.Client.Authenticate(c.UserContext(), req.Name, req.Password)
		switch {
		case err == nil:
			name, role = remote.Name, remote.Role
		case errors.Is(err, SheetApi.ErrAuthFailed):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		default:
			// Endpoint unreachable; fall through to the local table.
			log.Printf("Remote authenticate unavailable: %v", err)
		}
	}

	if role == "" {
		var user Models.User
		if err := a.DB.Where("name = ?", req.Name).First(&user).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		role = user.Role
	}

	token, err := middleware.GenerateToken(name, role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    fiber.Map{"name": name, "role": role},
	})
}

func (a *AuthController) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (a *AuthController) User(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(fiber.Map{"name": user.Name, "role": user.Role})
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdatePassword changes the local hash when the account exists locally and
// always forwards an updatePassword action to the sheet. The forward is
// fire-and-forget, so the response only confirms the request was sent.
func (a *AuthController) UpdatePassword(c *fiber.Ctx) error {
	var req updatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.NewPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "New password is required"})
	}

	current := middleware.CurrentUser(c)

	var user Models.User
	err := a.DB.Where("name = ?", current.Name).First(&user).Error
	if err == nil {
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Current password is incorrect"})
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
		}
		if err := a.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update password"})
		}
	}

	if a.Client.Configured() {
		payload := fiber.Map{
			"action":   "updatePassword",
			"name":     current.Name,
			"password": req.NewPassword,
		}
		if err := a.Client.Dispatch(c.UserContext(), payload); err != nil {
			log.Printf("Failed to forward password update for %s: %v", current.Name, err)
		}
	}

	return c.JSON(fiber.Map{"message": "Password updated"})
}

// Users returns the known user names, remote first, local table as fallback.
func (a *AuthController) Users(c *fiber.Ctx) error {
	if a.Client.Configured() {
		users, err := a.Client.FetchUserList(c.UserContext())
		if err == nil {
			return c.JSON(fiber.Map{"users": users})
		}
		log.Printf("Remote user list unavailable: %v", err)
	}

	var locals []Models.User
	if err := a.DB.Order("name asc").Find(&locals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list users"})
	}
	names := make([]string, 0, len(locals))
	for _, u := range locals {
		names = append(names, u.Name)
	}
	return c.JSON(fiber.Map{"users": names})
}
