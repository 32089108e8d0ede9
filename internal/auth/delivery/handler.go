package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authdomain "taskportal-backend/internal/auth/domain"
	authdto "taskportal-backend/internal/auth/dto"
	"taskportal-backend/internal/auth/usecase"
)

// AuthHandler handles login, logout and user administration requests
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Login authenticates a user by username/password
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authUsecase.Login(&req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout clears the portal session
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authUsecase.Logout()
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// Me returns the authenticated user
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := c.Get(ContextUserKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, user.(*authdomain.User))
}

// AddEmployee registers a new employee account. Manager only.
// POST /api/users
func (h *AuthHandler) AddEmployee(c *gin.Context) {
	var req authdto.AddEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employee, err := h.authUsecase.AddEmployee(ActorFrom(c), &req)
	if err != nil {
		status := http.StatusBadRequest
		if err.Error() == "Only manager can perform this action." {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, employee)
}

// UpdateProfile edits the GitHub link and avatar of a profile
// PUT /api/users/:id/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req authdto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authUsecase.UpdateProfile(ActorFrom(c), c.Param("id"), &req); err != nil {
		status := http.StatusForbidden
		if err.Error() == "user not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

// ToggleTheme flips the portal theme
// POST /api/theme/toggle
func (h *AuthHandler) ToggleTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": h.authUsecase.ToggleTheme()})
}
