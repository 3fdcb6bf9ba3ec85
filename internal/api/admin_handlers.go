package api

import (
	"net/http"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/middleware"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AdminHandler struct {
	authService service.AuthService
	logService  service.LogService
}

func NewAdminHandler(authService service.AuthService, logService service.LogService) *AdminHandler {
	return &AdminHandler{authService: authService, logService: logService}
}

// @Summary Admin login
// @Description Authenticates an admin and returns an access/refresh token pair
// @Tags Admin
// @Accept json
// @Produce json
// @Param credentials body AdminLoginRequest true "Admin credentials"
// @Success 200 {object} service.TokenPair
// @Failure 400 {object} map[string]string "Invalid JSON"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /admin/login [post]
func (h *AdminHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	admin, pair, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Set(middleware.ContextAdminID, admin.ID.Hex())
	audit(c, h.logService, "AdminLogin", "Admin logged in", map[string]interface{}{
		"username": admin.Username,
	})
	c.JSON(http.StatusOK, pair)
}

// @Summary Refresh admin tokens
// @Description Exchanges a refresh token for a new token pair; the old refresh token is revoked
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} service.TokenPair
// @Failure 401 {object} map[string]string "Invalid or expired refresh token"
// @Router /admin/refresh [post]
func (h *AdminHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// @Summary Admin logout
// @Description Revokes a refresh token. Unknown tokens are accepted.
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} map[string]string "Logged out"
// @Router /admin/logout [post]
func (h *AdminHandler) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Logged out"})
}
