package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"campus-connect-backend/internal/utilities"
)

// LogoutController revokes the caller's access token on sign-out.
type LogoutController struct {
	BlacklistStore JwtBlacklistStore
}

// NewLogoutController creates a new instance of LogoutController with the provided blacklist store.
func NewLogoutController(store JwtBlacklistStore) *LogoutController {
	return &LogoutController{BlacklistStore: store}
}

// LogoutHandler blacklists the presented access token until it expires,
// so it can no longer be used even within its lifetime.
// @Summary Sign out
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utilities.MessageResponse "Token revoked"
// @Failure 401 {object} utilities.ErrorResponse "Missing or malformed token"
// @Failure 500 {object} utilities.ErrorResponse "Failed to revoke the token"
// @Router /auth/logout [post]
func (lc *LogoutController) LogoutHandler(c *gin.Context) {
	tokenString, err := utilities.ExtractBearerToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	claims, err := extractClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	if err := lc.BlacklistStore.AddToBlacklist(tokenString, claims.ExpiresAt.Time); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to log out",
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{
		Message: "Successfully logged out",
	})
}

// extractClaims reads the claims that RequireAuth stored on the context.
func extractClaims(c *gin.Context) (*jwt.RegisteredClaims, error) {
	value, exists := c.Get("claims")
	if !exists {
		return nil, errors.New("invalid token claims")
	}

	claims, ok := value.(*jwt.RegisteredClaims)
	if !ok || claims.ExpiresAt == nil {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
