package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-connect-backend/internal/auth"
	"campus-connect-backend/internal/utilities"
)

// JwtBlacklistCheck rejects access tokens that were revoked through the
// logout endpoint. It runs after RequireAuth, so the token is already
// known to be well formed.
func JwtBlacklistCheck(store auth.JwtBlacklistStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: err.Error(),
			})
			return
		}

		blacklisted, err := store.IsBlacklisted(tokenString)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: "Failed to verify token",
			})
			return
		}

		if blacklisted {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Token has been revoked",
			})
			return
		}

		ctx.Next()
	}
}
