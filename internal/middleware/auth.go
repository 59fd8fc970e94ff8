package middleware

import (
	"net/http"
	"strings"

	"gigaaura/config"
	"gigaaura/internal/auth"

	"github.com/gin-gonic/gin"
)

// WalletRequired validates the bearer token and sets wallet_address in the
// context.
func WalletRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("wallet_address", claims.WalletAddress)
		c.Next()
	}
}

// GetWallet returns the authenticated wallet address (after WalletRequired).
func GetWallet(c *gin.Context) string {
	v, _ := c.Get("wallet_address")
	if v == nil {
		return ""
	}
	return v.(string)
}
