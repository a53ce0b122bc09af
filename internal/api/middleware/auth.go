package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// teamClaims is the JWT payload this engine issues and accepts: a
// league/team pair scoping the bearer to one fantasy roster.
type teamClaims struct {
	LeagueID int    `json:"league_id"`
	TeamID   string `json:"team_id"`
	jwt.RegisteredClaims
}

func parseToken(tokenString, secret string) (*teamClaims, error) {
	claims := &teamClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// AuthRequired rejects requests without a valid bearer token, and sets
// team_id/league_id on the context for handlers that need the caller's
// identity.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			c.Abort()
			return
		}
		claims, err := parseToken(tokenString, secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		c.Set("team_id", claims.TeamID)
		c.Set("league_id", claims.LeagueID)
		c.Set("authenticated", true)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid bearer token
// is present, but never blocks the request otherwise.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}
		claims, err := parseToken(tokenString, secret)
		if err != nil {
			c.Next()
			return
		}
		c.Set("team_id", claims.TeamID)
		c.Set("league_id", claims.LeagueID)
		c.Set("authenticated", true)
		c.Next()
	}
}
