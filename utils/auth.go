// utils/auth.go
package utils

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Generate JWT token. isAdmin distinguishes administrator tokens from
// installer tokens; the subject is the row id of either one.
func GenerateToken(userID string, isAdmin bool) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     userID,
		"isAdmin": isAdmin,
		"exp":     time.Now().Add(time.Duration(tokenExpiryHours()) * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	})

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	return token.SignedString([]byte(secret))
}

// TokenMaxAge returns the cookie lifetime in seconds, matching the
// token expiry.
func TokenMaxAge() int {
	return tokenExpiryHours() * 3600
}

func tokenExpiryHours() int {
	expiryHours := 24 // default
	if env := os.Getenv("JWT_EXPIRY_HOURS"); env != "" {
		if h, err := strconv.Atoi(env); err == nil {
			expiryHours = h
		}
	}
	return expiryHours
}

// Auth middleware. Accepts the token from the access_token cookie or a
// Bearer header and exposes the subject id plus the admin/installer
// discriminator on the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie("access_token")
		if err != nil || tokenString == "" {
			header := c.GetHeader("Authorization")
			if len(header) > 7 && strings.ToUpper(header[0:6]) == "BEARER" {
				tokenString = header[7:]
			}
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": true, "message": "Authorization required"})
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(401, gin.H{"error": true, "message": "Invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(401, gin.H{"error": true, "message": "Invalid token claims"})
			return
		}

		sub, _ := claims["sub"].(string)
		isAdmin, _ := claims["isAdmin"].(bool)
		if sub == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": true, "message": "Invalid token claims"})
			return
		}

		c.Set("userId", sub)
		c.Set("isAdmin", isAdmin)
		c.Next()
	}
}

// RequireAdmin rejects installer tokens on admin-only routes.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("isAdmin") {
			c.AbortWithStatusJSON(403, gin.H{"error": true, "message": "Administrator access required"})
			return
		}
		c.Next()
	}
}
