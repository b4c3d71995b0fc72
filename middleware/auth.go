package middleware

import (
	"fmt"
	"strings"

	"github.com/docspot/docspot-api/model"
	"github.com/docspot/docspot-api/util"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// ParseAccountID verifies a bearer token against the given secret and
// extracts the account id it encodes. Pure: no ambient state is consulted.
func ParseAccountID(tokenString string, secret []byte) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, fmt.Errorf("token carries no account id")
	}
	return uint(sub), nil
}

// Auth verifies the Authorization bearer token, resolves the account it
// encodes, and attaches both the id and the account to the request context.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Authentication required",
				Err: fmt.Errorf("missing authorization header"),
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		userID, err := ParseAccountID(tokenString, util.GetJWTSecretByte())
		if err != nil {
			util.LogUnauthorizedAccess("", "", c.ClientIP(), c.Request.URL.Path, err.Error())
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Invalid or expired token",
				Err: err,
			})
			c.Abort()
			return
		}

		db := GetDB(c)
		if db == nil {
			util.CallServerError(c, util.APIErrorParams{
				Msg: "Database connection not available",
				Err: fmt.Errorf("db is nil"),
			})
			c.Abort()
			return
		}

		var user model.User
		if err := db.First(&user, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				// Token was issued for an account that no longer exists.
				util.CallUserNotAuthorized(c, util.APIErrorParams{
					Msg: "Account not found",
					Err: err,
				})
				c.Abort()
				return
			}
			util.CallServerError(c, util.APIErrorParams{
				Msg: "Failed to load account",
				Err: err,
			})
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyUser, &user)
		c.Next()
	}
}

// RequireRole allows the call only when the authenticated account's role is
// one of the given roles. Composes after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Authentication required",
				Err: fmt.Errorf("no account in context"),
			})
			c.Abort()
			return
		}
		if !util.Contains(user.Role, roles) {
			util.LogUnauthorizedAccess(fmt.Sprintf("%d", user.ID), user.Email, c.ClientIP(), c.Request.URL.Path, "role not allowed")
			util.CallForbidden(c, util.APIErrorParams{
				Msg: "Access denied",
				Err: fmt.Errorf("role %s is not allowed", user.Role),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
