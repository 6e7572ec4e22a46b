package middleware

import (
	"slices"
	"strings"

	"storefront/api/ctxutil"
	"storefront/api/response"
	"storefront/config"
	"storefront/domain/shared"
	"storefront/pkg/errors"
	"storefront/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// AuthMiddleware verifies an HS256 bearer token and stores the caller as a
// shared.Actor. The customer id is the token subject; admin rights come from
// cfg.AdminClaim matching one of cfg.AdminValues.
func AuthMiddleware(cfg *config.AuthConfig) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(opts...)
	keyFunc := func(*jwt.Token) (interface{}, error) { return secret, nil }

	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			response.AbortWithAppError(c, errors.Unauthorized("missing bearer token"))
			return
		}

		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, keyFunc); err != nil {
			logger.Ctx(c.Request.Context()).Warn("Rejected bearer token", zap.Error(err))
			response.AbortWithAppError(c, errors.Unauthorized("invalid bearer token"))
			return
		}
		subject, err := claims.GetSubject()
		if err != nil || subject == "" {
			response.AbortWithAppError(c, errors.Unauthorized("token has no subject"))
			return
		}

		ctxutil.SetActor(c, shared.Actor{
			CustomerID: subject,
			Admin:      hasAdminClaim(claims[cfg.AdminClaim], cfg.AdminValues),
		})
		c.Next()
	}
}

// hasAdminClaim accepts a boolean true, a matching string, or a list
// containing a matching string.
func hasAdminClaim(claim interface{}, values []string) bool {
	switch v := claim.(type) {
	case bool:
		return v
	case string:
		return slices.Contains(values, v)
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && slices.Contains(values, s) {
				return true
			}
		}
	}
	return false
}
