package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tenancy-service/pkg/jwtutil"
	"tenancy-service/pkg/logger"
	"tenancy-service/prometheus"
)

// AuthMiddleware validates the JWT token from the Authorization header
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Error("Missing Authorization header")
			prometheus.RecordError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Error("Invalid Authorization header format")
			prometheus.RecordError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Extract the token
		tokenString := parts[1]

		// Validate the token
		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Store user info in context for later use
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)

		// Store organization context if the token carries one
		if claims.OrganizationID != nil {
			c.Set("organization_id", *claims.OrganizationID)
			c.Set("organization_name", claims.OrganizationName)
			c.Set("roles", claims.Roles)

			// Add organization ID to request headers for downstream services
			c.Request().Header.Set("X-Organization-ID", fmt.Sprintf("%d", *claims.OrganizationID))
			if claims.OrganizationName != "" {
				c.Request().Header.Set("X-Organization-Name", claims.OrganizationName)
			}

			log.Debug("Request authenticated with organization context",
				zap.Uint("organization_id", *claims.OrganizationID),
				zap.String("organization_name", claims.OrganizationName),
				zap.Strings("roles", claims.Roles))
		}

		// Token is valid, proceed with the request
		return next(c)
	}
}

// RequireOrganizationContext rejects requests whose token does not carry an
// organization. Routes under this middleware can assume organization_id is
// set in the echo context.
func RequireOrganizationContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := c.Get("organization_id").(uint); !ok {
			logger.FromContext(c).Error("Missing organization context")
			prometheus.RecordError("missing_organization_context")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "organization context required"})
		}
		return next(c)
	}
}
