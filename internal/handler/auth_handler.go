package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tenancy-service/internal/model"
	"tenancy-service/internal/multitenancy"
	"tenancy-service/pkg/database"
	"tenancy-service/pkg/jwtutil"
	"tenancy-service/pkg/logger"
	"tenancy-service/prometheus"
)

// Register provisions a new account: user, organization, membership and
// OWNER role grant in one transaction.
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	// Parse request
	var req struct {
		Name             string `json:"name"`
		Email            string `json:"email"`
		Password         string `json:"password"`
		OrganizationName string `json:"organization_name"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Password == "" {
		log.Error("Invalid registration data", zap.String("email", req.Email))
		prometheus.RecordError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password is required"})
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	result, err := multitenancy.CreateUserWithOrganization(database.GetDB(), multitenancy.CreateUserWithOrganizationParams{
		User: multitenancy.NewUser{
			Name:     req.Name,
			Email:    req.Email,
			Password: string(hashedPassword),
		},
		OrganizationName: req.OrganizationName,
	})
	if err != nil {
		log.Error("Failed to create user with organization", zap.Error(err), zap.String("email", req.Email))
		return coreError(c, err)
	}

	log.Info("User registered",
		zap.String("email", result.User.Email),
		zap.Uint("user_id", result.User.ID),
		zap.Uint("organization_id", result.Organization.ID))

	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "User registered successfully",
		"user":         result.User,
		"organization": result.Organization,
		"membership":   result.Membership,
	})
}

// Login verifies credentials and issues a JWT carrying the user's active
// organization context and role names.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	// Parse request
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	// Find user in database
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := database.GetDB().Where("email = ?", req.Email).First(&user)
	if result.Error != nil {
		log.Error("User not found", zap.String("email", req.Email))
		prometheus.RecordError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("email", req.Email))
		prometheus.RecordError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, organization, roles, err := issueToken(&user)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.IncreaseActiveTokens()

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.Uint("organization_id", user.ActiveOrganizationID))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
		"organization": map[string]interface{}{
			"id":    organization.ID,
			"name":  organization.Name,
			"roles": roles,
		},
	})
}

// issueToken builds a JWT for the user's current active organization,
// including the role names held there.
func issueToken(user *model.User) (string, *model.Organization, []string, error) {
	db := database.GetDB()

	var organization model.Organization
	if err := db.First(&organization, user.ActiveOrganizationID).Error; err != nil {
		return "", nil, nil, err
	}

	var roles []string
	err := db.Table("memberships").
		Select("roles.name").
		Joins("INNER JOIN membership_roles ON membership_roles.membership_id = memberships.id").
		Joins("INNER JOIN roles ON roles.id = membership_roles.role_id").
		Where("memberships.user_id = ? AND memberships.organization_id = ?", user.ID, organization.ID).
		Scan(&roles).Error
	if err != nil {
		return "", nil, nil, err
	}

	organizationID := organization.ID
	token, err := jwtutil.GenerateTokenWithOrganization(user.Email, user.ID, &organizationID, organization.Name, roles)
	if err != nil {
		return "", nil, nil, err
	}
	return token, &organization, roles, nil
}

// MetricsHandler exposes the Prometheus registry.
func MetricsHandler(c echo.Context) error {
	handler := prometheus.GetPrometheusHandler()
	handler.ServeHTTP(c.Response(), c.Request())
	return nil
}
