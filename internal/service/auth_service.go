package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/medtrain/cert-registry-api/internal/models"
	appErrors "github.com/medtrain/cert-registry-api/pkg/errors"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 32
	passwordMinLength = 8
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type authUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuthServiceConfig defines configuration for authentication flows.
type AuthServiceConfig struct {
	TokenSecret string
	TokenExpiry time.Duration
	Issuer      string
}

// AuthService provides registration, login and token validation.
type AuthService struct {
	repo      authUserRepository
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthServiceConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, audit auditLogger, validate *validator.Validate, logger *zap.Logger, config AuthServiceConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 30 * 24 * time.Hour
	}
	return &AuthService{repo: repo, audit: audit, validator: validate, logger: logger, config: config}
}

// ValidateUsername checks the username rules: required, alphanumeric
// plus underscore only, length bounded.
func ValidateUsername(username string) []string {
	var details []string
	if username == "" {
		return []string{"username is required"}
	}
	if len(username) < usernameMinLength || len(username) > usernameMaxLength {
		details = append(details, fmt.Sprintf("username must be between %d and %d characters", usernameMinLength, usernameMaxLength))
	}
	if !usernamePattern.MatchString(username) {
		details = append(details, "username may only contain letters, numbers and underscores")
	}
	return details
}

// ValidatePassword checks the password rules: required, minimum length,
// at least one uppercase, one lowercase and one digit.
func ValidatePassword(password string) []string {
	var details []string
	if password == "" {
		return []string{"password is required"}
	}
	if len(password) < passwordMinLength {
		details = append(details, fmt.Sprintf("password must be at least %d characters", passwordMinLength))
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		details = append(details, "password must contain at least one uppercase letter")
	}
	if !hasLower {
		details = append(details, "password must contain at least one lowercase letter")
	}
	if !hasDigit {
		details = append(details, "password must contain at least one digit")
	}
	return details
}

// Register creates a portal account after validating credentials and
// rejecting duplicate usernames.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.UserInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid register payload")
	}

	details := append(ValidateUsername(req.Username), ValidatePassword(req.Password)...)
	if len(details) > 0 {
		return nil, appErrors.Validation(details)
	}

	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, appErrors.ErrDuplicateUsername
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{Username: req.Username, PasswordHash: string(hash)}
	if err := s.repo.Create(ctx, user); err != nil {
		// A concurrent register for the same username can slip past the
		// lookup above and lose the race at the insert.
		if errors.Is(err, appErrors.ErrDuplicateUsername) {
			return nil, appErrors.ErrDuplicateUsername
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.emitAudit(ctx, user.ID, models.AuditActionRegister, "user", strconv.FormatInt(user.ID, 10), "", "")

	return &models.UserInfo{ID: user.ID, Username: user.Username}, nil
}

// Login verifies credentials and mints the identity token the handler
// embeds in the http-only cookie.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.UserInfo, string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.ErrInvalidCredentials
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", appErrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create token")
	}

	s.emitAudit(ctx, user.ID, models.AuditActionLogin, "auth", strconv.FormatInt(user.ID, 10), req.IP, req.UserAgent)

	return &models.UserInfo{ID: user.ID, Username: user.Username}, token, nil
}

// CurrentUser resolves the identity behind validated claims.
func (s *AuthService) CurrentUser(ctx context.Context, claims *models.AuthClaims) (*models.UserInfo, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return &models.UserInfo{ID: user.ID, Username: user.Username}, nil
}

// ValidateToken parses and validates an identity token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.AuthClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.AuthClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.TokenSecret))
}

func (s *AuthService) emitAudit(ctx context.Context, userID int64, action, resource, resourceID, ip, userAgent string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   resource,
		ResourceID: &resourceID,
		IPAddress:  ip,
		UserAgent:  userAgent,
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}
