package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"inkwell/app/models"
	"inkwell/app/repositories"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the resolved caller of an authenticated request.
type Identity struct {
	UserID int
	Role   string
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService verifies credentials and issues and validates bearer tokens
type AuthService struct {
	userRepo repositories.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService creates a new AuthService. The signing secret is fixed
// for the process lifetime.
func NewAuthService(userRepo repositories.UserRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Register creates a user with a hashed password and returns a signed
// token alongside the stored user.
func (s *AuthService) Register(name, email, password string) (string, *models.User, error) {
	user := &models.User{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
	if err := user.SetPassword(password); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return "", nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return "", nil, err
	}

	token, err := s.signToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login verifies the credentials and returns a fresh token. Unknown email
// and wrong password report the same error so neither case leaks.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: please provide email and password", ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.CheckPassword(password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.signToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate resolves an Authorization header value to an identity.
func (s *AuthService) Authenticate(authHeader string) (Identity, error) {
	if authHeader == "" {
		return Identity{}, fmt.Errorf("%w: missing authorization header", ErrUnauthenticated)
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return Identity{}, fmt.Errorf("%w: authorization header format must be Bearer {token}", ErrUnauthenticated)
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: token invalid or expired", ErrUnauthenticated)
	}

	userID, ok := repositories.ParseID(claims.Subject)
	if !ok {
		return Identity{}, fmt.Errorf("%w: malformed token subject", ErrUnauthenticated)
	}

	// The token may outlive the account; confirm the user still exists.
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return Identity{}, fmt.Errorf("%w: user not found", ErrUnauthenticated)
		}
		return Identity{}, err
	}

	return Identity{UserID: user.ID, Role: user.Role}, nil
}

// Authorize checks role membership.
func (s *AuthService) Authorize(identity Identity, roles ...string) error {
	for _, role := range roles {
		if identity.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

// signToken issues an HS256 token carrying the user's id, email and role.
func (s *AuthService) signToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
