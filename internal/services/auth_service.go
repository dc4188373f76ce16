package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/session"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles credentials and session tokens. Successful sign-in
// and sign-out are pushed into the session store, which then resolves
// the application-level user row.
type AuthService struct {
	creds      repositories.CredentialRepository
	sessions   *session.Store
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(creds repositories.CredentialRepository, sessions *session.Store, jwtSecret string) *AuthService {
	return &AuthService{
		creds:      creds,
		sessions:   sessions,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// Register creates a new auth identity with a hashed password. The
// profile row is not created here; the session store creates it lazily
// on the first authenticated session.
func (s *AuthService) Register(email, password string) (*models.Credential, error) {
	existing, err := s.creds.GetByEmail(email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing credential: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email '%s' already registered", email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	credential := &models.Credential{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.creds.Create(credential); err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}
	return credential, nil
}

// Login authenticates a user, notifies the session store and returns a
// JWT token.
func (s *AuthService) Login(email, password string) (string, error) {
	credential, err := s.creds.GetByEmail(email)
	if err != nil {
		// Do not reveal whether the email exists
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": credential.ID,
		"email":   credential.Email,
		"exp":     time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":     time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.sessions.HandleAuthChange(&session.Identity{ID: credential.ID, Email: credential.Email})

	return tokenString, nil
}

// Logout clears the current session.
func (s *AuthService) Logout() {
	s.sessions.HandleAuthChange(nil)
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// IdentityFromToken validates a token and extracts the auth identity.
// Used both by the HTTP middleware and by the bootstrap fetch of a
// persisted session.
func (s *AuthService) IdentityFromToken(tokenString string) (*session.Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	id, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	if id == "" {
		return nil, fmt.Errorf("invalid token: missing user_id claim")
	}
	return &session.Identity{ID: id, Email: email}, nil
}
