package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a login attempt fails. The same
// error covers unknown usernames and bad passwords so login responses do not
// leak which operators exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Operator is a configured API operator. Passwords are stored as bcrypt
// hashes, never in the clear.
type Operator struct {
	Username     string
	PasswordHash string
	Role         string
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	Role        string
}

// Service authenticates operators against the configured credential set.
// Operators come from deployment configuration rather than the database:
// the system has a small fixed set of admin and agency accounts.
type Service struct {
	jwt       *JWTService
	operators map[string]Operator
	logger    zerolog.Logger
}

// NewService creates an authentication service over the given operators.
func NewService(jwtService *JWTService, operators []Operator, logger zerolog.Logger) *Service {
	byName := make(map[string]Operator, len(operators))
	for _, op := range operators {
		byName[op.Username] = op
	}
	return &Service{
		jwt:       jwtService,
		operators: byName,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

// Login verifies the username/password pair and mints an access token.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	op, ok := s.operators[username]
	if !ok {
		// Burn a comparison anyway so unknown usernames take as long as
		// wrong passwords.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000000000000000000000000000000000"), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn().Ctx(ctx).Str("username", username).Msg("failed login attempt")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(op.Username, op.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Ctx(ctx).Str("username", username).Str("role", op.Role).Msg("operator logged in")

	return &Session{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Role:        op.Role,
	}, nil
}

// HashPassword produces a bcrypt hash suitable for operator configuration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
