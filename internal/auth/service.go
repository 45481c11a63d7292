package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidCredentials is returned when role/password don't match an active credential.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidOperator is returned when the operator name doesn't meet constraints.
	ErrInvalidOperator = errors.New("invalid operator name")
)

// Service exchanges staff credentials for API tokens.
type Service struct {
	table     *Table
	jwtConfig *JWTConfig
	now       func() time.Time
}

// NewService creates a new authentication service. now defaults to time.Now.
func NewService(table *Table, jwtConfig *JWTConfig, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		table:     table,
		jwtConfig: jwtConfig,
		now:       now,
	}
}

// Login validates the credential for role and returns a JWT token naming operator.
func (s *Service) Login(operator, role, password string) (string, error) {
	operator = strings.TrimSpace(operator)
	if len(operator) < 1 || len(operator) > 32 {
		return "", ErrInvalidOperator
	}
	if !s.table.Verify(role, password, s.now()) {
		return "", ErrInvalidCredentials
	}

	token, err := GenerateToken(s.jwtConfig, operator, role)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return ValidateToken(s.jwtConfig, tokenString)
}
