package service

import (
	"fmt"
	"time"

	"custodial-wallet-service/config"
	"custodial-wallet-service/internal/core/domain"
	"custodial-wallet-service/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTTokenService implements ports.TokenService using HS256 JWT.
// Every token carries a purpose claim, so an access token can never be
// replayed as a refresh or reset token.
type JWTTokenService struct {
	secret []byte
	issuer string
	ttls   map[ports.TokenPurpose]time.Duration
}

// NewJWTTokenService creates a new JWT token service.
func NewJWTTokenService(cfg config.JWTConfig) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttls: map[ports.TokenPurpose]time.Duration{
			ports.TokenPurposeAccess:      cfg.AccessTTL,
			ports.TokenPurposeRefresh:     cfg.RefreshTTL,
			ports.TokenPurposeReset:       cfg.ResetTTL,
			ports.TokenPurposeEmailVerify: cfg.EmailVerifyTTL,
		},
	}
}

// Generate creates a signed JWT scoped to the given purpose.
func (s *JWTTokenService) Generate(userID uuid.UUID, role domain.UserRole, purpose ports.TokenPurpose) (string, time.Time, error) {
	ttl, ok := s.ttls[purpose]
	if !ok {
		return "", time.Time{}, fmt.Errorf("unknown token purpose %q", purpose)
	}

	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub":     userID.String(),
		"role":    string(role),
		"purpose": string(purpose),
		"jti":     uuid.New().String(),
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
		"iss":     s.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Validate parses and validates a JWT token, rejecting tokens issued for a
// different purpose.
func (s *JWTTokenService) Validate(tokenString string, purpose ports.TokenPurpose) (*ports.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	gotPurpose, _ := claims["purpose"].(string)
	if gotPurpose != string(purpose) {
		return nil, fmt.Errorf("token purpose mismatch: got %q, want %q", gotPurpose, purpose)
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("missing subject claim")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	role, _ := claims["role"].(string)
	jti, _ := claims["jti"].(string)

	return &ports.TokenClaims{
		UserID:  userID,
		Role:    domain.UserRole(role),
		Purpose: ports.TokenPurpose(gotPurpose),
		TokenID: jti,
	}, nil
}
