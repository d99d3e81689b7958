package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"custodial-wallet-service/config"
	"custodial-wallet-service/internal/core/domain"
	"custodial-wallet-service/internal/core/ports"
	"custodial-wallet-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxVerificationAttempts = 5

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo     ports.UserRepository
	tokenSvc     ports.TokenService
	hashSvc      ports.HashService
	mailer       ports.Mailer
	codeStore    ports.CodeStore
	refreshStore ports.RefreshTokenStore
	jwtCfg       config.JWTConfig
	log          zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	userRepo ports.UserRepository,
	tokenSvc ports.TokenService,
	hashSvc ports.HashService,
	mailer ports.Mailer,
	codeStore ports.CodeStore,
	refreshStore ports.RefreshTokenStore,
	jwtCfg config.JWTConfig,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:     userRepo,
		tokenSvc:     tokenSvc,
		hashSvc:      hashSvc,
		mailer:       mailer,
		codeStore:    codeStore,
		refreshStore: refreshStore,
		jwtCfg:       jwtCfg,
		log:          log,
	}
}

// Signup registers a client account and mails a verification code.
func (s *AuthServiceImpl) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	return s.signup(ctx, in, domain.RoleClient)
}

// AdminSignup registers an admin account. The route exposing this is itself
// admin-only.
func (s *AuthServiceImpl) AdminSignup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	return s.signup(ctx, in, domain.RoleAdmin)
}

func (s *AuthServiceImpl) signup(ctx context.Context, in ports.SignupInput, role domain.UserRole) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	passwordHash, err := s.hashSvc.Hash(in.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create user: %w", err))
	}

	if err := s.issueVerificationCode(ctx, user.Email); err != nil {
		// The account exists; the code can be re-requested.
		s.log.Warn().Err(err).Str("email", user.Email).Msg("failed to send verification code")
	}

	s.log.Info().
		Str("user_id", user.ID.String()).
		Str("role", string(role)).
		Msg("user registered")

	return user, nil
}

// Login validates credentials and issues an access/refresh token pair.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*ports.AuthTokens, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return nil, apperror.ErrInvalidCredentials()
	}

	if !user.IsEmailVerified {
		return nil, apperror.ErrEmailNotVerified()
	}

	tokens, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return tokens, nil
}

// VerifyEmail checks a signup verification code. After too many wrong
// attempts the code is invalidated and a new one must be requested.
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return apperror.ErrInvalidVerificationCode()
	}

	stored, err := s.codeStore.Get(ctx, email)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("read verification code: %w", err))
	}
	if stored == "" {
		return apperror.ErrInvalidVerificationCode()
	}

	if code != stored {
		attempts, err := s.codeStore.IncrAttempts(ctx, email, s.jwtCfg.EmailVerifyTTL)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("count attempts: %w", err))
		}
		if attempts >= maxVerificationAttempts {
			if err := s.codeStore.Delete(ctx, email); err != nil {
				s.log.Warn().Err(err).Str("email", email).Msg("failed to invalidate verification code")
			}
			return apperror.ErrTooManyAttempts()
		}
		return apperror.ErrInvalidVerificationCode()
	}

	if err := s.userRepo.SetEmailVerified(ctx, user.ID); err != nil {
		return apperror.InternalError(fmt.Errorf("mark email verified: %w", err))
	}
	if err := s.codeStore.Delete(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to delete verification code")
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("email verified")
	return nil
}

// ResendVerificationCode issues a fresh code, replacing any previous one.
func (s *AuthServiceImpl) ResendVerificationCode(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return apperror.NotFound("user")
	}
	if user.IsEmailVerified {
		return apperror.Validation("email is already verified")
	}

	if err := s.issueVerificationCode(ctx, email); err != nil {
		return apperror.InternalError(fmt.Errorf("issue verification code: %w", err))
	}
	return nil
}

// ForgotPassword mails a reset token. An unknown email is not reported to
// the caller.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		s.log.Info().Str("email", email).Msg("password reset requested for unknown email")
		return nil
	}

	resetToken, _, err := s.tokenSvc.Generate(user.ID, user.Role, ports.TokenPurposeReset)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("generate reset token: %w", err))
	}

	if err := s.mailer.SendPasswordReset(ctx, email, resetToken); err != nil {
		return apperror.InternalError(fmt.Errorf("send reset mail: %w", err))
	}
	return nil
}

// ResetPassword sets a new password using a reset token.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.tokenSvc.Validate(resetToken, ports.TokenPurposeReset)
	if err != nil {
		return apperror.ErrInvalidToken()
	}

	passwordHash, err := s.hashSvc.Hash(newPassword)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	if err := s.userRepo.UpdatePassword(ctx, claims.UserID, passwordHash); err != nil {
		return apperror.InternalError(fmt.Errorf("update password: %w", err))
	}

	s.log.Info().Str("user_id", claims.UserID.String()).Msg("password reset")
	return nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. A token that was already rotated or revoked is rejected.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*ports.AuthTokens, error) {
	claims, err := s.tokenSvc.Validate(refreshToken, ports.TokenPurposeRefresh)
	if err != nil {
		return nil, apperror.ErrInvalidToken()
	}

	live, err := s.refreshStore.IsLive(ctx, claims.UserID.String(), claims.TokenID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check refresh token: %w", err))
	}
	if !live {
		return nil, apperror.ErrInvalidToken()
	}

	if err := s.refreshStore.Revoke(ctx, claims.UserID.String(), claims.TokenID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("revoke refresh token: %w", err))
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken()
	}

	return s.issueTokenPair(ctx, user)
}

// Logout revokes the presented refresh token.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokenSvc.Validate(refreshToken, ports.TokenPurposeRefresh)
	if err != nil {
		return apperror.ErrInvalidToken()
	}

	if err := s.refreshStore.Revoke(ctx, claims.UserID.String(), claims.TokenID); err != nil {
		return apperror.InternalError(fmt.Errorf("revoke refresh token: %w", err))
	}

	s.log.Info().Str("user_id", claims.UserID.String()).Msg("user logged out")
	return nil
}

// Me returns the authenticated user's account.
func (s *AuthServiceImpl) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.NotFound("user")
	}
	return user, nil
}

// issueTokenPair generates an access/refresh pair and records the refresh
// token's ID in the allow-list.
func (s *AuthServiceImpl) issueTokenPair(ctx context.Context, user *domain.User) (*ports.AuthTokens, error) {
	accessToken, accessExpiry, err := s.tokenSvc.Generate(user.ID, user.Role, ports.TokenPurposeAccess)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate access token: %w", err))
	}

	refreshToken, _, err := s.tokenSvc.Generate(user.ID, user.Role, ports.TokenPurposeRefresh)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate refresh token: %w", err))
	}

	// Round-trip through Validate to recover the jti for the allow-list.
	refreshClaims, err := s.tokenSvc.Validate(refreshToken, ports.TokenPurposeRefresh)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("parse refresh token: %w", err))
	}

	if err := s.refreshStore.Save(ctx, user.ID.String(), refreshClaims.TokenID, s.jwtCfg.RefreshTTL); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save refresh token: %w", err))
	}

	return &ports.AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExpiry: accessExpiry,
		User:         user,
	}, nil
}

// issueVerificationCode stores and mails a fresh 6-digit code.
func (s *AuthServiceImpl) issueVerificationCode(ctx context.Context, email string) error {
	code, err := generateNumericCode(6)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	if err := s.codeStore.Put(ctx, email, code, s.jwtCfg.EmailVerifyTTL); err != nil {
		return fmt.Errorf("store code: %w", err)
	}
	if err := s.mailer.SendVerificationCode(ctx, email, code); err != nil {
		return fmt.Errorf("send code: %w", err)
	}
	return nil
}

// generateNumericCode produces n random decimal digits.
func generateNumericCode(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + d.Int64())
	}
	return string(digits), nil
}
