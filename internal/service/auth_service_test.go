package service

import (
	"context"
	"testing"
	"time"

	"custodial-wallet-service/config"
	"custodial-wallet-service/internal/core/domain"
	"custodial-wallet-service/internal/core/ports"
	"custodial-wallet-service/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authDeps struct {
	userRepo     *mocks.MockUserRepository
	tokenSvc     *mocks.MockTokenService
	hashSvc      *mocks.MockHashService
	mailer       *mocks.MockMailer
	codeStore    *mocks.MockCodeStore
	refreshStore *mocks.MockRefreshTokenStore
}

func newAuthService(ctrl *gomock.Controller) (*AuthServiceImpl, authDeps) {
	d := authDeps{
		userRepo:     mocks.NewMockUserRepository(ctrl),
		tokenSvc:     mocks.NewMockTokenService(ctrl),
		hashSvc:      mocks.NewMockHashService(ctrl),
		mailer:       mocks.NewMockMailer(ctrl),
		codeStore:    mocks.NewMockCodeStore(ctrl),
		refreshStore: mocks.NewMockRefreshTokenStore(ctrl),
	}
	cfg := config.JWTConfig{
		Secret:         "test-secret",
		Issuer:         "test",
		AccessTTL:      15 * time.Minute,
		RefreshTTL:     168 * time.Hour,
		ResetTTL:       time.Hour,
		EmailVerifyTTL: 24 * time.Hour,
	}
	svc := NewAuthService(d.userRepo, d.tokenSvc, d.hashSvc, d.mailer, d.codeStore, d.refreshStore, cfg, zerolog.Nop())
	return svc, d
}

func TestAuthService_Signup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)
	ctx := context.Background()

	d.userRepo.EXPECT().GetByEmail(ctx, "ada@example.com").Return(nil, nil)
	d.hashSvc.EXPECT().Hash("s3cret").Return("hashed", nil)
	d.userRepo.EXPECT().Create(ctx, gomock.Cond(func(_x any) bool {
		u := _x.(*domain.User)
		return u.Role == domain.RoleClient && u.PasswordHash == "hashed" && !u.IsEmailVerified
	})).Return(nil)
	d.codeStore.EXPECT().Put(ctx, "ada@example.com", gomock.Any(), 24*time.Hour).Return(nil)
	d.mailer.EXPECT().SendVerificationCode(ctx, "ada@example.com", gomock.Any()).Return(nil)

	user, err := svc.Signup(ctx, ports.SignupInput{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, user.Role)
}

func TestAuthService_Signup_EmailExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)

	d.userRepo.EXPECT().GetByEmail(gomock.Any(), "ada@example.com").Return(&domain.User{ID: uuid.New()}, nil)

	_, err := svc.Signup(context.Background(), ports.SignupInput{Email: "ada@example.com"})
	assertAppErrorCode(t, err, "AUTH_002")
}

func TestAuthService_AdminSignup_Role(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)
	ctx := context.Background()

	d.userRepo.EXPECT().GetByEmail(ctx, gomock.Any()).Return(nil, nil)
	d.hashSvc.EXPECT().Hash(gomock.Any()).Return("hashed", nil)
	d.userRepo.EXPECT().Create(ctx, gomock.Cond(func(_x any) bool {
		u := _x.(*domain.User)
		return u.Role == domain.RoleAdmin
	})).Return(nil)
	d.codeStore.EXPECT().Put(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.mailer.EXPECT().SendVerificationCode(ctx, gomock.Any(), gomock.Any()).Return(nil)

	user, err := svc.AdminSignup(ctx, ports.SignupInput{Email: "root@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	user := &domain.User{
		ID:              userID,
		Email:           "ada@example.com",
		PasswordHash:    "hashed",
		Role:            domain.RoleClient,
		IsEmailVerified: true,
	}

	d.userRepo.EXPECT().GetByEmail(ctx, "ada@example.com").Return(user, nil)
	d.hashSvc.EXPECT().Verify("s3cret", "hashed").Return(true, nil)
	d.tokenSvc.EXPECT().Generate(userID, domain.RoleClient, ports.TokenPurposeAccess).
		Return("access-token", time.Now().Add(15*time.Minute), nil)
	d.tokenSvc.EXPECT().Generate(userID, domain.RoleClient, ports.TokenPurposeRefresh).
		Return("refresh-token", time.Now().Add(168*time.Hour), nil)
	d.tokenSvc.EXPECT().Validate("refresh-token", ports.TokenPurposeRefresh).
		Return(&ports.TokenClaims{UserID: userID, TokenID: "jti-1"}, nil)
	d.refreshStore.EXPECT().Save(ctx, userID.String(), "jti-1", 168*time.Hour).Return(nil)

	tokens, err := svc.Login(ctx, "ada@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "access-token", tokens.AccessToken)
	assert.Equal(t, "refresh-token", tokens.RefreshToken)
	assert.Equal(t, userID, tokens.User.ID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)
	ctx := context.Background()

	d.userRepo.EXPECT().GetByEmail(ctx, gomock.Any()).Return(&domain.User{PasswordHash: "hashed"}, nil)
	d.hashSvc.EXPECT().Verify("wrong", "hashed").Return(false, nil)

	_, err := svc.Login(ctx, "ada@example.com", "wrong")
	assertAppErrorCode(t, err, "AUTH_001")
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)

	d.userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := svc.Login(context.Background(), "nobody@example.com", "pw")
	assertAppErrorCode(t, err, "AUTH_001")
}

func TestAuthService_Login_UnverifiedEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)
	ctx := context.Background()

	d.userRepo.EXPECT().GetByEmail(ctx, gomock.Any()).Return(&domain.User{PasswordHash: "hashed"}, nil)
	d.hashSvc.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(true, nil)

	_, err := svc.Login(ctx, "ada@example.com", "pw")
	assertAppErrorCode(t, err, "AUTH_005")
}

func TestAuthService_VerifyEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	d.userRepo.EXPECT().GetByEmail(ctx, "ada@example.com").Return(&domain.User{ID: userID}, nil)
	d.codeStore.EXPECT().Get(ctx, "ada@example.com").Return("482913", nil)
	d.userRepo.EXPECT().SetEmailVerified(ctx, userID).Return(nil)
	d.codeStore.EXPECT().Delete(ctx, "ada@example.com").Return(nil)

	require.NoError(t, svc.VerifyEmail(ctx, "ada@example.com", "482913"))
}

func TestAuthService_VerifyEmail_WrongCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)
	ctx := context.Background()

	d.userRepo.EXPECT().GetByEmail(ctx, gomock.Any()).Return(&domain.User{ID: uuid.New()}, nil)
	d.codeStore.EXPECT().Get(ctx, gomock.Any()).Return("482913", nil)
	d.codeStore.EXPECT().IncrAttempts(ctx, gomock.Any(), gomock.Any()).Return(int64(1), nil)

	err := svc.VerifyEmail(ctx, "ada@example.com", "000000")
	assertAppErrorCode(t, err, "AUTH_006")
}

func TestAuthService_VerifyEmail_TooManyAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)
	ctx := context.Background()

	d.userRepo.EXPECT().GetByEmail(ctx, gomock.Any()).Return(&domain.User{ID: uuid.New()}, nil)
	d.codeStore.EXPECT().Get(ctx, gomock.Any()).Return("482913", nil)
	d.codeStore.EXPECT().IncrAttempts(ctx, gomock.Any(), gomock.Any()).Return(int64(5), nil)
	d.codeStore.EXPECT().Delete(ctx, "ada@example.com").Return(nil)

	err := svc.VerifyEmail(ctx, "ada@example.com", "000000")
	assertAppErrorCode(t, err, "AUTH_007")
}

func TestAuthService_VerifyEmail_ExpiredCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)
	ctx := context.Background()

	d.userRepo.EXPECT().GetByEmail(ctx, gomock.Any()).Return(&domain.User{ID: uuid.New()}, nil)
	d.codeStore.EXPECT().Get(ctx, gomock.Any()).Return("", nil)

	err := svc.VerifyEmail(ctx, "ada@example.com", "482913")
	assertAppErrorCode(t, err, "AUTH_006")
}

func TestAuthService_ForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)

	d.userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, nil)

	assert.NoError(t, svc.ForgotPassword(context.Background(), "nobody@example.com"))
}

func TestAuthService_ResetPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	d.tokenSvc.EXPECT().Validate("reset-token", ports.TokenPurposeReset).
		Return(&ports.TokenClaims{UserID: userID}, nil)
	d.hashSvc.EXPECT().Hash("newpw").Return("new-hash", nil)
	d.userRepo.EXPECT().UpdatePassword(ctx, userID, "new-hash").Return(nil)

	require.NoError(t, svc.ResetPassword(ctx, "reset-token", "newpw"))
}

func TestAuthService_ResetPassword_BadToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)

	d.tokenSvc.EXPECT().Validate(gomock.Any(), ports.TokenPurposeReset).
		Return(nil, assert.AnError)

	err := svc.ResetPassword(context.Background(), "garbage", "newpw")
	assertAppErrorCode(t, err, "AUTH_003")
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	user := &domain.User{ID: userID, Role: domain.RoleClient, IsEmailVerified: true}

	d.tokenSvc.EXPECT().Validate("old-refresh", ports.TokenPurposeRefresh).
		Return(&ports.TokenClaims{UserID: userID, TokenID: "jti-old"}, nil)
	d.refreshStore.EXPECT().IsLive(ctx, userID.String(), "jti-old").Return(true, nil)
	d.refreshStore.EXPECT().Revoke(ctx, userID.String(), "jti-old").Return(nil)
	d.userRepo.EXPECT().GetByID(ctx, userID).Return(user, nil)
	d.tokenSvc.EXPECT().Generate(userID, domain.RoleClient, ports.TokenPurposeAccess).
		Return("new-access", time.Now().Add(15*time.Minute), nil)
	d.tokenSvc.EXPECT().Generate(userID, domain.RoleClient, ports.TokenPurposeRefresh).
		Return("new-refresh", time.Now().Add(168*time.Hour), nil)
	d.tokenSvc.EXPECT().Validate("new-refresh", ports.TokenPurposeRefresh).
		Return(&ports.TokenClaims{UserID: userID, TokenID: "jti-new"}, nil)
	d.refreshStore.EXPECT().Save(ctx, userID.String(), "jti-new", gomock.Any()).Return(nil)

	tokens, err := svc.Refresh(ctx, "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-refresh", tokens.RefreshToken)
}

func TestAuthService_Refresh_RevokedToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	d.tokenSvc.EXPECT().Validate(gomock.Any(), ports.TokenPurposeRefresh).
		Return(&ports.TokenClaims{UserID: userID, TokenID: "jti-old"}, nil)
	d.refreshStore.EXPECT().IsLive(ctx, userID.String(), "jti-old").Return(false, nil)

	_, err := svc.Refresh(ctx, "old-refresh")
	assertAppErrorCode(t, err, "AUTH_003")
}

func TestAuthService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	d.tokenSvc.EXPECT().Validate("refresh-token", ports.TokenPurposeRefresh).
		Return(&ports.TokenClaims{UserID: userID, TokenID: "jti-1"}, nil)
	d.refreshStore.EXPECT().Revoke(ctx, userID.String(), "jti-1").Return(nil)

	require.NoError(t, svc.Logout(ctx, "refresh-token"))
}

func TestAuthService_Me_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newAuthService(ctrl)

	d.userRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := svc.Me(context.Background(), uuid.New())
	assertAppErrorCode(t, err, "GEN_001")
}

func TestGenerateNumericCode(t *testing.T) {
	code, err := generateNumericCode(6)
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}
}
