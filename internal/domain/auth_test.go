package domain

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/internal/model"
	"github.com/maccessmap/backend/internal/repository"
	"github.com/maccessmap/backend/pkg/authenticator"
	"github.com/maccessmap/backend/pkg/crypto"
	"github.com/maccessmap/backend/pkg/errorx"
	"github.com/maccessmap/backend/pkg/testutil"
	"github.com/maccessmap/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_authDomain_RegisterAndLogin(t *testing.T) {
	ctx := testutil.MockContext()

	domain := NewAuthDomain(
		ctx,
		repository.NewUserRepository(nil),
		repository.NewRefreshTokenRepository(),
		repository.NewOAuth2Repository(),
		nil,
	)

	_, err := domain.Register(ctx, &model.RegisterRequest{
		Name:     "alice",
		Email:    "alice@example.com",
		Password: "short",
	})
	require.Error(t, err)

	registerResp, err := domain.Register(ctx, &model.RegisterRequest{
		Name:     "alice",
		Email:    "alice@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)
	require.Equal(t, "alice", registerResp.User.Name)

	// The email is taken now.
	_, err = domain.Register(ctx, &model.RegisterRequest{
		Name:     "alice2",
		Email:    "alice@example.com",
		Password: "correct horse battery staple",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)

	_, err = domain.Login(ctx, &model.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong password",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)

	loginResp, err := domain.Login(ctx, &model.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)
	require.NotEmpty(t, loginResp.RefreshToken)

	accessToken, err := xcontext.TokenEngine(ctx).Verify(loginResp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, registerResp.User.ID, accessToken.ID)
}

func Test_authDomain_Refresh(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	domain := NewAuthDomain(
		ctx,
		repository.NewUserRepository(nil),
		repository.NewRefreshTokenRepository(),
		repository.NewOAuth2Repository(),
		nil,
	)

	refreshTokenObj := model.RefreshToken{Family: "Foo", Counter: 0}
	err := domain.refreshTokenRepo.Create(ctx, &entity.RefreshToken{
		UserID:     testutil.User1.ID,
		Family:     crypto.SHA256([]byte(refreshTokenObj.Family)),
		Counter:    0,
		Expiration: time.Now().Add(time.Minute),
	})
	require.NoError(t, err)

	refreshToken, err := domain.refreshEngine.Generate(testutil.User1.ID, refreshTokenObj)
	require.NoError(t, err)

	// Successfully for the first refresh.
	resp, err := domain.Refresh(ctx, &model.RefreshTokenRequest{RefreshToken: refreshToken})
	require.NoError(t, err)

	accessToken, err := xcontext.TokenEngine(ctx).Verify(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, accessToken.ID)

	// Detect stolen for the second refresh, the whole family is revoked
	// after this call.
	_, err = domain.Refresh(ctx, &model.RefreshTokenRequest{RefreshToken: refreshToken})
	require.Error(t, err)
	require.Equal(t, "Your refresh token will be revoked because it is detected as stolen", err.Error())

	// Not found refresh token for the third refresh.
	_, err = domain.Refresh(ctx, &model.RefreshTokenRequest{RefreshToken: refreshToken})
	require.Error(t, err)
	require.Equal(t, "Your refresh token was revoked", err.Error())
}

func Test_authDomain_OAuth2Verify(t *testing.T) {
	ctx := testutil.MockContext()

	service := &testutil.MockOAuth2Service{Name: "google"}
	service.VerifyIDTokenFunc = func(_ context.Context, rawIDToken string) (authenticator.OAuth2User, error) {
		return authenticator.OAuth2User{
			ID:    "google_service_user_id",
			Name:  "dana",
			Email: "dana@example.com",
		}, nil
	}

	domain := NewAuthDomain(
		ctx,
		repository.NewUserRepository(nil),
		repository.NewRefreshTokenRepository(),
		repository.NewOAuth2Repository(),
		[]authenticator.IOAuth2Service{service},
	)

	_, err := domain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{
		Type: "unknown", IDToken: "foo",
	})
	require.Error(t, err)

	resp, err := domain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{
		Type: "google", IDToken: "foo",
	})
	require.NoError(t, err)
	require.Equal(t, "dana", resp.User.Name)

	// A second verify logs into the same account.
	again, err := domain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{
		Type: "google", IDToken: "foo",
	})
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, again.User.ID)
}

func Test_authDomain_OAuth2Verify_duplicateServiceUserID(t *testing.T) {
	ctx := testutil.MockContext()

	service := &testutil.MockOAuth2Service{Name: "google"}
	service.VerifyIDTokenFunc = func(_ context.Context, rawIDToken string) (authenticator.OAuth2User, error) {
		return authenticator.OAuth2User{ID: "duplicated_service_user_id"}, nil
	}

	oauth2Repo := repository.NewOAuth2Repository()
	domain := NewAuthDomain(
		ctx,
		repository.NewUserRepository(nil),
		repository.NewRefreshTokenRepository(),
		oauth2Repo,
		[]authenticator.IOAuth2Service{service},
	)

	// This record collides with the service user id returned by the mock,
	// but belongs to a user that does not exist in this fresh db.
	err := oauth2Repo.Create(ctx, &entity.OAuth2{
		UserID:        "user-id",
		Service:       "google",
		ServiceUserID: "duplicated_service_user_id",
	})
	require.NoError(t, err)

	_, err = domain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{
		Type: "google", IDToken: "foo",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)

	// The user record created before the oauth2 insert failed must be
	// rolled back.
	var user entity.User
	err = xcontext.DB(ctx).First(&user).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_authDomain_WalletLoginAndVerify(t *testing.T) {
	ctx := testutil.MockContext()

	domain := NewAuthDomain(
		ctx,
		repository.NewUserRepository(nil),
		repository.NewRefreshTokenRepository(),
		repository.NewOAuth2Repository(),
		nil,
	)

	privateKey, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	address := ethcrypto.PubkeyToAddress(privateKey.PublicKey).Hex()

	_, err = domain.WalletLogin(ctx, &model.WalletLoginRequest{Address: "not-an-address"})
	require.Error(t, err)

	loginResp, err := domain.WalletLogin(ctx, &model.WalletLoginRequest{Address: address})
	require.NoError(t, err)
	require.Equal(t, address, loginResp.Address)
	require.NotEmpty(t, loginResp.Nonce)

	signature, err := ethcrypto.Sign(accounts.TextHash([]byte(loginResp.Nonce)), privateKey)
	require.NoError(t, err)
	signature[ethcrypto.RecoveryIDOffset] += 27

	verifyResp, err := domain.WalletVerify(ctx, &model.WalletVerifyRequest{
		Address:   address,
		Signature: hexutil.Encode(signature),
	})
	require.NoError(t, err)
	require.Equal(t, address, verifyResp.User.WalletAddress)
	require.NotEmpty(t, verifyResp.AccessToken)

	// The nonce is single use, so replaying the signature fails.
	_, err = domain.WalletVerify(ctx, &model.WalletVerifyRequest{
		Address:   address,
		Signature: hexutil.Encode(signature),
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)
}
