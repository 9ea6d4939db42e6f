package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/supersaha/server/internal/model"
	"github.com/supersaha/server/internal/phone"
	"github.com/supersaha/server/internal/repo"
	"github.com/supersaha/server/internal/verify"
)

const refreshTokenExpiry = 30 * 24 * time.Hour

// ErrRefreshTokenReuseDetected is returned when a revoked refresh token is
// presented again; all sessions for the player are revoked in response.
var ErrRefreshTokenReuseDetected = errors.New("refresh token reuse detected")

// ErrCodeRejected is returned when the verification provider does not accept
// the code for an open verification request.
var ErrCodeRejected = errors.New("verification code rejected")

// AuthService orchestrates phone sign-in on top of the verification gateway.
// The provider owns the code lifecycle; this service only exchanges a
// successful check for a player account and session tokens.
type AuthService struct {
	gateway     verify.Gateway
	jwtService  *JWTService
	playerRepo  repo.PlayerRepo
	refreshRepo repo.RefreshRepo
}

// NewAuthService creates a new auth service
func NewAuthService(
	gateway verify.Gateway,
	jwtService *JWTService,
	playerRepo repo.PlayerRepo,
	refreshRepo repo.RefreshRepo,
) *AuthService {
	return &AuthService{
		gateway:     gateway,
		jwtService:  jwtService,
		playerRepo:  playerRepo,
		refreshRepo: refreshRepo,
	}
}

// VerifyCodeAndIssueTokens checks the code with the provider, gets or creates
// the player keyed by E.164 phone, and returns an access/refresh token pair.
func (s *AuthService) VerifyCodeAndIssueTokens(ctx context.Context, rawPhone, requestID, code string) (*model.Player, string, string, error) {
	res := s.gateway.Check(ctx, requestID, code)
	if !res.Success {
		return nil, "", "", fmt.Errorf("%w: %s", ErrCodeRejected, res.Error)
	}

	player, err := s.playerRepo.GetOrCreateByPhone(ctx, phone.NormalizeE164(rawPhone))
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to get or create player: %w", err)
	}

	accessToken, err := s.jwtService.SignAccessToken(player.ID, player.PhoneNumber)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, hashHex, err := GenerateRefreshToken()
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	if _, err := s.refreshRepo.Create(ctx, player.ID, hashHex, time.Now().Add(refreshTokenExpiry)); err != nil {
		return nil, "", "", fmt.Errorf("failed to create refresh session: %w", err)
	}

	return &player, accessToken, refreshToken, nil
}

// RefreshTokens rotates a refresh session: the presented token is revoked and
// replaced, and a fresh access token is issued. Presenting an already-revoked
// token is treated as theft and revokes every session for the player.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	hashHex := HashRefreshToken(refreshToken)

	session, err := s.refreshRepo.FindByTokenHash(ctx, hashHex)
	if err != nil {
		if prior, findErr := s.refreshRepo.FindByTokenHashIncludeRevoked(ctx, hashHex); findErr == nil && prior.RevokedAt != nil {
			_ = s.refreshRepo.RevokeAllForPlayer(ctx, prior.PlayerID)
			return "", "", ErrRefreshTokenReuseDetected
		}
		return "", "", fmt.Errorf("invalid or expired refresh token")
	}

	player, err := s.playerRepo.GetByID(ctx, session.PlayerID.String())
	if err != nil {
		return "", "", fmt.Errorf("failed to load player: %w", err)
	}

	newToken, newHash, err := GenerateRefreshToken()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	newID, err := s.refreshRepo.Create(ctx, session.PlayerID, newHash, time.Now().Add(refreshTokenExpiry))
	if err != nil {
		return "", "", fmt.Errorf("failed to create refresh session: %w", err)
	}
	if err := s.refreshRepo.RevokeAndSetReplacedBy(ctx, session.ID, newID); err != nil {
		return "", "", fmt.Errorf("failed to rotate refresh session: %w", err)
	}

	accessToken, err := s.jwtService.SignAccessToken(player.ID, player.PhoneNumber)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessToken, newToken, nil
}

// Logout revokes the refresh session for the presented token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	hashHex := HashRefreshToken(refreshToken)
	session, err := s.refreshRepo.FindByTokenHash(ctx, hashHex)
	if err != nil {
		return fmt.Errorf("invalid or expired refresh token")
	}
	if err := s.refreshRepo.Revoke(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
