package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/placarapp/placar-server/internal/auth"
	"github.com/placarapp/placar-server/internal/domain"
	domainerrors "github.com/placarapp/placar-server/internal/errors"
	"github.com/placarapp/placar-server/internal/id"
	"github.com/placarapp/placar-server/internal/store"
)

// SessionService manages refresh sessions: one per signed-in device.
type SessionService struct {
	store        store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
	now          func() time.Time
}

// NewSessionService creates a new session management service.
func NewSessionService(
	store store.Store,
	tokenService *auth.TokenService,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		store:        store,
		tokenService: tokenService,
		logger:       logger,
		now:          time.Now,
	}
}

// SessionResponse contains session tokens and metadata.
type SessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // Seconds until access token expires
	SessionID    string `json:"session_id"`
}

// CreateSession issues a token pair for user and stores the refresh session.
func (s *SessionService) CreateSession(
	ctx context.Context,
	user *domain.User,
	client auth.ClientInfo,
) (*SessionResponse, error) {
	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate session id")
	}

	refreshToken, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate refresh token")
	}

	now := s.now()
	session := &domain.Session{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		ExpiresAt:        now.Add(s.tokenService.RefreshTokenDuration()),
		CreatedAt:        now,
		LastSeenAt:       now,
		IPAddress:        client.IPAddress,
		UserAgent:        client.UserAgent,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, domainerrors.StoreUnavailable(err, "failed to save session")
	}

	return s.issue(user, session, refreshToken)
}

// RefreshSession rotates the token pair of the session holding refreshToken.
// The presented refresh token stops working once this returns.
func (s *SessionService) RefreshSession(
	ctx context.Context,
	refreshToken string,
	client auth.ClientInfo,
) (*SessionResponse, *domain.User, error) {
	session, err := s.store.GetSessionByRefreshTokenHash(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.TokenExpired("invalid or expired refresh token")
		}
		return nil, nil, domainerrors.StoreUnavailable(err, "failed to load session")
	}

	if session.ExpiredAt(s.now()) {
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, nil, domainerrors.TokenExpired("invalid or expired refresh token")
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// User is gone; the session is useless.
			_ = s.store.DeleteSession(ctx, session.ID)
			return nil, nil, domainerrors.TokenExpired("invalid or expired refresh token").WithCause(err)
		}
		return nil, nil, domainerrors.StoreUnavailable(err, "failed to load user")
	}

	newRefreshToken, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate refresh token")
	}

	session.RefreshTokenHash = auth.HashRefreshToken(newRefreshToken)
	session.Touch(s.now())
	if client.IPAddress != "" {
		session.IPAddress = client.IPAddress
	}
	if client.UserAgent != "" {
		session.UserAgent = client.UserAgent
	}

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, nil, domainerrors.StoreUnavailable(err, "failed to update session")
	}

	resp, err := s.issue(user, session, newRefreshToken)
	if err != nil {
		return nil, nil, err
	}
	return resp, user, nil
}

// DeleteSession ends a session. Deleting a session that is already gone succeeds.
func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return domainerrors.StoreUnavailable(err, "failed to delete session")
	}

	s.logger.Info("session deleted", "session_id", sessionID)
	return nil
}

// SessionExists reports whether sessionID is live and belongs to userID.
func (s *SessionService) SessionExists(ctx context.Context, sessionID, userID string) (bool, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, domainerrors.StoreUnavailable(err, "failed to load session")
	}
	return session.UserID == userID && !session.ExpiredAt(s.now()), nil
}

// DeleteExpiredSessions removes all expired sessions. Run periodically.
func (s *SessionService) DeleteExpiredSessions(ctx context.Context) (int, error) {
	count, err := s.store.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, domainerrors.StoreUnavailable(err, "failed to delete expired sessions")
	}

	if count > 0 {
		s.logger.Info("deleted expired sessions", "count", count)
	}
	return count, nil
}

func (s *SessionService) issue(user *domain.User, session *domain.Session, refreshToken string) (*SessionResponse, error) {
	accessToken, err := s.tokenService.GenerateAccessToken(user, session.ID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate access token")
	}

	return &SessionResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokenService.AccessTokenDuration().Seconds()),
		SessionID:    session.ID,
	}, nil
}
