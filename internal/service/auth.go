package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/placarapp/placar-server/internal/auth"
	"github.com/placarapp/placar-server/internal/domain"
	domainerrors "github.com/placarapp/placar-server/internal/errors"
	"github.com/placarapp/placar-server/internal/i18n"
	"github.com/placarapp/placar-server/internal/store"
	"github.com/placarapp/placar-server/internal/validation"
)

// AuthService signs players up and in. Failure messages are the identity
// provider's English strings from the i18n package; transports localize them.
type AuthService struct {
	store          store.Store
	tokenService   *auth.TokenService
	sessionService *SessionService
	validator      *validation.Validator
	logger         *slog.Logger
	now            func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:          store,
		tokenService:   tokenService,
		sessionService: sessionService,
		validator:      validator,
		logger:         logger,
		now:            time.Now,
	}
}

// Credentials is an email and password pair.
type Credentials struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// SignUp creates an account and signs it in.
func (s *AuthService) SignUp(ctx context.Context, creds Credentials, client auth.ClientInfo) (*AuthResponse, error) {
	creds.Email = domain.NormalizeEmail(creds.Email)
	if err := s.checkCredentials(creds); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) || errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, domainerrors.Validation(i18n.MsgWeakPassword)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "hash password")
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        creds.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoginAt:  now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists(i18n.MsgUserExists)
		}
		return nil, domainerrors.StoreUnavailable(err, "failed to create user")
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, client)
	if err != nil {
		// Drop the account so the same email can sign up again.
		if delErr := s.store.DeleteUser(context.WithoutCancel(ctx), user.ID); delErr != nil {
			s.logger.Error("failed to roll back sign up", "user_id", user.ID, "error", delErr)
		}
		return nil, err
	}

	s.logger.Info("user signed up", "user_id", user.ID)

	return &AuthResponse{User: user, SessionResponse: *sessionResp}, nil
}

// SignIn checks credentials and opens a new session.
func (s *AuthService) SignIn(ctx context.Context, creds Credentials, client auth.ClientInfo) (*AuthResponse, error) {
	email := domain.NormalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, domainerrors.InvalidCredentials(i18n.MsgInvalidCredentials)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Don't leak whether the email exists.
			return nil, domainerrors.InvalidCredentials(i18n.MsgInvalidCredentials)
		}
		return nil, domainerrors.StoreUnavailable(err, "failed to look up user")
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, creds.Password)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "verify password")
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials(i18n.MsgInvalidCredentials)
	}

	now := s.now()
	if err := s.store.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to update last login time", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = now
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, client)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed in", "user_id", user.ID)

	return &AuthResponse{User: user, SessionResponse: *sessionResp}, nil
}

// Refresh rotates tokens using a refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, client auth.ClientInfo) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, domainerrors.Validation("refresh_token is required")
	}

	sessionResp, user, err := s.sessionService.RefreshSession(ctx, refreshToken, client)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user, SessionResponse: *sessionResp}, nil
}

// SignOut revokes a session. Access tokens bound to it stop verifying.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domainerrors.Unauthenticated("user not authenticated")
	}
	return s.sessionService.DeleteSession(ctx, sessionID)
}

// CurrentUser returns the signed-in user's account.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domainerrors.Unauthenticated("user not authenticated")
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, domainerrors.StoreUnavailable(err, "failed to load user")
	}
	return user, nil
}

// VerifyAccessToken validates a token and checks its session is still live.
// Used by authentication middleware.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token").WithCause(err)
	}

	live, err := s.sessionService.SessionExists(ctx, claims.SessionID, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, domainerrors.Unauthorized("session has been signed out")
	}

	return claims, nil
}

// checkCredentials maps validation failures onto the provider's messages.
func (s *AuthService) checkCredentials(creds Credentials) error {
	err := s.validator.Validate(creds)
	if err == nil {
		return nil
	}

	var verr *domainerrors.Error
	if !errors.As(err, &verr) {
		return err
	}
	details, _ := verr.Details.(map[string]string)
	if _, bad := details["email"]; bad {
		return domainerrors.Validation(i18n.MsgInvalidEmail).WithDetails(details)
	}
	return domainerrors.Validation(i18n.MsgWeakPassword).WithDetails(details)
}
