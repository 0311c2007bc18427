package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"food-delivery-client/api"
	"food-delivery-client/models"
	"food-delivery-client/store"
	"food-delivery-client/utils"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// SessionService owns the access/refresh token pair and the signed-in user.
// It is the api.Authenticator for the shared client, so every authenticated
// request transparently gets the current bearer token and the single
// refresh-and-replay on 401.
type SessionService struct {
	mu           sync.Mutex
	api          *api.Client
	store        store.Store
	accessToken  string
	refreshToken string
	user         *models.User
}

func NewSessionService(client *api.Client, st store.Store) *SessionService {
	s := &SessionService{
		api:   client,
		store: st,
	}
	client.SetAuthenticator(s)
	return s
}

// Login exchanges credentials for a token pair and loads the user profile.
// Any previously held session survives a failed attempt.
func (s *SessionService) Login(ctx context.Context, email, password string) (*models.User, error) {
	var tokens models.LoginResponse
	err := s.api.PostPublic(ctx, "/auth/login", models.LoginRequest{Email: email, Password: password}, &tokens)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	s.mu.Lock()
	prevAccess, prevRefresh := s.accessToken, s.refreshToken
	s.accessToken, s.refreshToken = tokens.AccessToken, tokens.RefreshToken
	s.mu.Unlock()

	var user models.User
	if err := s.api.Get(ctx, "/users/profile", &user); err != nil {
		s.mu.Lock()
		s.accessToken, s.refreshToken = prevAccess, prevRefresh
		s.mu.Unlock()
		return nil, fmt.Errorf("login failed: %w", err)
	}

	s.persistTokens(ctx, tokens.AccessToken, tokens.RefreshToken)
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return &user, nil
}

// Refresh trades the stored refresh token for a new pair.
func (s *SessionService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	refreshToken := s.refreshToken
	s.mu.Unlock()
	if refreshToken == "" {
		return ErrNotAuthenticated
	}
	return s.refresh(ctx, refreshToken)
}

func (s *SessionService) refresh(ctx context.Context, refreshToken string) error {
	var tokens models.LoginResponse
	err := s.api.PostPublic(ctx, "/auth/refresh-token", models.RefreshRequest{RefreshToken: refreshToken}, &tokens)
	if err != nil {
		return fmt.Errorf("token refresh failed: %w", err)
	}

	s.mu.Lock()
	s.accessToken, s.refreshToken = tokens.AccessToken, tokens.RefreshToken
	s.mu.Unlock()
	s.persistTokens(ctx, tokens.AccessToken, tokens.RefreshToken)
	return nil
}

// Logout asks the server to invalidate the refresh token, then tears the
// session down regardless of what the server said.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	refreshToken := s.refreshToken
	s.mu.Unlock()

	if refreshToken != "" {
		err := s.api.PostPublic(ctx, "/auth/logout", models.RefreshRequest{RefreshToken: refreshToken}, nil)
		if err != nil {
			log.Printf("logout: server-side invalidation failed: %v", err)
		}
	}
	s.clearSession(ctx)
}

// Bootstrap restores a persisted session at process start: load tokens,
// refresh up front if the access token is already expired, then fetch the
// profile. A (nil, nil) return means no session was persisted.
func (s *SessionService) Bootstrap(ctx context.Context) (*models.User, error) {
	accessToken, err := s.loadToken(ctx, store.KeyAccessToken)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.loadToken(ctx, store.KeyRefreshToken)
	if err != nil {
		return nil, err
	}
	if accessToken == "" && refreshToken == "" {
		return nil, nil
	}

	s.mu.Lock()
	s.accessToken, s.refreshToken = accessToken, refreshToken
	s.mu.Unlock()

	if accessToken == "" || utils.TokenExpired(accessToken) {
		if _, err := s.Reauthorize(ctx); err != nil {
			return nil, fmt.Errorf("session restore failed: %w", err)
		}
	}

	var user models.User
	if err := s.api.Get(ctx, "/users/profile", &user); err != nil {
		s.clearSession(ctx)
		return nil, fmt.Errorf("session restore failed: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return &user, nil
}

// AccessToken implements api.Authenticator.
func (s *SessionService) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// Reauthorize implements api.Authenticator: exactly one refresh attempt. If
// it fails the session is torn down so the caller's original 401 propagates
// against a clean slate.
func (s *SessionService) Reauthorize(ctx context.Context) (string, error) {
	s.mu.Lock()
	refreshToken := s.refreshToken
	s.mu.Unlock()
	if refreshToken == "" {
		return "", ErrNotAuthenticated
	}
	if err := s.refresh(ctx, refreshToken); err != nil {
		s.clearSession(ctx)
		return "", err
	}
	return s.AccessToken(), nil
}

// Invalidate implements api.Authenticator: a replayed request was still
// unauthorized, so the session is torn down.
func (s *SessionService) Invalidate(ctx context.Context) {
	s.clearSession(ctx)
}

func (s *SessionService) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

func (s *SessionService) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken != ""
}

func (s *SessionService) loadToken(ctx context.Context, key string) (string, error) {
	value, err := s.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read persisted session: %w", err)
	}
	return value, nil
}

func (s *SessionService) persistTokens(ctx context.Context, accessToken, refreshToken string) {
	if err := s.store.Set(ctx, store.KeyAccessToken, accessToken, 0); err != nil {
		log.Printf("session: failed to persist access token: %v", err)
	}
	if err := s.store.Set(ctx, store.KeyRefreshToken, refreshToken, 0); err != nil {
		log.Printf("session: failed to persist refresh token: %v", err)
	}
}

func (s *SessionService) clearSession(ctx context.Context) {
	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Delete(ctx, store.KeyAccessToken); err != nil {
		log.Printf("session: failed to remove access token: %v", err)
	}
	if err := s.store.Delete(ctx, store.KeyRefreshToken); err != nil {
		log.Printf("session: failed to remove refresh token: %v", err)
	}
}
