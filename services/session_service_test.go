package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-delivery-client/api"
	"food-delivery-client/models"
	"food-delivery-client/store"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

type sessionFixture struct {
	session *SessionService
	store   *store.MemoryStore

	profileRequests int32
	refreshRequests int32
	logoutRequests  int32
	profileStatus   int32 // http status the profile endpoint returns
}

func newSessionFixture(t *testing.T, accessToken, refreshToken string) *sessionFixture {
	t.Helper()
	f := &sessionFixture{store: store.NewMemoryStore()}
	atomic.StoreInt32(&f.profileStatus, http.StatusOK)

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "correct" {
			envelopeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		envelope(w, models.LoginResponse{AccessToken: accessToken, RefreshToken: refreshToken})
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.refreshRequests, 1)
		var req models.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.RefreshToken != refreshToken {
			envelopeError(w, http.StatusUnauthorized, "refresh token rejected")
			return
		}
		envelope(w, models.LoginResponse{AccessToken: accessToken, RefreshToken: refreshToken})
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.logoutRequests, 1)
		envelope(w, nil)
	})
	mux.HandleFunc("/users/profile", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.profileRequests, 1)
		status := atomic.LoadInt32(&f.profileStatus)
		if status != http.StatusOK {
			envelopeError(w, int(status), "unauthorized")
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+accessToken {
			envelopeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		envelope(w, models.User{ID: "user-1", Email: "an@example.com", FullName: "An Nguyen"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := api.NewClient(api.ClientConfig{BaseURL: server.URL})
	f.session = NewSessionService(client, f.store)
	return f
}

func (f *sessionFixture) storedToken(t *testing.T, key string) (string, bool) {
	t.Helper()
	value, err := f.store.Get(context.Background(), key)
	if errors.Is(err, store.ErrNotFound) {
		return "", false
	}
	require.NoError(t, err)
	return value, true
}

func TestLoginPersistsTokensAndLoadsProfile(t *testing.T) {
	access := signedToken(t, time.Now().Add(time.Hour))
	f := newSessionFixture(t, access, "rt-1")

	user, err := f.session.Login(context.Background(), "an@example.com", "correct")
	require.NoError(t, err)
	assert.Equal(t, "An Nguyen", user.FullName)
	assert.True(t, f.session.IsAuthenticated())

	stored, ok := f.storedToken(t, store.KeyAccessToken)
	require.True(t, ok)
	assert.Equal(t, access, stored)
	stored, ok = f.storedToken(t, store.KeyRefreshToken)
	require.True(t, ok)
	assert.Equal(t, "rt-1", stored)
}

func TestLoginFailureKeepsPreviousSession(t *testing.T) {
	access := signedToken(t, time.Now().Add(time.Hour))
	f := newSessionFixture(t, access, "rt-1")

	_, err := f.session.Login(context.Background(), "an@example.com", "wrong")
	require.Error(t, err)
	assert.False(t, f.session.IsAuthenticated())

	_, ok := f.storedToken(t, store.KeyAccessToken)
	assert.False(t, ok, "a failed login must not persist tokens")
}

func TestBootstrapWithoutPersistedSession(t *testing.T) {
	f := newSessionFixture(t, signedToken(t, time.Now().Add(time.Hour)), "rt-1")

	user, err := f.session.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Zero(t, atomic.LoadInt32(&f.profileRequests), "no network calls without a persisted session")
}

func TestBootstrapRefreshesExpiredAccessToken(t *testing.T) {
	fresh := signedToken(t, time.Now().Add(time.Hour))
	f := newSessionFixture(t, fresh, "rt-1")

	expired := signedToken(t, time.Now().Add(-time.Hour))
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, store.KeyAccessToken, expired, 0))
	require.NoError(t, f.store.Set(ctx, store.KeyRefreshToken, "rt-1", 0))

	user, err := f.session.Bootstrap(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.refreshRequests), "expired token must be refreshed up front")
	assert.Equal(t, fresh, f.session.AccessToken())
}

func TestAuthenticatedRequestRefreshesAtMostOnce(t *testing.T) {
	access := signedToken(t, time.Now().Add(time.Hour))
	f := newSessionFixture(t, access, "rt-1")

	_, err := f.session.Login(context.Background(), "an@example.com", "correct")
	require.NoError(t, err)

	// The server now rejects every profile request: refresh succeeds but the
	// replay still comes back 401, which must tear the session down.
	before := atomic.LoadInt32(&f.profileRequests)
	atomic.StoreInt32(&f.profileStatus, http.StatusUnauthorized)

	user, err := f.session.Bootstrap(context.Background())
	require.Error(t, err)
	assert.Nil(t, user)

	assert.Equal(t, int32(1), atomic.LoadInt32(&f.refreshRequests), "exactly one refresh attempt")
	assert.Equal(t, before+2, atomic.LoadInt32(&f.profileRequests), "original request plus one replay")
	assert.False(t, f.session.IsAuthenticated())
	_, ok := f.storedToken(t, store.KeyAccessToken)
	assert.False(t, ok, "persisted tokens must be cleared")
	_, ok = f.storedToken(t, store.KeyRefreshToken)
	assert.False(t, ok)
}

func TestReauthorizeWithoutRefreshToken(t *testing.T) {
	f := newSessionFixture(t, signedToken(t, time.Now().Add(time.Hour)), "rt-1")

	_, err := f.session.Reauthorize(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestLogoutTearsDownSession(t *testing.T) {
	access := signedToken(t, time.Now().Add(time.Hour))
	f := newSessionFixture(t, access, "rt-1")

	_, err := f.session.Login(context.Background(), "an@example.com", "correct")
	require.NoError(t, err)

	f.session.Logout(context.Background())

	assert.Equal(t, int32(1), atomic.LoadInt32(&f.logoutRequests))
	assert.False(t, f.session.IsAuthenticated())
	assert.Nil(t, f.session.CurrentUser())
	_, ok := f.storedToken(t, store.KeyAccessToken)
	assert.False(t, ok)
}
