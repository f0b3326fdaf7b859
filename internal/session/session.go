// Package session owns the authentication state: the bearer token and the
// resolved user. The two are always set and cleared together; the only
// transient exception is the loading window between startup and the first
// "who am I" check.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ceylonhub/storefront/internal/api"
	apperrors "github.com/ceylonhub/storefront/internal/errors"
	"github.com/ceylonhub/storefront/internal/models"
	"github.com/ceylonhub/storefront/internal/store"
	"github.com/ceylonhub/storefront/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

type Status int

const (
	// StatusLoading means a persisted token exists but has not been
	// verified yet. Consumers must treat it as distinct from anonymous.
	StatusLoading Status = iota
	StatusAnonymous
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

type Manager struct {
	store    store.Store
	logger   *slog.Logger
	validate *validator.Validate

	mu     sync.Mutex
	client *api.Client
	token  string
	user   *models.User
	status Status
}

func NewManager(st store.Store, logger *slog.Logger) *Manager {

	m := &Manager{
		store:    st,
		logger:   logger,
		validate: validator.New(),
		status:   StatusAnonymous,
	}

	if token, ok := st.Get(store.TokenKey); ok && token != "" {
		m.token = token
		m.status = StatusLoading
	}

	return m
}

// Bind wires the API client after construction. The client needs the manager
// as its token source, so the two cannot be built in one step.
func (m *Manager) Bind(client *api.Client) {
	m.mu.Lock()
	m.client = client
	m.mu.Unlock()

	client.SetUnauthorizedHandler(m.Invalidate)
}

// Token implements api.TokenSource.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.token
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.status
}

func (m *Manager) CurrentUser() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return nil
	}

	user := *m.user

	return &user
}

// Bootstrap resolves a persisted token into a user. Any failure clears both
// token and user; this is the one path that silently downgrades an
// authenticated session to anonymous.
func (m *Manager) Bootstrap(ctx context.Context) {

	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token == "" {
		m.mu.Lock()
		m.status = StatusAnonymous
		m.mu.Unlock()

		return
	}

	// Skip the round-trip when the token is visibly past its expiry.
	if expired(token) {
		m.logger.Warn("Persisted token has expired, clearing session")
		m.clear()

		return
	}

	var resp struct {
		User models.User `json:"user"`
	}

	if err := m.client.Get(ctx, "/auth/me", &resp); err != nil {
		m.logger.Warn("Session verification failed, clearing session", slog.String("error", err.Error()))
		m.clear()

		return
	}

	m.mu.Lock()
	m.user = &resp.User
	m.status = StatusAuthenticated
	m.mu.Unlock()
}

// Login authenticates with an email or phone plus password. On failure the
// prior session state is left untouched.
func (m *Manager) Login(ctx context.Context, emailOrPhone, password string) (*models.User, error) {

	req := models.LoginRequest{EmailOrPhone: emailOrPhone, Password: password}

	if err := m.validate.Struct(req); err != nil {
		return nil, apperrors.ValidationError("Email/phone and password are required").WithDetail(utils.ValidationMessage(err))
	}

	var resp models.AuthResponse

	if err := m.client.Post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}

	m.establish(resp.Token, resp.User)
	m.logger.Info("Logged in", slog.String("user", resp.User.Email))

	return m.CurrentUser(), nil
}

// Register creates a new account; same success/failure contract as Login.
func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {

	if err := m.validate.Struct(req); err != nil {
		return nil, apperrors.ValidationError("Invalid registration details").WithDetail(utils.ValidationMessage(err))
	}

	var resp models.AuthResponse

	if err := m.client.Post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}

	m.establish(resp.Token, resp.User)
	m.logger.Info("Registered", slog.String("user", resp.User.Email))

	return m.CurrentUser(), nil
}

// Logout clears the session and the persisted token. It cannot fail.
func (m *Manager) Logout() {
	m.logger.Info("Logged out")
	m.clear()
}

// UpdateProfile submits partial changes; on success the returned user
// replaces the current one, on failure nothing changes.
func (m *Manager) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {

	if m.Status() != StatusAuthenticated {
		return nil, apperrors.UnauthorizedError("You must be logged in to update your profile")
	}

	var resp struct {
		User models.User `json:"user"`
	}

	if err := m.client.Put(ctx, "/auth/profile", req, &resp); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.user = &resp.User
	m.mu.Unlock()

	return m.CurrentUser(), nil
}

// Invalidate is the 401 hook: the backend rejected the token, so the session
// is torn down exactly as Logout would.
func (m *Manager) Invalidate() {

	m.mu.Lock()
	hadToken := m.token != ""
	m.mu.Unlock()

	if !hadToken {
		return
	}

	m.logger.Warn("Session expired, signing out")
	m.clear()
}

func (m *Manager) establish(token string, user models.User) {

	// Persist first so the stored and in-memory values cannot diverge on
	// success; a write failure downgrades to a one-process session.
	if err := m.store.Set(store.TokenKey, token); err != nil {
		m.logger.Warn("Token not persisted, session will not survive restart", slog.String("error", err.Error()))
	}

	m.mu.Lock()
	m.token = token
	m.user = &user
	m.status = StatusAuthenticated
	m.mu.Unlock()
}

func (m *Manager) clear() {

	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.status = StatusAnonymous
	m.mu.Unlock()

	if err := m.store.Remove(store.TokenKey); err != nil {
		m.logger.Warn("Failed to remove persisted token", slog.String("error", err.Error()))
	}
}

// expired decodes the token without verifying it, just to read the expiry.
// Verification is the backend's job; a token that is not a JWT at all is
// passed through for the backend to judge.
func expired(raw string) bool {

	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(time.Now())
}
