package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	apperrors "github.com/safaltravel/marketctl/internal/errors"
	"github.com/safaltravel/marketctl/store"
	"github.com/safaltravel/marketctl/users"
)

// RefreshFunc exchanges the held refresh token for a new credential pair.
// Implemented by the API client against POST /api/auth/refresh-token.
type RefreshFunc func(ctx context.Context, refreshToken string) (*TokenPair, error)

// Manager is the single source of truth for the authenticated session and
// the only writer of the store's auth keys. The three credential fields
// (user, access token, refresh token) are always set and cleared together.
type Manager struct {
	store     store.Repo
	refreshFn RefreshFunc
	log       zerolog.Logger
	nowTime   func() time.Time

	lock         sync.RWMutex
	user         *users.User
	accessToken  string
	refreshToken string
	loading      bool
	refreshedAt  time.Time

	// refreshLock serializes refresh exchanges so that concurrent 401s
	// collapse into a single network call.
	refreshLock sync.Mutex
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithLogger sets the logger used for lifecycle transitions.
func WithLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// NewManager initialises a Manager over the given store. The session starts
// empty with loading=true; call Restore once at startup.
func NewManager(repo store.Repo, refreshFn RefreshFunc, options ...ManagerOption) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("[NewManager] store repo is required")
	}
	if refreshFn == nil {
		return nil, errors.New("[NewManager] refresh func is required")
	}

	m := &Manager{
		store:     repo,
		refreshFn: refreshFn,
		log:       zerolog.Nop(),
		nowTime:   time.Now,
		loading:   true,
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// Snapshot returns the current user and loading flag.
func (m *Manager) Snapshot() Snapshot {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return Snapshot{User: m.user, Loading: m.loading}
}

// AccessToken returns the held access token, or "" when logged out.
func (m *Manager) AccessToken() string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.accessToken
}

// LastRefreshedAt returns when the access token was last replaced by a
// refresh exchange, or the zero time if it never was.
func (m *Manager) LastRefreshedAt() time.Time {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.refreshedAt
}

// Restore loads the session from the persisted store. The session is
// populated only when all three keys are present and the user record parses;
// any other state is treated as corrupt, the keys are removed, and the
// session stays empty. Corruption is never surfaced as an error. Loading
// becomes false on every path and Restore never runs twice.
func (m *Manager) Restore(ctx context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if !m.loading {
		return nil
	}
	defer func() { m.loading = false }()

	accessToken, accessErr := m.store.Get(store.KeyAccessToken)
	refreshToken, refreshErr := m.store.Get(store.KeyRefreshToken)
	rawUser, userErr := m.store.Get(store.KeyUser)

	if accessErr != nil && refreshErr != nil && userErr != nil {
		m.log.Debug().Msg("no persisted session")
		return nil
	}

	var user users.User
	if accessErr == nil && refreshErr == nil && userErr == nil {
		if err := json.Unmarshal([]byte(rawUser), &user); err == nil && user.ID != "" {
			m.user = &user
			m.accessToken = accessToken
			m.refreshToken = refreshToken
			m.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("session restored")
			return nil
		}
	}

	// Partial or unparsable state: degrade silently to logged out.
	m.clearStoreKeys()
	m.log.Warn().Msg("discarded corrupt persisted session")
	return nil
}

// Login replaces the whole session and persists it. The payload is trusted
// as-is; validating the backend response is the caller's concern.
func (m *Manager) Login(ctx context.Context, accessToken, refreshToken string, user *users.User) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	rawUser, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "[Manager.Login] marshal user")
	}

	m.user = user
	m.accessToken = accessToken
	m.refreshToken = refreshToken

	if err := m.persistTokens(accessToken, refreshToken); err != nil {
		return errors.Wrap(err, "[Manager.Login] persist tokens")
	}
	if err := m.store.Set(store.KeyUser, string(rawUser)); err != nil {
		return errors.Wrap(err, "[Manager.Login] persist user")
	}

	m.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("logged in")
	return nil
}

// Logout clears the session and removes the persisted keys. Calling it with
// no active session is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.user == nil && m.accessToken == "" && m.refreshToken == "" {
		return nil
	}

	m.user = nil
	m.accessToken = ""
	m.refreshToken = ""
	m.clearStoreKeys()

	m.log.Info().Msg("logged out")
	return nil
}

// Refresh exchanges the held refresh token for new credentials. With no
// refresh token it fails immediately with ErrNoRefreshToken. On failure
// nothing is mutated and no logout happens; the caller decides.
func (m *Manager) Refresh(ctx context.Context) error {
	return m.RefreshFor(ctx, m.AccessToken())
}

// RefreshFor performs one refresh exchange on behalf of a caller whose
// request failed while carrying staleToken. Attempts are serialized; a
// caller that waited out another caller's successful refresh adopts that
// outcome instead of issuing a second exchange.
func (m *Manager) RefreshFor(ctx context.Context, staleToken string) error {
	m.refreshLock.Lock()
	defer m.refreshLock.Unlock()

	m.lock.RLock()
	current := m.accessToken
	refreshToken := m.refreshToken
	m.lock.RUnlock()

	if current != "" && current != staleToken {
		return nil // already refreshed by a concurrent caller
	}
	if refreshToken == "" {
		return apperrors.ErrNoRefreshToken
	}

	pair, err := m.refreshFn(ctx, refreshToken)
	if err != nil {
		m.log.Warn().Err(err).Msg("token refresh failed")
		return errors.Wrap(err, "[Manager.Refresh] exchange")
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.accessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		m.refreshToken = pair.RefreshToken
	}
	m.refreshedAt = m.nowTime()

	if err := m.persistTokens(m.accessToken, m.refreshToken); err != nil {
		return errors.Wrap(err, "[Manager.Refresh] persist tokens")
	}

	m.log.Info().Msg("access token refreshed")
	return nil
}

// persistTokens writes both token keys. Callers must hold m.lock.
func (m *Manager) persistTokens(accessToken, refreshToken string) error {
	if err := m.store.Set(store.KeyAccessToken, accessToken); err != nil {
		return err
	}
	return m.store.Set(store.KeyRefreshToken, refreshToken)
}

// clearStoreKeys removes the three auth keys, ignoring store errors: the
// worst outcome of a failed delete is a corrupt-state cleanup on the next
// Restore. Callers must hold m.lock.
func (m *Manager) clearStoreKeys() {
	_ = m.store.Delete(store.KeyAccessToken)
	_ = m.store.Delete(store.KeyRefreshToken)
	_ = m.store.Delete(store.KeyUser)
}
