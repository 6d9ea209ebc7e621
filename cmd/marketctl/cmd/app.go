package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/safaltravel/marketctl/api"
	"github.com/safaltravel/marketctl/guard"
	"github.com/safaltravel/marketctl/internal/config"
	"github.com/safaltravel/marketctl/session"
	"github.com/safaltravel/marketctl/store"
	"github.com/safaltravel/marketctl/store/bboltstore"
	"github.com/safaltravel/marketctl/store/memstore"
	"github.com/safaltravel/marketctl/token"
	"github.com/safaltravel/marketctl/users"
)

// refreshAhead is how close to expiry the access token may get before the
// app refreshes it ahead of a command, when the token carries an expiry.
const refreshAhead = time.Minute

// app wires the store, session manager and API client for one command run.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	store   store.Repo
	session *session.Manager
	client  *api.Client
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.New()
	log := newLogger()

	baseURL := flagAPIURL
	if baseURL == "" {
		baseURL = cfg.GetAPIBaseURL()
	}

	repo, err := openStore(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] open store")
	}

	timeout, err := time.ParseDuration(cfg.GetHTTPTimeout())
	if err != nil {
		timeout = 30 * time.Second
	}

	mgr, err := session.NewManager(repo,
		api.NewRefreshFunc(baseURL, api.WithTimeout(timeout)),
		session.WithLogger(log),
	)
	if err != nil {
		repo.Close()
		return nil, errors.Wrap(err, "[newApp] session manager")
	}

	client, err := api.NewClient(baseURL, mgr, api.WithLogger(log), api.WithTimeout(timeout))
	if err != nil {
		repo.Close()
		return nil, errors.Wrap(err, "[newApp] api client")
	}

	a := &app{cfg: cfg, log: log, store: repo, session: mgr, client: client}

	if err := a.session.Restore(ctx); err != nil {
		a.Close()
		return nil, errors.Wrap(err, "[newApp] restore session")
	}

	// Refresh ahead of the command when the token is about to lapse; a
	// failure here is not fatal, the interceptor still recovers on 401.
	if tok := a.session.AccessToken(); tok != "" && token.ExpiresWithin(tok, refreshAhead) {
		if err := a.session.Refresh(ctx); err != nil {
			a.log.Debug().Err(err).Msg("pre-emptive refresh failed")
		}
	}

	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("closing store")
	}
}

// requireRoles evaluates the route guard for the current session and
// returns a displayable error when access is denied.
func (a *app) requireRoles(roles ...users.Role) error {
	decision := guard.Evaluate(a.session.Snapshot(), roles...)
	switch decision.Outcome {
	case guard.Allow:
		return nil
	case guard.Redirect:
		if decision.Target == guard.RouteLogin {
			return errors.New("not logged in, run 'marketctl login' first")
		}
		return errors.Errorf("your role does not allow this command (see %s)", decision.Target)
	default:
		return errors.New("session still loading")
	}
}

func openStore(cfg config.Config) (store.Repo, error) {
	if flagEphemeral {
		return memstore.New(), nil
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = cfg.GetDataFolder()
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dataDir)
	}
	return bboltstore.NewFromFile(filepath.Join(dataDir, "session.db"), nil)
}
