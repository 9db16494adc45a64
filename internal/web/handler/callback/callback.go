package callback

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/eventdeck/eventdeck/internal/config"
	"github.com/eventdeck/eventdeck/internal/identity"
	"github.com/eventdeck/eventdeck/internal/session"
	"github.com/eventdeck/eventdeck/internal/uniuri"
	"github.com/eventdeck/eventdeck/internal/web/handler"
	"github.com/eventdeck/eventdeck/internal/web/handler/login"
)

const (
	// LoginPath initiates the OIDC redirect flow.
	LoginPath = handler.RootPath + "auth/login"

	// Path is the callback route the identity provider redirects back to.
	Path = handler.RootPath + "auth/callback"

	stateTokenLen = 32
	stateTTL      = 5 * time.Minute

	// decisionTimeout bounds how long the callback request waits for the
	// session store to settle before falling back to the processing page.
	decisionTimeout = 10 * time.Second
)

// Service is the OAuth callback handler service.
type Service struct {
	cfg     *config.Config
	manager *session.Manager
	oidc    *identity.Client

	stateMu    sync.Mutex
	stateStore map[string]time.Time
}

// Handler is the callback handler.
var Handler = Service{
	stateStore: make(map[string]time.Time),
}

// Init initializes the callback handler and registers its routes. When OIDC
// is disabled the routes are not registered and the console runs with local
// login only.
func (s *Service) Init(app *fiber.App, cfg *config.Config, manager *session.Manager, oidc *identity.Client) {
	if app == nil || cfg == nil || manager == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.manager = manager
	s.oidc = oidc

	if oidc == nil {
		log.Info().Msg("OIDC disabled, callback routes not registered")
		return
	}

	app.Get(LoginPath, s.Login)
	app.Get(Path, s.Callback)

	go s.cleanupStates()
}

// Login starts the redirect flow: it issues a CSRF state token and sends the
// browser to the identity provider.
func (s *Service) Login(c *fiber.Ctx) error {
	state := uniuri.NewLen(stateTokenLen)

	s.stateMu.Lock()
	s.stateStore[state] = time.Now().Add(stateTTL)
	s.stateMu.Unlock()

	return c.Redirect(s.oidc.AuthURL(state))
}

// Callback completes the redirect flow. The credential obtained from the
// code exchange is persisted for the session, the store refreshes from it,
// and the browser is redirected only once the store reports initialized.
func (s *Service) Callback(c *fiber.Ctx) error {
	sessionID := c.Cookies(handler.SessionCookie)

	// A reload of the processing page resumes an exchange already under way.
	if c.Query("code") == "" {
		if sessionID == "" {
			return c.Redirect(login.Path)
		}

		return s.decide(c, sessionID)
	}

	if !s.consumeState(c.Query("state")) {
		log.Error().Msg("invalid or expired state token in OAuth callback")
		return c.Redirect(login.Path)
	}

	user, cred, err := s.oidc.Exchange(c.UserContext(), c.Query("code"))
	if err != nil {
		log.Error().Err(err).Msg("OIDC code exchange failed")
		return c.Redirect(login.Path)
	}

	sessionID, err = session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return c.Redirect(login.Path)
	}

	if err = s.manager.SaveCredential(sessionID, cred); err != nil {
		log.Error().Err(err).Msg("failed to persist credential")
		return c.Redirect(login.Path)
	}

	s.setSessionCookie(c, sessionID)

	log.Info().Str("subject", user.ID).Msg("OIDC exchange completed")

	return s.decide(c, sessionID)
}

// decide waits for the session store to settle and redirects accordingly.
// The store refreshes on a background context: tearing down this request
// must not stop the shared store from completing its transition.
func (s *Service) decide(c *fiber.Ctx, sessionID string) error {
	st := s.manager.Store(sessionID)

	snapshots, cancel := st.Watch()
	defer cancel()

	if snap := st.Snapshot(); !snap.Initialized && !snap.Loading {
		go func() {
			if err := st.Refresh(context.Background()); err != nil {
				log.Warn().Err(err).Msg("session refresh after callback failed")
			}
		}()
	}

	flow := NewFlow()
	timer := time.NewTimer(decisionTimeout)

	defer timer.Stop()

	for {
		select {
		case snap := <-snapshots:
			switch flow.Observe(snap) {
			case StateRedirectHome:
				return c.Redirect(handler.RootPath)
			case StateRedirectLogin:
				return c.Redirect(login.Path)
			case StateWaiting:
			}
		case <-timer.C:
			// Still resolving; show the processing page, which reloads
			// this route without a code and picks the flow back up.
			return c.Status(fiber.StatusAccepted).Render("processing", fiber.Map{
				"Title":   "Completing sign-in",
				"Refresh": Path,
			})
		}
	}
}

func (s *Service) consumeState(state string) bool {
	if state == "" {
		return false
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	expiry, ok := s.stateStore[state]
	if !ok {
		return false
	}

	delete(s.stateStore, state)

	return time.Now().Before(expiry)
}

func (s *Service) setSessionCookie(c *fiber.Ctx, sessionID string) {
	cookie := &fiber.Cookie{
		Name:     handler.SessionCookie,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookie.Secure = false
	}

	c.Cookie(cookie)
}

// cleanupStates periodically removes expired state tokens.
func (s *Service) cleanupStates() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		s.stateMu.Lock()
		for state, expiry := range s.stateStore {
			if now.After(expiry) {
				delete(s.stateStore, state)
			}
		}
		s.stateMu.Unlock()
	}
}
