package cmd

import (
	"fmt"

	"github.com/lance13c/formpilot/internal/browser"
	"github.com/lance13c/formpilot/internal/logging"
	"github.com/lance13c/formpilot/internal/profile"
)

// session bundles the pieces every page-driving command needs: a running
// Chrome, its page, and the profile snapshot store.
type session struct {
	browser *browser.Manager
	page    *browser.Page
	store   *profile.Store
}

// openSession launches Chrome, navigates to url, and loads the profile.
// A missing or unreadable profile is not fatal; matching then simply
// produces no candidates.
func openSession(url string) (*session, error) {
	if pilotConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}

	mgr, err := browser.NewManager(pilotConfig.Browser)
	if err != nil {
		return nil, err
	}
	if err := mgr.Navigate(url); err != nil {
		mgr.Close()
		return nil, err
	}

	store, err := profile.NewStore(pilotConfig.Profile.Path)
	if err != nil {
		logging.Warn("profile: %v (matching disabled)", err)
		fmt.Println(warnStyle.Render(fmt.Sprintf("No usable profile at %s; matching disabled.", pilotConfig.Profile.Path)))
		store = nil
	}

	return &session{browser: mgr, page: mgr.Page(), store: store}, nil
}

func (s *session) profileFields() []profile.Field {
	if s.store == nil {
		return nil
	}
	return s.store.Fields()
}

func (s *session) close() {
	if s.store != nil {
		s.store.Close()
	}
	s.browser.Close()
}
