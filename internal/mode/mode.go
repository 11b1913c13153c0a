// Package mode defines the mode identifiers, shared services, and messages
// the session models exchange with the orchestrator.
package mode

import (
	"github.com/zjrosen/glimpse/internal/config"
	"github.com/zjrosen/glimpse/internal/scheme"
)

// AppMode identifies the active session.
type AppMode int

const (
	ModePager AppMode = iota
	ModeBrowser
)

func (m AppMode) String() string {
	if m == ModeBrowser {
		return "browser"
	}
	return "pager"
}

// Services contains shared dependencies injected into session models.
type Services struct {
	Config     *config.Config
	ConfigPath string
	WorkDir    string
}

// SchemeChangedMsg is emitted by whichever session decodes a terminal
// theme notification from its input. The orchestrator owns the response:
// it re-resolves the theme and rebuilds the active session.
type SchemeChangedMsg struct {
	Scheme scheme.Scheme
}
