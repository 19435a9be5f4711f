package config

import "time"

const (
	// DefaultProjectPath is the directory the application is started from
	DefaultProjectPath = "."
	// DefaultEntryScript is the Electron main script, relative to the project path
	DefaultEntryScript = "integration.js"
	// DefaultLaunchTimeout bounds the wait for the DevTools endpoint
	DefaultLaunchTimeout = 15 * time.Second
	// DefaultWaitTimeout bounds every wait-for-text
	DefaultWaitTimeout = 15 * time.Second
	// DefaultActionTimeout bounds a single client round trip
	DefaultActionTimeout = 15 * time.Second
	// DefaultPollAttempts is the number of pass counter reads per assertion
	DefaultPollAttempts = 250
	// DefaultPollInterval is the pause between two pass counter reads
	DefaultPollInterval = 100 * time.Millisecond
	// DefaultLogLevel is the diagnostic log level
	DefaultLogLevel = "warn"
	// DefaultEnvFile is loaded from the project path when present
	DefaultEnvFile = ".env"
)

// DefaultSelectors target the devcards reporting UI
var DefaultSelectors = Selectors{
	ListItem:    "a.com-rigsomelight-devcards-list-group-item",
	ListEntry:   ".com-rigsomelight-devcards-list-group-item:nth-child(%d)",
	AssertCount: "span",
	Card:        ".com-rigsomelight-devcard:nth-child(%d)",
	CardName:    "a",
	FailureMarkers: []string{
		".com-rigsomelight-devcards-fail",
		".com-rigsomelight-devcards-error",
	},
	PassCounter: ".com-rigsomelight-devcards-test-header .com-rigsomelight-devcards-pass",
}
