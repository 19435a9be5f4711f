package cli

import (
	"time"

	"ecr/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	ProjectPath   string
	ElectronPath  string
	EntryScript   string
	AppURL        string
	DebugPort     int
	AttachURL     string
	TargetFilter  string
	LaunchTimeout time.Duration
	WaitTimeout   time.Duration
	ActionTimeout time.Duration
	RunTimeout    time.Duration
	PollAttempts  int
	PollInterval  time.Duration
	ZeroAsserts   string
	NameFilter    string
	FailFast      bool
	SelectorsFile string
	ReportPath    string
	Quiet         bool
	OpenFailures  bool
	LogLevel      string
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ProjectPath:   f.ProjectPath,
		ElectronPath:  f.ElectronPath,
		EntryScript:   f.EntryScript,
		AppURL:        f.AppURL,
		DebugPort:     f.DebugPort,
		AttachURL:     f.AttachURL,
		TargetFilter:  f.TargetFilter,
		LaunchTimeout: f.LaunchTimeout,
		WaitTimeout:   f.WaitTimeout,
		ActionTimeout: f.ActionTimeout,
		RunTimeout:    f.RunTimeout,
		PollAttempts:  f.PollAttempts,
		PollInterval:  f.PollInterval,
		ZeroAsserts:   f.ZeroAsserts,
		NameFilter:    f.NameFilter,
		FailFast:      f.FailFast,
		SelectorsFile: f.SelectorsFile,
		ReportPath:    f.ReportPath,
		Quiet:         f.Quiet,
		OpenFailures:  f.OpenFailures,
		LogLevel:      f.LogLevel,
	}
}
