package commands

import (
	"context"

	"ecr/internal/browser"
	"ecr/internal/launcher"
)

// appSession is a started application the commands drive
type appSession interface {
	Client() browser.Client
	Stop() error
}

// starter starts the application under test
type starter interface {
	Start(ctx context.Context) (appSession, error)
}

// launcherStarter adapts a Launcher to starter
type launcherStarter struct {
	launcher *launcher.Launcher
}

func (s launcherStarter) Start(ctx context.Context) (appSession, error) {
	sess, err := s.launcher.Start(ctx)
	if err != nil {
		return nil, err
	}
	return sess, nil
}
