package scenes

import (
	"github.com/gonewx/configurator/pkg/game"
)

// Scene is a type alias for game.Scene.
type Scene = game.Scene

var (
	_ Scene         = (*ConfiguratorScene)(nil)
	_ game.Saveable = (*ConfiguratorScene)(nil)
)
