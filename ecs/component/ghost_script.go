package component

import "github.com/d5/tengo/v2"

// GhostScript drives a non-controlled body. Compiled is built lazily by the
// ghost input system from Source; clearing it forces a recompile.
type GhostScript struct {
	Path     string
	Source   []byte
	Compiled *tengo.Compiled
	// State is the script's own map, kept between ticks.
	State  *tengo.Map
	Failed bool
}

var GhostScriptComponent = NewComponent[GhostScript]()
