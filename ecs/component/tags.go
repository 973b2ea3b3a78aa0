package component

// ControlledTag marks a body driven by the local player.
type ControlledTag struct{}

var ControlledTagComponent = NewComponent[ControlledTag]()

// GhostTag marks a body driven by a script.
type GhostTag struct{}

var GhostTagComponent = NewComponent[GhostTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()
