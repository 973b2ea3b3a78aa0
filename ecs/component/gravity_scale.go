package component

// GravityScale scales world gravity for a character body.
// 1.0 = normal gravity, 0.0 = no gravity (ground snap).
type GravityScale struct {
	Scale float64
}

var GravityScaleComponent = NewComponent[GravityScale]()
