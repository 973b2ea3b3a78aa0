package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/physics"
)

// CastProbe holds the latest result of one probe cast. Hit is nil when the
// cast found nothing.
type CastProbe struct {
	Direction mgl64.Vec3
	Hit       *physics.Hit
}

func (p *CastProbe) Store(hit physics.Hit, ok bool) {
	if !ok {
		p.Hit = nil
		return
	}
	h := hit
	p.Hit = &h
}

// Distance returns the hit distance, or ok=false on a miss.
func (p CastProbe) Distance() (float64, bool) {
	if p.Hit == nil {
		return 0, false
	}
	return p.Hit.Distance, true
}

var CastProbeComponent = NewComponent[CastProbe]()
