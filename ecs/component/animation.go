package component

import "time"

const (
	TrackWalk = "walk"
	TrackRun  = "run"
)

// Animator is the blend surface the movement states drive.
type Animator interface {
	SetTransition(track string, target float64, d time.Duration)
	SetSpeed(track string, rate float64)
}

type AnimationTrack struct {
	Weight   float64
	From     float64
	Target   float64
	Elapsed  time.Duration
	Duration time.Duration
	Speed    float64
}

// AnimationBlend linearly blends named track weights toward their targets.
type AnimationBlend struct {
	Tracks map[string]*AnimationTrack
}

func NewAnimationBlend(tracks ...string) *AnimationBlend {
	b := &AnimationBlend{Tracks: make(map[string]*AnimationTrack, len(tracks))}
	for _, name := range tracks {
		b.Tracks[name] = &AnimationTrack{Speed: 1}
	}
	return b
}

func (b *AnimationBlend) track(name string) *AnimationTrack {
	if b.Tracks == nil {
		b.Tracks = make(map[string]*AnimationTrack)
	}
	t, ok := b.Tracks[name]
	if !ok {
		t = &AnimationTrack{Speed: 1}
		b.Tracks[name] = t
	}
	return t
}

// SetTransition starts blending track from its current weight to target
// over d. Re-requesting the running target keeps the blend in progress.
func (b *AnimationBlend) SetTransition(track string, target float64, d time.Duration) {
	t := b.track(track)
	if t.Target == target && (t.Elapsed < t.Duration || t.Weight == target) {
		return
	}
	t.From = t.Weight
	t.Target = target
	t.Elapsed = 0
	t.Duration = d
	if d <= 0 {
		t.Weight = target
	}
}

func (b *AnimationBlend) SetSpeed(track string, rate float64) {
	b.track(track).Speed = rate
}

// Advance moves every blend forward by dt.
func (b *AnimationBlend) Advance(dt time.Duration) {
	for _, t := range b.Tracks {
		if t.Weight == t.Target || t.Duration <= 0 {
			t.Weight = t.Target
			continue
		}
		t.Elapsed += dt
		if t.Elapsed >= t.Duration {
			t.Elapsed = t.Duration
			t.Weight = t.Target
			continue
		}
		frac := float64(t.Elapsed) / float64(t.Duration)
		t.Weight = t.From + (t.Target-t.From)*frac
	}
}

func (b *AnimationBlend) Weight(track string) float64 {
	if t, ok := b.Tracks[track]; ok {
		return t.Weight
	}
	return 0
}

func (b *AnimationBlend) Speed(track string) float64 {
	if t, ok := b.Tracks[track]; ok {
		return t.Speed
	}
	return 0
}

var AnimationBlendComponent = NewComponent[AnimationBlend]()
