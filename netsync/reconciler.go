package netsync

import (
	"fmt"
	"math"
	"strings"
)

// Strategy selects how the local entity treats authoritative samples.
type Strategy int

const (
	// StrategyPredicted moves on input immediately and pulls toward the
	// authoritative position only when the two diverge past a threshold.
	StrategyPredicted Strategy = iota
	// StrategyAuthoritative replaces the local pose with every authoritative
	// sample.
	StrategyAuthoritative
)

func (s Strategy) String() string {
	if s == StrategyAuthoritative {
		return "authoritative"
	}
	return "predicted"
}

// UnmarshalText accepts "predicted" or "authoritative".
func (s *Strategy) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "predicted", "":
		*s = StrategyPredicted
	case "authoritative":
		*s = StrategyAuthoritative
	default:
		return fmt.Errorf("unknown strategy %q", text)
	}
	return nil
}

func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MoveIntent is the held movement input, each axis in [-1, 1].
type MoveIntent struct {
	DX, DY float64
}

func (m MoveIntent) zero() bool {
	return m.DX == 0 && m.DY == 0
}

// AdvanceResult describes one LocalReconciler.Advance step.
type AdvanceResult struct {
	Pose      Pose
	Moved     bool // position changed because of input
	Corrected bool // an authoritative correction was applied
}

// LocalReconciler owns the predicted pose of the locally controlled entity.
type LocalReconciler struct {
	strategy  Strategy
	threshold float64
	fraction  float64
	speed     float64
	bounds    Bounds
	radius    float64

	pose   Pose
	ready  bool
	intent MoveIntent

	target    Pose
	hasTarget bool

	pending    Pose
	hasPending bool
}

// NewLocalReconciler returns a reconciler using cfg's strategy, correction
// tuning, player speed and arena bounds.
func NewLocalReconciler(cfg Config) *LocalReconciler {
	return &LocalReconciler{
		strategy:  cfg.Strategy,
		threshold: cfg.ReconcileThreshold,
		fraction:  cfg.CorrectionFraction,
		speed:     cfg.PlayerSpeed,
		bounds:    cfg.Arena,
	}
}

// Reset seeds the predicted pose, usually from the welcome message.
func (r *LocalReconciler) Reset(p Pose, radius float64) {
	r.pose = p
	r.radius = radius
	r.ready = true
	r.intent = MoveIntent{}
	r.hasTarget = false
	r.hasPending = false
}

// Clear forgets the local entity.
func (r *LocalReconciler) Clear() {
	*r = LocalReconciler{
		strategy:  r.strategy,
		threshold: r.threshold,
		fraction:  r.fraction,
		speed:     r.speed,
		bounds:    r.bounds,
	}
}

func (r *LocalReconciler) Ready() bool { return r.ready }
func (r *LocalReconciler) Pose() Pose  { return r.pose }

func (r *LocalReconciler) Strategy() Strategy { return r.strategy }

func (r *LocalReconciler) SetBounds(b Bounds) { r.bounds = b }

func (r *LocalReconciler) SetSpeed(speed float64) {
	if speed > 0 {
		r.speed = speed
	}
}

func (r *LocalReconciler) SetRadius(radius float64) {
	if radius > 0 {
		r.radius = radius
	}
}

// SetIntent sets the held movement input. Non-zero input cancels any
// move-to target.
func (r *LocalReconciler) SetIntent(in MoveIntent) {
	r.intent = MoveIntent{DX: clampUnit(in.DX), DY: clampUnit(in.DY)}
	if !r.intent.zero() {
		r.hasTarget = false
	}
}

// MoveTo steers toward (x, y) on following advances until it is reached or
// keyboard input takes over.
func (r *LocalReconciler) MoveTo(x, y float64) {
	r.target = Pose{X: x, Y: y}
	r.hasTarget = true
}

func (r *LocalReconciler) HasTarget() bool { return r.hasTarget }

// SetAim sets the facing angle. The next authoritative sample overrides it.
func (r *LocalReconciler) SetAim(angle float64) {
	r.pose.Angle = angle
}

// IngestAuthoritative records the latest authoritative pose. It is applied
// once, on the next Advance. Before the reconciler is seeded the sample is
// adopted as is.
func (r *LocalReconciler) IngestAuthoritative(p Pose) {
	if !r.ready {
		r.pose = p
		r.ready = true
		r.clamp()
		return
	}
	r.pending = p
	r.hasPending = true
}

// Advance runs one step: input movement, then any pending correction, then
// the bounds clamp.
func (r *LocalReconciler) Advance() AdvanceResult {
	var res AdvanceResult
	if !r.ready {
		return res
	}

	before := r.pose
	switch {
	case !r.intent.zero():
		r.pose.X += r.intent.DX * r.speed
		r.pose.Y += r.intent.DY * r.speed
	case r.hasTarget:
		dx, dy := r.target.X-r.pose.X, r.target.Y-r.pose.Y
		dist := math.Hypot(dx, dy)
		if dist <= r.speed {
			r.pose.X, r.pose.Y = r.target.X, r.target.Y
			r.hasTarget = false
		} else {
			r.pose.X += dx / dist * r.speed
			r.pose.Y += dy / dist * r.speed
		}
	}
	r.clamp()
	res.Moved = r.pose.X != before.X || r.pose.Y != before.Y

	if r.hasPending {
		res.Corrected = r.correct(r.pending)
		r.hasPending = false
		r.clamp()
	}

	res.Pose = r.pose
	return res
}

func (r *LocalReconciler) correct(auth Pose) bool {
	if r.strategy == StrategyAuthoritative {
		changed := r.pose != auth
		r.pose = auth
		return changed
	}

	r.pose.Angle = auth.Angle
	dx, dy := auth.X-r.pose.X, auth.Y-r.pose.Y
	if dx*dx+dy*dy <= r.threshold*r.threshold {
		return false
	}
	r.pose.X += dx * r.fraction
	r.pose.Y += dy * r.fraction
	return true
}

func (r *LocalReconciler) clamp() {
	if r.bounds.Width > 0 {
		r.pose.X = clampAxis(r.pose.X, r.radius, r.bounds.Width)
	}
	if r.bounds.Height > 0 {
		r.pose.Y = clampAxis(r.pose.Y, r.radius, r.bounds.Height)
	}
}

// clampAxis keeps v within [radius, extent-radius], centering it when the
// extent is too small to hold the entity.
func clampAxis(v, radius, extent float64) float64 {
	lo, hi := radius, extent-radius
	if lo > hi {
		return extent / 2
	}
	return math.Max(lo, math.Min(hi, v))
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
