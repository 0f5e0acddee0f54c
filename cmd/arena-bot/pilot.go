package main

import (
	"math"
	"math/rand"
	"time"

	"github.com/automoto/arena-mp/config"
	"github.com/automoto/arena-mp/netsync"
)

// pilot decides where the bot heads and when it fires.
type pilot struct {
	cfg     config.BotConfigData
	rng     *rand.Rand
	elapsed time.Duration
	next    time.Duration
	phase   float64

	targetX, targetY float64
}

func newPilot(cfg config.BotConfigData, seed int64) *pilot {
	return &pilot{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Step advances the pilot by dt and returns the point to steer toward and
// whether to shoot this frame.
func (p *pilot) Step(dt time.Duration, arena netsync.Bounds) (x, y float64, shoot bool) {
	p.elapsed += dt

	switch p.cfg.Pattern {
	case config.BotPatternCircle:
		p.phase += p.cfg.CircleSpeed * dt.Seconds()
		r := math.Min(p.cfg.CircleRadius, math.Min(arena.Width, arena.Height)/2)
		p.targetX = arena.Width/2 + r*math.Cos(p.phase)
		p.targetY = arena.Height/2 + r*math.Sin(p.phase)
	default:
		if p.elapsed >= p.next {
			p.targetX = arena.Width * (0.1 + 0.8*p.rng.Float64())
			p.targetY = arena.Height * (0.1 + 0.8*p.rng.Float64())
			span := p.cfg.MaxRetarget - p.cfg.MinRetarget
			wait := p.cfg.MinRetarget
			if span > 0 {
				wait += time.Duration(p.rng.Int63n(int64(span)))
			}
			p.next = p.elapsed + wait
		}
	}

	shoot = p.rng.Float64() < p.cfg.ShootChance*dt.Seconds()
	return p.targetX, p.targetY, shoot
}

// census tallies one published frame.
type census struct {
	players int
	remote  int
	flashed int
}

func (c *census) ApplyEntityState(_ netsync.EntityID, _, _, _ float64, attrs netsync.Attributes) {
	c.players++
	if !attrs.Local {
		c.remote++
	}
	if attrs.Flash > 0 {
		c.flashed++
	}
}
