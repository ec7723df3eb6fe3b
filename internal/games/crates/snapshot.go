package crates

import (
	"math"

	"github.com/hexopus/boxtop/internal/phys"
)

// Snapshot contains the complete state of a crates round for replay/save.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick     uint64
	Score    int
	Best     int
	GameOver bool
	Paused   bool
	DropWait int
	Coyote   int

	PlayerX, PlayerY   float64 // Bounding box minimum corner
	PlayerVX, PlayerVY float64
	BallX, BallY       float64
	BallVX, BallVY     float64

	// Crate state (each crate is 4 floats: X, Y, VX, VY)
	CrateCount int
	CrateData  []float64
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:     uint64(g.tickCount), //#nosec G115 -- tick count is always positive
		Score:    g.score,
		Best:     g.best,
		GameOver: g.gameOver,
		Paused:   g.paused,
		DropWait: g.dropWait,
		Coyote:   g.coyote,
	}

	p := g.player.Shape().Bounds().Min
	snap.PlayerX, snap.PlayerY = p.X, p.Y
	snap.PlayerVX, snap.PlayerVY = g.player.Vel.X, g.player.Vel.Y

	if g.ball != nil {
		b := g.ball.Shape().Bounds().Min
		snap.BallX, snap.BallY = b.X, b.Y
		snap.BallVX, snap.BallVY = g.ball.Vel.X, g.ball.Vel.Y
	}

	snap.CrateCount = len(g.crates)
	snap.CrateData = make([]float64, 0, len(g.crates)*4)
	for _, c := range g.crates {
		min := c.Shape().Bounds().Min
		snap.CrateData = append(snap.CrateData, min.X, min.Y, c.Vel.X, c.Vel.Y)
	}
	return snap
}

// ApplySnapshot restores game state from a snapshot. The crate population is
// resized to match before positions are applied.
func (g *Game) ApplySnapshot(snap Snapshot) {
	g.tickCount = int(snap.Tick) //#nosec G115 -- tick count fits in int
	g.score = snap.Score
	g.best = snap.Best
	g.gameOver = snap.GameOver
	g.paused = snap.Paused
	g.dropWait = snap.DropWait
	g.coyote = snap.Coyote

	moveTo(g.player, snap.PlayerX, snap.PlayerY)
	g.player.Vel = phys.Vec{X: snap.PlayerVX, Y: snap.PlayerVY}

	if g.ball != nil {
		moveTo(g.ball, snap.BallX, snap.BallY)
		g.ball.Vel = phys.Vec{X: snap.BallVX, Y: snap.BallVY}
	}

	for len(g.crates) > snap.CrateCount {
		last := g.crates[len(g.crates)-1]
		g.crates = g.crates[:len(g.crates)-1]
		g.handler.Remove(last)
	}
	for len(g.crates) < snap.CrateCount {
		cw, ch := g.cfg.Crates.Width, g.cfg.Crates.Height
		c := phys.NewBody(g.cfg.Crates.Mass, phys.NewRect(0, 0, cw, ch),
			phys.Vec{}, g.cfg.Crates.Elasticity, g.cfg.Crates.Friction)
		g.crates = append(g.crates, c)
		g.handler.Add(c)
	}
	for i, c := range g.crates {
		idx := i * 4
		if idx+3 < len(snap.CrateData) {
			moveTo(c, snap.CrateData[idx], snap.CrateData[idx+1])
			c.Vel = phys.Vec{X: snap.CrateData[idx+2], Y: snap.CrateData[idx+3]}
		}
	}

	// The recorded positions are already overlap-free; a Reinit here could
	// shove a body that sits astride a one-sided platform line off its
	// recorded spot.
	g.handler.RefreshContacts()
}

// moveTo places a body's bounding box minimum corner at (x, y).
func moveTo(b *phys.Body, x, y float64) {
	min := b.Shape().Bounds().Min
	b.Shape().Move(x-min.X, y-min.Y)
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.Score)    //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Best)     //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.DropWait) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Coyote)   //#nosec G115 -- hash computation
	if snap.GameOver {
		h = h*31 + 1
	}
	if snap.Paused {
		h = h*31 + 1
	}

	for _, v := range []float64{
		snap.PlayerX, snap.PlayerY, snap.PlayerVX, snap.PlayerVY,
		snap.BallX, snap.BallY, snap.BallVX, snap.BallVY,
	} {
		h = h*31 + math.Float64bits(v)
	}

	h = h*31 + uint64(snap.CrateCount) //#nosec G115 -- hash computation
	for _, v := range snap.CrateData {
		h = h*31 + math.Float64bits(v)
	}
	return h
}
