package juggle

import (
	"math"

	"github.com/hexopus/boxtop/internal/phys"
)

// Snapshot contains the complete state of a juggle round for replay/save.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick      uint64
	Score     int
	Lost      int
	GameOver  bool
	Paused    bool
	ServeWait int
	PaddleW   int

	PaddleX  float64 // Bounding box minimum corner; the height never changes
	PaddleVX float64

	// Ball state (each ball is 5 floats: X, Y, VX, VY, rest ticks)
	BallCount int
	BallData  []float64
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:      uint64(g.tickCount), //#nosec G115 -- tick count is always positive
		Score:     g.score,
		Lost:      g.lost,
		GameOver:  g.gameOver,
		Paused:    g.paused,
		ServeWait: g.serveWait,
		PaddleW:   g.paddleW,
	}

	snap.PaddleX = g.paddle.Shape().Bounds().Min.X
	snap.PaddleVX = g.paddle.Vel.X

	snap.BallCount = len(g.balls)
	snap.BallData = make([]float64, 0, len(g.balls)*5)
	for _, b := range g.balls {
		min := b.body.Shape().Bounds().Min
		snap.BallData = append(snap.BallData,
			min.X, min.Y, b.body.Vel.X, b.body.Vel.Y, float64(b.rest))
	}
	return snap
}

// ApplySnapshot restores game state from a snapshot. The ball population and
// the paddle width are resized to match before positions are applied.
func (g *Game) ApplySnapshot(snap Snapshot) {
	g.tickCount = int(snap.Tick) //#nosec G115 -- tick count fits in int
	g.score = snap.Score
	g.lost = snap.Lost
	g.gameOver = snap.GameOver
	g.paused = snap.Paused
	g.serveWait = snap.ServeWait

	if snap.PaddleW != g.paddleW {
		g.resizePaddle(snap.PaddleW)
	}
	for len(g.balls) > snap.BallCount {
		last := g.balls[len(g.balls)-1]
		g.balls = g.balls[:len(g.balls)-1]
		g.handler.Remove(last.body)
	}
	for len(g.balls) < snap.BallCount {
		bw, bh := g.cfg.Balls.Width, g.cfg.Balls.Height
		b := phys.NewBody(g.cfg.Balls.Mass, phys.NewRect(0, 0, bw, bh),
			phys.Vec{}, g.cfg.Balls.Elasticity, g.cfg.Balls.Friction)
		g.balls = append(g.balls, &ball{body: b})
		g.handler.Add(b)
	}

	moveTo(g.paddle, snap.PaddleX, paddleY)
	g.paddle.Vel = phys.Vec{X: snap.PaddleVX}
	for i, b := range g.balls {
		idx := i * 5
		if idx+4 < len(snap.BallData) {
			moveTo(b.body, snap.BallData[idx], snap.BallData[idx+1])
			b.body.Vel = phys.Vec{X: snap.BallData[idx+2], Y: snap.BallData[idx+3]}
			b.rest = int(snap.BallData[idx+4])
		}
	}

	// The recorded positions are already overlap-free; a Reinit here could
	// shove a ball that sits astride a zero-width line (the divider, the
	// walls) off its recorded spot.
	g.handler.RefreshContacts()
}

// moveTo places a body's bounding box minimum corner at (x, y).
func moveTo(b *phys.Body, x, y float64) {
	min := b.Shape().Bounds().Min
	b.Shape().Move(x-min.X, y-min.Y)
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.Score)     //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Lost)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.ServeWait) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.PaddleW)   //#nosec G115 -- hash computation
	if snap.GameOver {
		h = h*31 + 1
	}
	if snap.Paused {
		h = h*31 + 1
	}

	h = h*31 + math.Float64bits(snap.PaddleX)
	h = h*31 + math.Float64bits(snap.PaddleVX)

	h = h*31 + uint64(snap.BallCount) //#nosec G115 -- hash computation
	for _, v := range snap.BallData {
		h = h*31 + math.Float64bits(v)
	}
	return h
}
