// Package juggle implements an elastic juggling game on the collision
// resolver. Balls rain down onto a paddle; every save scores a point, balls
// left lying on the floor are lost, and the round ends once too few balls
// remain to keep the juggle going.
package juggle

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/hexopus/boxtop/internal/config"
	"github.com/hexopus/boxtop/internal/core"
	"github.com/hexopus/boxtop/internal/phys"
	"github.com/hexopus/boxtop/internal/registry"
)

// Visual characters for rendering
const (
	PaddleChar   = '█'
	BallChar     = '●'
	FloorChar    = '▀'
	DividerChar  = '║'
	WallLeftPad  = '▐' // Matter left of the face
	WallRightPad = '▌' // Matter right of the face
)

// paddleY is the height the paddle hovers at. Balls can roll underneath.
const paddleY = 3.0

// wallTop is how far up the side walls extend, higher than any ball can fly.
const wallTop = 200.0

// The divider hangs mid-air at center court, solid from both sides. Low
// sideways balls bounce off it; serves drop in above it.
const (
	dividerLo = paddleY + 5
	dividerHi = paddleY + 11
)

// serveVels are the sideways speeds a served ball may start with.
var serveVels = [...]float64{-0.5, -0.25, 0.25, 0.5}

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	switch preset {
	case "easy":
		difficultyPreset = config.DifficultyEasy
	case "normal":
		difficultyPreset = config.DifficultyNormal
	case "hard":
		difficultyPreset = config.DifficultyHard
	case "fixed":
		difficultyPreset = config.DifficultyFixed
	default:
		difficultyPreset = ""
	}
}

// ball is a live ball plus its floor-rest bookkeeping.
type ball struct {
	body *phys.Body
	rest int // Consecutive ticks spent resting on the floor
}

// Game implements the juggle game logic.
type Game struct {
	// World
	handler *phys.Handler
	floor   *phys.Body
	divider *phys.Body
	paddle  *phys.Body
	balls   []*ball

	// Game state
	score     int
	lost      int // Balls dropped for good
	gameOver  bool
	paused    bool
	tickCount int
	serveWait int // Ticks until the next serve
	paddleW   int // Current paddle width; shrinks with difficulty

	// Settings
	runtime core.RuntimeConfig
	cfg     config.JuggleConfig
	diff    *config.DifficultyManager
	rng     *rand.Rand
}

// New creates a new juggle game instance.
func New() *Game {
	return &Game{cfg: config.DefaultJuggleConfig()}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "juggle"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Juggle"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed))

	cfg, err := config.LoadJuggle(configPath)
	if err != nil {
		cfg = config.DefaultJuggleConfig()
	}
	if difficultyPreset != "" {
		config.ApplyJugglePreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg
	g.diff = config.NewDifficultyManager(cfg.Difficulty)

	// The arena is a floor, two tall walls, a short divider hanging mid-air
	// and the paddle floating between them. No ceiling: balls fly as high
	// as gravity allows.
	// The floor is perfectly dead: a grounded ball must settle into lasting
	// contact or the grace timer could never latch onto it.
	w := float64(runtime.ScreenW)
	g.floor = phys.NewStatic(phys.NewHalfLine(phys.DirTop, 1, 0, w), 0, 0.25)
	left := phys.NewStatic(phys.NewHalfLine(phys.DirRight, 1, 0, wallTop), 1, 0)
	right := phys.NewStatic(phys.NewHalfLine(phys.DirLeft, w-1, 0, wallTop), 1, 0)
	g.divider = phys.NewStatic(phys.NewSegmentV(w/2, dividerLo, dividerHi), 1, 0)

	g.paddleW = g.diff.PaddleWidth(cfg.Paddle.Width, 0, 0)
	pw := float64(g.paddleW)
	px := (w - pw) / 2
	g.paddle = phys.NewBody(phys.Infinite,
		phys.NewRect(px, paddleY, px+pw, paddleY+cfg.Paddle.Height),
		phys.Vec{}, cfg.Paddle.Elasticity, cfg.Paddle.Friction)

	g.handler = phys.NewHandler([]*phys.Body{g.floor, left, right, g.divider, g.paddle}, 0.0001)
	g.balls = nil

	g.score = 0
	g.lost = 0
	g.gameOver = false
	g.paused = false
	g.tickCount = 0
	g.serveWait = cfg.Gameplay.ServeDelay
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.tickCount++

	// Steer the paddle
	switch {
	case in.Has(core.ActionLeft) && !in.Has(core.ActionRight):
		g.paddle.Vel.X = -g.cfg.Physics.PaddleSpeed
	case in.Has(core.ActionRight) && !in.Has(core.ActionLeft):
		g.paddle.Vel.X = g.cfg.Physics.PaddleSpeed
	default:
		g.paddle.Vel.X = 0
	}

	// Gravity on the balls, scaled up as the score grows
	grav := g.diff.Speed(g.cfg.Physics.Gravity, g.score, g.tickCount)
	max := g.cfg.Physics.MaxBallSpeed
	for _, b := range g.balls {
		b.body.Vel.Y += grav
		b.body.Vel.X = core.ClampF(b.body.Vel.X, -max, max)
		b.body.Vel.Y = core.ClampF(b.body.Vel.Y, -max, max)
	}

	g.serve()

	g.handler.Update()
	g.clampPaddle()

	// Every paddle impact scores, once per ball per tick
	var hit map[*phys.Body]bool
	for _, ev := range g.handler.Collisions() {
		var b *phys.Body
		if ev.A == g.paddle {
			b = ev.B
		} else if ev.B == g.paddle {
			b = ev.A
		} else {
			continue
		}
		if hit[b] {
			continue
		}
		if hit == nil {
			hit = make(map[*phys.Body]bool)
		}
		hit[b] = true
		g.score++
	}

	// Balls left resting on the floor are lost once the grace window closes
	kept := g.balls[:0]
	dropped := false
	for _, b := range g.balls {
		if g.onFloor(b.body) {
			b.rest++
		} else {
			b.rest = 0
		}
		if b.rest > g.cfg.Gameplay.GraceTicks {
			g.handler.Remove(b.body)
			g.lost++
			dropped = true
			continue
		}
		kept = append(kept, b)
	}
	g.balls = kept
	if dropped {
		g.handler.Reinit()
	}

	// The paddle shrinks as difficulty ramps
	if w := g.diff.PaddleWidth(g.cfg.Paddle.Width, g.score, g.tickCount); w != g.paddleW {
		g.resizePaddle(w)
	}

	if g.targetBalls() <= 0 {
		g.gameOver = true
	}

	return core.StepResult{State: g.State()}
}

// serve tops the world back up to the target ball count, one ball per delay.
func (g *Game) serve() {
	if len(g.balls) >= g.targetBalls() {
		g.serveWait = g.cfg.Gameplay.ServeDelay
		return
	}
	if g.serveWait > 0 {
		g.serveWait--
		return
	}

	bw, bh := g.cfg.Balls.Width, g.cfg.Balls.Height
	pb := g.paddle.Shape().Bounds()
	x := (pb.Min.X + pb.Max.X - bw) / 2
	x = core.ClampF(x, 2, float64(g.runtime.ScreenW)-2-bw)
	y := pb.Max.Y + 12
	vx := serveVels[g.rng.Intn(len(serveVels))]
	b := phys.NewBody(g.cfg.Balls.Mass,
		phys.NewRect(x, y, x+bw, y+bh),
		phys.Vec{X: vx, Y: -g.cfg.Physics.DropSpeed},
		g.cfg.Balls.Elasticity, g.cfg.Balls.Friction)
	g.handler.Add(b)
	if !g.handler.Reinit() {
		// No room above the paddle; try again next tick.
		g.handler.Remove(b)
		g.handler.Reinit()
		return
	}
	g.balls = append(g.balls, &ball{body: b})
	g.serveWait = g.cfg.Gameplay.ServeDelay
}

// targetBalls is how many balls the round wants in play right now. Lost
// balls reduce it for good; the round ends when it reaches zero.
func (g *Game) targetBalls() int {
	base := g.cfg.Balls.Initial
	if g.cfg.Balls.PerPoints > 0 {
		base += g.score / g.cfg.Balls.PerPoints
	}
	n := g.diff.BallCount(base, g.score, g.tickCount) - g.lost
	if n > g.cfg.Balls.MaxActive {
		n = g.cfg.Balls.MaxActive
	}
	return n
}

// onFloor reports whether b is in contact with the floor through its
// underside.
func (g *Game) onFloor(b *phys.Body) bool {
	for _, u := range g.handler.Touching(b, phys.DirBottom) {
		if u == g.floor {
			return true
		}
	}
	return false
}

// clampPaddle keeps the paddle clear of the side walls. The resolver skips
// pairs where neither body can respond, so the immovable paddle must be
// held back by hand; the gap also leaves a cornered ball room to bounce
// free instead of being wedged against the wall.
func (g *Game) clampPaddle() {
	margin := g.cfg.Balls.Width + 1
	pb := g.paddle.Shape().Bounds()
	lo := 1 + margin
	hi := float64(g.runtime.ScreenW) - 1 - margin - (pb.Max.X - pb.Min.X)
	switch {
	case pb.Min.X < lo:
		g.paddle.Shape().Move(lo-pb.Min.X, 0)
	case pb.Min.X > hi:
		g.paddle.Shape().Move(hi-pb.Min.X, 0)
	}
}

// resizePaddle swaps the paddle body for one of the given width, keeping
// the center in place.
func (g *Game) resizePaddle(w int) {
	pb := g.paddle.Shape().Bounds()
	cx := (pb.Min.X + pb.Max.X) / 2
	pw := float64(w)
	next := phys.NewBody(phys.Infinite,
		phys.NewRect(cx-pw/2, paddleY, cx+pw/2, paddleY+g.cfg.Paddle.Height),
		g.paddle.Vel, g.cfg.Paddle.Elasticity, g.cfg.Paddle.Friction)
	g.handler.Remove(g.paddle)
	g.handler.Add(next)
	g.paddle = next
	g.paddleW = w
	g.handler.Reinit()
	g.clampPaddle()
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	w, h := dst.Width(), dst.Height()
	for x := 0; x < w; x++ {
		dst.SetCell(x, h-1, FloorChar, core.ColorGray)
	}
	for y := 0; y < h; y++ {
		dst.SetCell(0, y, WallLeftPad, core.ColorGray)
		dst.SetCell(w-1, y, WallRightPad, core.ColorGray)
	}

	// The divider is a zero-width line, so drawBody would paint nothing.
	dx := int(g.divider.Shape().Bounds().Min.X)
	for wy := int(dividerLo); wy < int(dividerHi); wy++ {
		dst.SetCell(dx, g.row(wy), DividerChar, core.ColorGray)
	}

	g.drawBody(dst, g.paddle, PaddleChar, core.ColorBrightCyan)
	for _, b := range g.balls {
		g.drawBody(dst, b.body, BallChar, core.ColorBrightMagenta)
	}

	// HUD
	dst.DrawText(1, 0, fmt.Sprintf("SCORE %d", g.score))
	status := fmt.Sprintf("BALLS %d/%d  LOST %d",
		len(g.balls), core.Max(g.targetBalls(), 0), g.lost)
	dst.DrawText(w-len(status)-1, 0, status)

	if len(g.balls) == 0 && !g.gameOver {
		dst.DrawTextCentered(h/2, "GET READY")
	}
	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if g.gameOver {
		g.drawCenteredMessage(dst, "DROPPED!",
			fmt.Sprintf("Final score %d  |  Press R to restart", g.score))
	}
}

// row maps a world height to a screen row. World y points up; the floor
// band sits on the bottom screen row.
func (g *Game) row(wy int) int {
	return g.runtime.ScreenH - 1 - wy
}

// drawBody fills the cells covered by a body's bounding box.
func (g *Game) drawBody(dst *core.Screen, b *phys.Body, ch rune, col core.Color) {
	bounds := b.Shape().Bounds()
	x0, x1 := int(math.Floor(bounds.Min.X)), int(math.Ceil(bounds.Max.X))
	y0, y1 := int(math.Floor(bounds.Min.Y)), int(math.Ceil(bounds.Max.Y))
	for wy := y0; wy < y1; wy++ {
		for wx := x0; wx < x1; wx++ {
			dst.SetCell(wx, g.row(wy), ch, col)
		}
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	titleX := boxX + (boxW-len(title))/2
	dst.DrawText(titleX, boxY+1, title)

	subtitleX := boxX + (boxW-len(subtitle))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// Register the game with the registry
func init() {
	registry.Register("juggle", func() registry.Game {
		return New()
	})
}
