// Package crates implements a stacking sandbox on the collision resolver.
// Crates drop from above onto a floor; the player shoves them into a tower
// and the tallest stack reached during the round sets the score.
package crates

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/hexopus/boxtop/internal/config"
	"github.com/hexopus/boxtop/internal/core"
	"github.com/hexopus/boxtop/internal/phys"
	"github.com/hexopus/boxtop/internal/registry"
	"github.com/hexopus/boxtop/internal/scene"
)

// Visual characters for rendering
const (
	PlayerChar   = '█'
	CrateChar    = '▒'
	BallChar     = '●'
	SurfaceChar  = '▀'
	CeilingChar  = '▄'
	WallLeftPad  = '▐' // Matter left of the face
	WallRightPad = '▌' // Matter right of the face
)

// DefaultScene is the embedded arena the game runs in.
const DefaultScene = "stack-yard"

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// sceneRef stores the arena override set via CLI
var sceneRef string

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

// SetScene overrides the arena. Accepts a builtin scene name or a file path.
func SetScene(ref string) {
	sceneRef = ref
}

// Game implements the crates game logic.
type Game struct {
	// World
	world   *scene.World
	handler *phys.Handler
	player  *phys.Body
	ball    *phys.Body
	crates  []*phys.Body

	// Game state
	score     int // Current stack score
	best      int // Highest stack score this round
	gameOver  bool
	paused    bool
	tickCount int
	dropWait  int // Ticks until the next drop is allowed
	coyote    int // Jump window left since last ground contact

	// Settings
	runtime core.RuntimeConfig
	cfg     config.CratesConfig
	diff    *config.DifficultyManager
	rng     *rand.Rand
}

// New creates a new crates game instance.
func New() *Game {
	return &Game{cfg: config.DefaultCratesConfig()}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "crates"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Crates"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed))

	cfg, err := config.LoadCrates(configPath)
	if err != nil {
		cfg = config.DefaultCratesConfig()
	}
	if difficultyPreset != "" {
		config.ApplyCratesPreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg
	g.diff = config.NewDifficultyManager(cfg.Difficulty)

	g.world = buildArena()
	g.handler = g.world.Handler
	g.crates = append([]*phys.Body(nil), g.world.Tagged("crate")...)
	g.ball = g.world.First("ball")

	// The player spawns standing on the floor, left of the starter stack.
	floorY := floorLevel(g.world)
	px := math.Floor(g.world.Scene.Size.W / 4)
	g.player = phys.NewBody(cfg.Player.Mass,
		phys.NewRect(px, floorY, px+cfg.Player.Width, floorY+cfg.Player.Height),
		phys.Vec{}, 0, cfg.Player.Friction)
	g.handler.Add(g.player)
	g.handler.Reinit()

	g.score = 0
	g.best = 0
	g.gameOver = false
	g.paused = false
	g.tickCount = 0
	g.dropWait = 0
	g.coyote = 0
	if len(g.handler.Touching(g.player, phys.DirBottom)) > 0 {
		g.coyote = cfg.Player.CoyoteTicks
	}
}

// buildArena loads the selected scene, falling back to the embedded default.
func buildArena() *scene.World {
	if sceneRef != "" {
		if s, err := scene.Resolve(sceneRef); err == nil {
			if w, err := s.Build(); err == nil {
				return w
			}
		}
	}
	s, err := scene.Builtin(DefaultScene)
	if err != nil {
		panic("crates: embedded scene missing: " + err.Error())
	}
	w, err := s.Build()
	if err != nil {
		panic("crates: embedded scene broken: " + err.Error())
	}
	return w
}

// floorLevel returns the height of the floor surface.
func floorLevel(w *scene.World) float64 {
	f := w.First("floor")
	if f == nil {
		return 0
	}
	lines := f.Shape().Lines(phys.DirTop)
	if len(lines) == 0 {
		return 0
	}
	return lines[0].Perp
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

	// Steer the player. Velocity is set outright each tick; the resolver
	// owns what happens to it on impact.
	switch {
	case in.Has(core.ActionLeft) && !in.Has(core.ActionRight):
		g.player.Vel.X = -g.cfg.Physics.MoveSpeed
	case in.Has(core.ActionRight) && !in.Has(core.ActionLeft):
		g.player.Vel.X = g.cfg.Physics.MoveSpeed
	default:
		g.player.Vel.X = 0
	}

	// Jumping needs recent ground contact under the player.
	if in.Has(core.ActionJump) && g.coyote > 0 {
		g.player.Vel.Y = g.cfg.Physics.JumpImpulse
		g.coyote = 0
	}

	if in.Has(core.ActionDrop) {
		g.dropCrate()
	}
	if g.dropWait > 0 {
		g.dropWait--
	}

	// Gravity on every finite-mass mover, scaled up as the round ages.
	grav := g.diff.Speed(g.cfg.Physics.Gravity, g.best, g.tickCount)
	for _, b := range g.handler.Bodies() {
		if b.Immovable() {
			continue
		}
		b.Vel.Y += grav
		if b.Vel.Y < -g.cfg.Physics.MaxFallSpeed {
			b.Vel.Y = -g.cfg.Physics.MaxFallSpeed
		}
	}

	g.handler.Update()

	// Refresh the jump window from the new touching relation.
	if len(g.handler.Touching(g.player, phys.DirBottom)) > 0 {
		g.coyote = g.cfg.Player.CoyoteTicks
	} else if g.coyote > 0 {
		g.coyote--
	}

	// Sample the stack height; the best sample is the round score.
	g.score = g.stackRows() * g.cfg.Round.HeightMultiplier
	if g.score > g.best {
		g.best = g.score
	}

	if g.tickCount >= g.cfg.Round.TickLimit {
		g.gameOver = true
	}

	return core.StepResult{State: g.State()}
}

// dropCrate spawns a crate above the arena at a random column.
func (g *Game) dropCrate() {
	if g.dropWait > 0 || len(g.crates) >= g.cfg.Crates.MaxActive {
		return
	}
	cw, ch := g.cfg.Crates.Width, g.cfg.Crates.Height
	span := int(g.world.Scene.Size.W - 4 - cw)
	if span < 1 {
		span = 1
	}
	x := 2 + float64(g.rng.Intn(span))
	y := g.world.Scene.Size.H + 2
	c := phys.NewBody(g.cfg.Crates.Mass, phys.NewRect(x, y, x+cw, y+ch),
		phys.Vec{}, g.cfg.Crates.Elasticity, g.cfg.Crates.Friction)
	g.handler.Add(c)
	if !g.handler.Reinit() {
		// No room to push the newcomer clear; withdraw it.
		g.handler.Remove(c)
		g.handler.Reinit()
		return
	}
	g.crates = append(g.crates, c)
	g.dropWait = g.cfg.Crates.DropCooldown
}

// stackRows walks the touching relation upward from the floor and counts
// how many rows of crates are supported.
func (g *Game) stackRows() int {
	floor := g.world.First("floor")
	if floor == nil {
		return 0
	}
	support := map[*phys.Body]bool{floor: true}
	rows := 0
	for {
		var next []*phys.Body
		for _, c := range g.crates {
			if support[c] {
				continue
			}
			for _, under := range g.handler.Touching(c, phys.DirBottom) {
				if support[under] {
					next = append(next, c)
					break
				}
			}
		}
		if len(next) == 0 {
			break
		}
		rows++
		for _, c := range next {
			support[c] = true
		}
	}
	return rows
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	for _, b := range g.world.Tagged("floor") {
		g.drawStatic(dst, b, core.ColorGray)
	}
	for _, b := range g.world.Tagged("wall") {
		g.drawStatic(dst, b, core.ColorGray)
	}
	for _, b := range g.world.Tagged("platform") {
		g.drawStatic(dst, b, core.ColorGreen)
	}
	if g.ball != nil {
		g.drawBody(dst, g.ball, BallChar, core.ColorBrightMagenta)
	}
	for _, c := range g.crates {
		g.drawBody(dst, c, CrateChar, core.ColorYellow)
	}
	g.drawBody(dst, g.player, PlayerChar, core.ColorBrightCyan)

	// HUD
	secs := (g.cfg.Round.TickLimit - g.tickCount) / core.Max(g.runtime.TickRate, 1)
	if secs < 0 {
		secs = 0
	}
	dst.DrawText(1, 0, fmt.Sprintf("SCORE %d  BEST %d", g.score, g.best))
	status := fmt.Sprintf("CRATES %d/%d  TIME %d:%02d",
		len(g.crates), g.cfg.Crates.MaxActive, secs/60, secs%60)
	dst.DrawText(dst.Width()-len(status)-1, 0, status)

	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if g.gameOver {
		g.drawCenteredMessage(dst, "TIME!",
			fmt.Sprintf("Best stack %d  |  Press R to restart", g.best))
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

// drawStatic draws the faces of a one-sided line body. The glyph hugs the
// edge of the cell the matter occupies.
func (g *Game) drawStatic(dst *core.Screen, b *phys.Body, col core.Color) {
	sh := b.Shape()
	for _, d := range []phys.Direction{phys.DirLeft, phys.DirBottom, phys.DirRight, phys.DirTop} {
		for _, ln := range sh.Lines(d) {
			p0, p1 := int(math.Floor(ln.P0)), int(math.Ceil(ln.P1))
			switch d {
			case phys.DirTop: // Standing surface, matter below
				wy := int(math.Floor(ln.Perp)) - 1
				for wx := p0; wx < p1; wx++ {
					dst.SetCell(wx, g.row(wy), SurfaceChar, col)
				}
			case phys.DirBottom: // Ceiling, matter above
				wy := int(math.Floor(ln.Perp))
				for wx := p0; wx < p1; wx++ {
					dst.SetCell(wx, g.row(wy), CeilingChar, col)
				}
			case phys.DirRight: // Wall face pointing right, matter left
				wx := int(math.Floor(ln.Perp)) - 1
				for wy := p0; wy < p1; wy++ {
					dst.SetCell(wx, g.row(wy), WallLeftPad, col)
				}
			case phys.DirLeft: // Wall face pointing left, matter right
				wx := int(math.Floor(ln.Perp))
				for wy := p0; wy < p1; wy++ {
					dst.SetCell(wx, g.row(wy), WallRightPad, col)
				}
			}
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
		Score:    g.best,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// Register the game with the registry
func init() {
	registry.Register("crates", func() registry.Game {
		return New()
	})
}
