package crates

import (
	"strings"
	"testing"

	"github.com/hexopus/boxtop/internal/core"
	"github.com/hexopus/boxtop/internal/phys"
)

func testConfig(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     seed,
	}
}

func TestGameDeterminism(t *testing.T) {
	// Test that given the same inputs, the game produces identical results
	cfg := testConfig(12345)

	// Mix steering, jumps and crate drops over a few hundred ticks
	inputSequence := make([]core.InputFrame, 300)
	for i := range inputSequence {
		inputSequence[i] = core.NewInputFrame()
		if i%31 == 0 {
			inputSequence[i].Set(core.ActionDrop)
		}
		if i%37 == 5 {
			inputSequence[i].Set(core.ActionJump)
		}
		if i%5 < 3 {
			inputSequence[i].Set(core.ActionRight)
		} else {
			inputSequence[i].Set(core.ActionLeft)
		}
	}

	// Run game 1
	g1 := New()
	g1.Reset(cfg)
	for _, in := range inputSequence {
		result := g1.Step(in)
		if result.State.GameOver {
			break
		}
	}
	snap1 := g1.Snapshot()

	// Run game 2 with same inputs
	g2 := New()
	g2.Reset(cfg)
	for _, in := range inputSequence {
		result := g2.Step(in)
		if result.State.GameOver {
			break
		}
	}
	snap2 := g2.Snapshot()

	// Both runs should have identical results
	if snap1.Hash() != snap2.Hash() {
		t.Errorf("Determinism failed: hashes differ. Run1=%d, Run2=%d", snap1.Hash(), snap2.Hash())
	}

	if snap1.Score != snap2.Score {
		t.Errorf("Determinism failed: scores differ. Run1=%d, Run2=%d", snap1.Score, snap2.Score)
	}

	if snap1.Tick != snap2.Tick {
		t.Errorf("Determinism failed: tick counts differ. Run1=%d, Run2=%d", snap1.Tick, snap2.Tick)
	}

	if snap1.PlayerX != snap2.PlayerX {
		t.Errorf("Determinism failed: player positions differ. Run1=%g, Run2=%g", snap1.PlayerX, snap2.PlayerX)
	}

	if snap1.CrateCount != snap2.CrateCount {
		t.Errorf("Determinism failed: crate counts differ. Run1=%d, Run2=%d", snap1.CrateCount, snap2.CrateCount)
	}
}

func TestGameReset(t *testing.T) {
	cfg := testConfig(42)

	g := New()
	g.Reset(cfg)

	// Play a while, dropping a few crates
	for i := 0; i < 80; i++ {
		in := core.NewInputFrame()
		if i%25 == 0 {
			in.Set(core.ActionDrop)
		}
		if i%2 == 0 {
			in.Set(core.ActionRight)
		}
		g.Step(in)
	}

	// Reset should restore the starter arena
	g.Reset(cfg)

	if g.score != 0 || g.best != 0 {
		t.Errorf("Reset should clear score, got score=%d best=%d", g.score, g.best)
	}
	if g.tickCount != 0 {
		t.Errorf("Reset should clear tickCount, got %d", g.tickCount)
	}
	if g.gameOver || g.paused {
		t.Errorf("Reset should clear flags, got gameOver=%v paused=%v", g.gameOver, g.paused)
	}
	if len(g.crates) != 3 {
		t.Errorf("Reset should restore the 3 starter crates, got %d", len(g.crates))
	}
	if g.dropWait != 0 {
		t.Errorf("Reset should clear the drop cooldown, got %d", g.dropWait)
	}
	// The player spawns standing on the floor, so the jump window is open
	if g.coyote != g.cfg.Player.CoyoteTicks {
		t.Errorf("coyote = %d after Reset, want %d", g.coyote, g.cfg.Player.CoyoteTicks)
	}
}

func TestJumpRequiresGround(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))
	g.diff.SetEnabled(false)

	jump := core.NewInputFrame()
	jump.Set(core.ActionJump)

	// Grounded jump: impulse minus one tick of gravity
	g.Step(jump)
	if g.player.Vel.Y != 1.625 {
		t.Fatalf("player VY after jump = %g, want 1.625", g.player.Vel.Y)
	}
	if got := g.player.Shape().Bounds().Min.Y; got != 2.625 {
		t.Fatalf("player bottom after jump = %g, want 2.625", got)
	}
	if g.coyote != 0 {
		t.Fatalf("jump should consume the coyote window, got %d", g.coyote)
	}

	// Holding jump in the air must not fire a second impulse
	g.Step(jump)
	if g.player.Vel.Y != 1.5 {
		t.Errorf("airborne VY = %g, want 1.5 (gravity only)", g.player.Vel.Y)
	}

	// Ride the arc down; the player lands on the platform above the spawn
	noInput := core.NewInputFrame()
	for i := 0; i < 60 && len(g.handler.Touching(g.player, phys.DirBottom)) == 0; i++ {
		g.Step(noInput)
	}
	if len(g.handler.Touching(g.player, phys.DirBottom)) == 0 {
		t.Fatal("player never landed")
	}
	if g.coyote != g.cfg.Player.CoyoteTicks {
		t.Fatalf("landing should refresh the jump window, got %d", g.coyote)
	}

	// Grounded again: the jump re-arms
	g.Step(jump)
	if g.player.Vel.Y != 1.625 {
		t.Errorf("player VY after second jump = %g, want 1.625", g.player.Vel.Y)
	}
}

func TestDropCooldown(t *testing.T) {
	g := New()
	g.Reset(testConfig(7))
	g.diff.SetEnabled(false)

	drop := core.NewInputFrame()
	drop.Set(core.ActionDrop)
	noInput := core.NewInputFrame()

	g.Step(drop)
	if len(g.crates) != 4 {
		t.Fatalf("drop should spawn a crate, got %d", len(g.crates))
	}
	if g.dropWait != g.cfg.Crates.DropCooldown-1 {
		t.Fatalf("dropWait = %d, want %d", g.dropWait, g.cfg.Crates.DropCooldown-1)
	}

	// A second drop during the cooldown is ignored
	g.Step(drop)
	if len(g.crates) != 4 {
		t.Errorf("drop during cooldown spawned a crate, got %d", len(g.crates))
	}

	for g.dropWait > 0 {
		g.Step(noInput)
	}
	g.Step(drop)
	if len(g.crates) != 5 {
		t.Errorf("drop after cooldown should spawn, got %d", len(g.crates))
	}
}

func TestDropRespectsCap(t *testing.T) {
	g := New()
	g.Reset(testConfig(7))
	g.cfg.Crates.MaxActive = len(g.crates)

	drop := core.NewInputFrame()
	drop.Set(core.ActionDrop)
	g.Step(drop)

	if len(g.crates) != g.cfg.Crates.MaxActive {
		t.Errorf("drop above the cap spawned a crate, got %d", len(g.crates))
	}
	if g.dropWait != 0 {
		t.Errorf("refused drop should not start the cooldown, got %d", g.dropWait)
	}
}

func TestStackScoring(t *testing.T) {
	g := New()
	g.Reset(testConfig(3))
	g.diff.SetEnabled(false)

	// The starter pyramid is two rows tall
	noInput := core.NewInputFrame()
	g.Step(noInput)
	if g.score != 2*g.cfg.Round.HeightMultiplier {
		t.Fatalf("score = %d, want %d for the starter pyramid", g.score, 2*g.cfg.Round.HeightMultiplier)
	}

	// Land a crate on top of the pyramid and the stack grows to three rows
	c := phys.NewBody(g.cfg.Crates.Mass, phys.NewRect(38, 10, 42, 12),
		phys.Vec{}, g.cfg.Crates.Elasticity, g.cfg.Crates.Friction)
	g.handler.Add(c)
	g.handler.Reinit()
	g.crates = append(g.crates, c)

	for i := 0; i < 12; i++ {
		g.Step(noInput)
	}
	if len(g.handler.Touching(c, phys.DirBottom)) == 0 {
		t.Fatal("dropped crate never landed on the pyramid")
	}
	if g.score != 3*g.cfg.Round.HeightMultiplier {
		t.Errorf("score = %d, want %d after the third row", g.score, 3*g.cfg.Round.HeightMultiplier)
	}
	if g.best != 3*g.cfg.Round.HeightMultiplier {
		t.Errorf("best = %d, want %d", g.best, 3*g.cfg.Round.HeightMultiplier)
	}
}

func TestGameRender(t *testing.T) {
	g := New()
	g.Reset(testConfig(9))

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	// Floor band on the bottom row
	if got := screen.Get(40, 23); got != SurfaceChar {
		t.Errorf("cell (40,23) = %q, want floor %q", got, SurfaceChar)
	}
	// Left wall face
	if got := screen.Get(0, 12); got != WallLeftPad {
		t.Errorf("cell (0,12) = %q, want wall %q", got, WallLeftPad)
	}
	// Player spawns at the quarter mark standing on the floor
	if got := screen.Get(21, 22); got != PlayerChar {
		t.Errorf("cell (21,22) = %q, want player %q", got, PlayerChar)
	}
	// Starter pyramid
	if got := screen.Get(38, 22); got != CrateChar {
		t.Errorf("cell (38,22) = %q, want crate %q", got, CrateChar)
	}
	// HUD
	if !strings.Contains(screen.Row(0), "SCORE") {
		t.Errorf("HUD missing from top row: %q", screen.Row(0))
	}

	g.paused = true
	g.Render(screen)
	if !strings.Contains(screen.String(), "PAUSED") {
		t.Error("pause overlay missing")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	cfg := testConfig(99)

	g1 := New()
	g1.Reset(cfg)
	for i := 0; i < 80; i++ {
		in := core.NewInputFrame()
		if i%25 == 0 {
			in.Set(core.ActionDrop)
		}
		if i == 40 {
			in.Set(core.ActionJump)
		}
		if i%3 < 2 {
			in.Set(core.ActionRight)
		}
		g1.Step(in)
	}
	snap := g1.Snapshot()

	g2 := New()
	g2.Reset(cfg)
	g2.ApplySnapshot(snap)
	restored := g2.Snapshot()

	if snap.Hash() != restored.Hash() {
		t.Fatalf("restored snapshot differs: %d vs %d", snap.Hash(), restored.Hash())
	}

	// Stepping both games with drop-free input keeps them in lockstep
	right := core.NewInputFrame()
	right.Set(core.ActionRight)
	for i := 0; i < 20; i++ {
		g1.Step(right)
		g2.Step(right)
	}
	h1, h2 := g1.Snapshot().Hash(), g2.Snapshot().Hash()
	if h1 != h2 {
		t.Errorf("restored game diverged: %d vs %d", h1, h2)
	}
}
