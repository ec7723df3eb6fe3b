package juggle

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

	inputSequence := make([]core.InputFrame, 600)
	for i := range inputSequence {
		inputSequence[i] = core.NewInputFrame()
		if i%7 < 4 {
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

	if snap1.PaddleX != snap2.PaddleX {
		t.Errorf("Determinism failed: paddle positions differ. Run1=%g, Run2=%g", snap1.PaddleX, snap2.PaddleX)
	}

	if snap1.BallCount != snap2.BallCount {
		t.Errorf("Determinism failed: ball counts differ. Run1=%d, Run2=%d", snap1.BallCount, snap2.BallCount)
	}
}

func TestGameReset(t *testing.T) {
	cfg := testConfig(42)

	g := New()
	g.Reset(cfg)

	for i := 0; i < 120; i++ {
		in := core.NewInputFrame()
		if i%2 == 0 {
			in.Set(core.ActionLeft)
		}
		g.Step(in)
	}

	g.Reset(cfg)

	if g.score != 0 || g.lost != 0 {
		t.Errorf("Reset should clear score, got score=%d lost=%d", g.score, g.lost)
	}
	if g.tickCount != 0 {
		t.Errorf("Reset should clear tickCount, got %d", g.tickCount)
	}
	if g.gameOver || g.paused {
		t.Errorf("Reset should clear flags, got gameOver=%v paused=%v", g.gameOver, g.paused)
	}
	if len(g.balls) != 0 {
		t.Errorf("Reset should start with no balls in play, got %d", len(g.balls))
	}
	if g.serveWait != g.cfg.Gameplay.ServeDelay {
		t.Errorf("serveWait = %d after Reset, want %d", g.serveWait, g.cfg.Gameplay.ServeDelay)
	}
	if g.paddleW != g.cfg.Paddle.Width {
		t.Errorf("paddleW = %d after Reset, want %d", g.paddleW, g.cfg.Paddle.Width)
	}
	pb := g.paddle.Shape().Bounds()
	if pb.Min.X != 36 || pb.Max.X != 44 {
		t.Errorf("paddle should spawn centered, got [%g, %g]", pb.Min.X, pb.Max.X)
	}
}

func TestServeAfterDelay(t *testing.T) {
	g := New()
	g.Reset(testConfig(5))
	g.diff.SetEnabled(false)

	noInput := core.NewInputFrame()
	for i := 0; i < g.cfg.Gameplay.ServeDelay; i++ {
		g.Step(noInput)
	}
	if len(g.balls) != 0 {
		t.Fatalf("ball served before the delay elapsed, have %d", len(g.balls))
	}

	g.Step(noInput)
	if len(g.balls) != 1 {
		t.Fatalf("ball not served after the delay, have %d", len(g.balls))
	}

	b := g.balls[0].body
	if b.Vel.Y != -g.cfg.Physics.DropSpeed {
		t.Errorf("served ball VY = %g, want %g", b.Vel.Y, -g.cfg.Physics.DropSpeed)
	}
	if got := b.Shape().Bounds().Min.Y; got != 16 {
		t.Errorf("served ball bottom = %g, want 16", got)
	}
	if g.serveWait != g.cfg.Gameplay.ServeDelay {
		t.Errorf("serve should rewind the delay, got %d", g.serveWait)
	}
}

func TestPaddleScoring(t *testing.T) {
	g := New()
	g.Reset(testConfig(2))
	g.diff.SetEnabled(false)

	// A ball two units above the paddle, already falling
	b := phys.NewBody(g.cfg.Balls.Mass, phys.NewRect(39, 6, 41, 7),
		phys.Vec{X: 0, Y: -1}, g.cfg.Balls.Elasticity, g.cfg.Balls.Friction)
	g.handler.Add(b)
	g.handler.Reinit()
	g.balls = append(g.balls, &ball{body: b})

	noInput := core.NewInputFrame()
	g.Step(noInput)
	if g.score != 0 {
		t.Fatalf("scored before the ball reached the paddle, score=%d", g.score)
	}

	g.Step(noInput)
	if g.score != 1 {
		t.Errorf("paddle hit should score once, score=%d", g.score)
	}
	if b.Vel.Y != 1.125 {
		t.Errorf("ball VY after bounce = %g, want 1.125", b.Vel.Y)
	}
}

func TestDividerBounce(t *testing.T) {
	g := New()
	g.Reset(testConfig(3))
	g.diff.SetEnabled(false)

	// A ball at divider height heading right, two units short of the line
	b := phys.NewBody(g.cfg.Balls.Mass, phys.NewRect(36, 9, 38, 10),
		phys.Vec{X: 1, Y: 0}, g.cfg.Balls.Elasticity, g.cfg.Balls.Friction)
	g.handler.Add(b)
	g.handler.Reinit()
	g.balls = append(g.balls, &ball{body: b})

	noInput := core.NewInputFrame()
	for i := 0; i < 3; i++ {
		g.Step(noInput)
	}

	if b.Vel.X >= 0 {
		t.Errorf("ball VX = %g after reaching the divider, want a bounce back", b.Vel.X)
	}
	if got := b.Shape().Bounds().Max.X; got > 40 {
		t.Errorf("ball crossed the divider, right edge at %g", got)
	}
}

func TestDividerStraddlePassThrough(t *testing.T) {
	g := New()
	g.Reset(testConfig(7))
	g.diff.SetEnabled(false)

	// A ball astride the divider column falls straight through: the line
	// has no horizontal faces.
	b := phys.NewBody(g.cfg.Balls.Mass, phys.NewRect(39, 15, 41, 16),
		phys.Vec{X: 0, Y: -1}, g.cfg.Balls.Elasticity, g.cfg.Balls.Friction)
	g.handler.Add(b)
	g.handler.Reinit()
	g.balls = append(g.balls, &ball{body: b})

	noInput := core.NewInputFrame()
	for i := 0; i < 12 && b.Shape().Bounds().Min.Y >= dividerLo; i++ {
		g.Step(noInput)
	}

	if got := b.Shape().Bounds().Min.Y; got >= dividerLo {
		t.Fatalf("ball did not fall past the divider, bottom at %g", got)
	}
	if b.Vel.X != 0 {
		t.Errorf("straddling ball was deflected, VX = %g", b.Vel.X)
	}
}

func TestBallLostAfterGrace(t *testing.T) {
	g := New()
	g.Reset(testConfig(8))
	g.diff.SetEnabled(false)

	// A ball parked on the floor, away from the paddle
	b := phys.NewBody(g.cfg.Balls.Mass, phys.NewRect(20, 1, 22, 2),
		phys.Vec{}, g.cfg.Balls.Elasticity, g.cfg.Balls.Friction)
	g.handler.Add(b)
	g.handler.Reinit()
	g.balls = append(g.balls, &ball{body: b})

	noInput := core.NewInputFrame()
	for i := 0; i < 120 && !g.gameOver; i++ {
		g.Step(noInput)
	}

	if len(g.balls) != 0 {
		t.Errorf("grounded ball should be lost, still have %d", len(g.balls))
	}
	if g.lost != 1 {
		t.Errorf("lost = %d, want 1", g.lost)
	}
	// With one starting ball gone, the juggle cannot continue
	if !g.gameOver {
		t.Error("losing the only ball should end the round")
	}
}

func TestPaddleClampAtWall(t *testing.T) {
	g := New()
	g.Reset(testConfig(4))

	left := core.NewInputFrame()
	left.Set(core.ActionLeft)
	for i := 0; i < 40; i++ {
		g.Step(left)
	}

	// The paddle stops one ball width plus one clear of the wall face
	want := 1 + g.cfg.Balls.Width + 1
	if got := g.paddle.Shape().Bounds().Min.X; got != want {
		t.Errorf("paddle left edge = %g, want %g", got, want)
	}
}

func TestDifficultyShrinksPaddle(t *testing.T) {
	g := New()
	g.Reset(testConfig(6))

	// Force max difficulty through the score progression
	g.score = g.cfg.Difficulty.Progression.MaxAt
	g.Step(core.NewInputFrame())

	want := g.cfg.Paddle.Width - g.cfg.Difficulty.Scaling.PaddleShrink
	if g.paddleW != want {
		t.Errorf("paddleW = %d at max difficulty, want %d", g.paddleW, want)
	}
	pb := g.paddle.Shape().Bounds()
	if got := pb.Max.X - pb.Min.X; got != float64(want) {
		t.Errorf("paddle body width = %g, want %d", got, want)
	}
}

func TestGameRender(t *testing.T) {
	g := New()
	g.Reset(testConfig(9))

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	if got := screen.Get(40, 23); got != FloorChar {
		t.Errorf("cell (40,23) = %q, want floor %q", got, FloorChar)
	}
	if got := screen.Get(0, 12); got != WallLeftPad {
		t.Errorf("cell (0,12) = %q, want wall %q", got, WallLeftPad)
	}
	if got := screen.Get(79, 12); got != WallRightPad {
		t.Errorf("cell (79,12) = %q, want wall %q", got, WallRightPad)
	}
	// Paddle hovers at its spawn height in the screen center
	if got := screen.Get(40, 20); got != PaddleChar {
		t.Errorf("cell (40,20) = %q, want paddle %q", got, PaddleChar)
	}
	if got := screen.Get(40, 14); got != DividerChar {
		t.Errorf("cell (40,14) = %q, want divider %q", got, DividerChar)
	}
	if !strings.Contains(screen.Row(0), "SCORE") {
		t.Errorf("HUD missing from top row: %q", screen.Row(0))
	}
	// No balls yet
	if !strings.Contains(screen.String(), "GET READY") {
		t.Error("serve prompt missing")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	cfg := testConfig(99)

	g1 := New()
	g1.Reset(cfg)
	for i := 0; i < 200; i++ {
		in := core.NewInputFrame()
		if i%9 < 5 {
			in.Set(core.ActionRight)
		} else if i%9 < 8 {
			in.Set(core.ActionLeft)
		}
		if g1.Step(in).State.GameOver {
			break
		}
	}
	snap := g1.Snapshot()

	g2 := New()
	g2.Reset(cfg)
	g2.ApplySnapshot(snap)
	restored := g2.Snapshot()

	if snap.Hash() != restored.Hash() {
		t.Fatalf("restored snapshot differs: %d vs %d", snap.Hash(), restored.Hash())
	}
	if restored.BallCount != snap.BallCount {
		t.Errorf("ball count = %d, want %d", restored.BallCount, snap.BallCount)
	}
	if restored.PaddleX != snap.PaddleX {
		t.Errorf("paddle position = %g, want %g", restored.PaddleX, snap.PaddleX)
	}
}
