package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hexopus/boxtop/internal/phys"
	"github.com/hexopus/boxtop/internal/scene"
	"github.com/hexopus/boxtop/internal/spatial"
	"github.com/hexopus/boxtop/internal/storage"
)

var (
	flagSimSteps  int
	flagSimGrid   float64
	flagSimRecord bool
	flagSimQuiet  bool
)

var simCmd = &cobra.Command{
	Use:   "sim <scene>",
	Short: "Run a scene headless and report collision statistics",
	Long: `Run a scene without rendering and report collision statistics.

The scene argument is a bundled scene name or a path to a scene YAML
file. With --grid, a uniform grid broad phase prunes distant pairs
before the exact sweep; the simulation outcome is identical either
way, only the pair scan gets cheaper.

Examples:
  boxtop sim corridor
  boxtop sim avalanche --steps 2000
  boxtop sim ./my-scene.yaml --grid 8 --record`,
	Args: cobra.ExactArgs(1),
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimSteps, "steps", 600, "Number of frames to simulate")
	simCmd.Flags().Float64Var(&flagSimGrid, "grid", 0, "Broad-phase grid cell size in world units (0 = off)")
	simCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Save the run to the database")
	simCmd.Flags().BoolVar(&flagSimQuiet, "quiet", false, "Only print the final summary")
}

func runSim(_ *cobra.Command, args []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sim",
	})
	if flagSimQuiet {
		logger.SetLevel(log.WarnLevel)
	}

	sc, err := scene.Resolve(args[0])
	if err != nil {
		logger.Error("cannot load scene", "error", err)
		os.Exit(1)
	}

	world, err := sc.Build()
	if err != nil {
		logger.Error("cannot build scene", "error", err)
		os.Exit(1)
	}

	bodies := world.Handler.Bodies()
	logger.Info("scene loaded",
		"name", sc.Name,
		"bodies", len(bodies),
		"gravity", sc.Gravity,
	)

	// Optional grid broad phase. Moving bodies are reinserted every frame
	// with velocity-expanded bounds so the filter never hides a pair that
	// could actually collide.
	var grid *spatial.Grid
	ids := make(map[*phys.Body]int, len(bodies))
	if flagSimGrid > 0 {
		bounds := phys.AABB{Max: phys.Vec{X: sc.Size.W, Y: sc.Size.H}}
		grid = spatial.NewGrid(bounds, flagSimGrid)
		for i, b := range bodies {
			ids[b] = i
			grid.Insert(i, b.Shape().Bounds().Expand(b.Vel))
		}
		world.Handler.SetFilter(func(a, b *phys.Body) bool {
			return grid.SharesCell(ids[a], ids[b])
		})
		logger.Info("broad phase enabled", "cell", flagSimGrid)
	}

	start := time.Now()
	collisions := 0
	for step := 0; step < flagSimSteps; step++ {
		// Gravity changes velocities, so it must land before the grid
		// refresh for the expanded bounds to cover this frame's motion.
		world.ApplyGravity()
		if grid != nil {
			for b, id := range ids {
				if b.Static() {
					continue
				}
				grid.Update(id, b.Shape().Bounds().Expand(b.Vel))
			}
		}
		world.Handler.Update()
		collisions += len(world.Handler.Collisions())

		if (step+1)%100 == 0 {
			logger.Info("progress", "step", step+1, "collisions", collisions)
		}
	}
	elapsed := time.Since(start)

	logger.Info("run complete", "steps", flagSimSteps, "collisions", collisions, "elapsed", elapsed)

	fmt.Printf("Scene:      %s\n", sc.Name)
	fmt.Printf("Steps:      %d\n", flagSimSteps)
	fmt.Printf("Bodies:     %d\n", len(bodies))
	fmt.Printf("Collisions: %d\n", collisions)
	fmt.Printf("Elapsed:    %s\n", elapsed.Round(time.Microsecond))

	if flagSimRecord {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			logger.Error("cannot open database", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		id, err := store.SaveSimRun(storage.SimRun{
			Scene:      sc.Name,
			Steps:      flagSimSteps,
			Bodies:     len(bodies),
			Collisions: collisions,
			WallMicros: elapsed.Microseconds(),
		})
		if err != nil {
			logger.Error("cannot save run", "error", err)
			os.Exit(1)
		}
		logger.Info("run recorded", "id", id)

		// Show earlier runs of the same scene for comparison
		if prev, prevErr := store.SceneSimRuns(sc.Name, 5); prevErr == nil && len(prev) > 1 {
			fmt.Println()
			fmt.Printf("Recent %q runs:\n", sc.Name)
			for _, r := range prev {
				fmt.Printf("  #%-4d %s  steps=%-6d collisions=%-6d %s\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04"),
					r.Steps, r.Collisions,
					(time.Duration(r.WallMicros) * time.Microsecond).Round(time.Microsecond))
			}
		}
	}
}
