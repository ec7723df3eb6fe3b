// boxtop is a terminal arcade built around an exact axis-aligned collision
// resolver. Games share one deterministic physics world.
//
// Usage:
//
//	boxtop list              - List available games
//	boxtop play <game>       - Play a game
//	boxtop menu              - Start menu to pick games interactively
//	boxtop serve             - Start SSH server for remote play
//	boxtop scores <game>     - Show high scores for a game
//	boxtop sim <scene>       - Run a scene headless and report statistics
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 30)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.boxtop/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/hexopus/boxtop/internal/games/crates"
	_ "github.com/hexopus/boxtop/internal/games/juggle"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "boxtop",
	Short: "Boxtop - Physics arcade in your terminal",
	Long: `Boxtop is a terminal arcade built around an exact collision resolver.
Crates stack, balls bounce, and every game runs the same deterministic
physics simulation.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores
  sim      - Run a scene headless and report statistics

Examples:
  boxtop list
  boxtop play crates
  boxtop menu
  boxtop serve --ssh :2222
  boxtop sim corridor --steps 2000`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.boxtop/scores.db", "Path to scores database")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
}
