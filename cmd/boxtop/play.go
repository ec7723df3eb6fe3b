package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hexopus/boxtop/internal/core"
	"github.com/hexopus/boxtop/internal/games/crates"
	"github.com/hexopus/boxtop/internal/games/juggle"
	"github.com/hexopus/boxtop/internal/platform/tui"
	"github.com/hexopus/boxtop/internal/registry"
	"github.com/hexopus/boxtop/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagScene      string
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  A/D, Left/Right - Move
  Space/W/Up      - Jump (crates)
  S/Down          - Drop the next crate early
  P               - Pause
  R               - Restart (after game over)
  Q/Ctrl+C        - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

When neither --scene nor --difficulty is given, a setup menu asks
for them interactively.

Examples:
  boxtop play crates
  boxtop play crates --scene corridor
  boxtop play juggle --difficulty hard
  boxtop play crates --scene avalanche --difficulty fixed
  boxtop play juggle --config ./my-juggle.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagScene, "scene", "", "Scene name or YAML path (crates only)")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'boxtop list' to see available games.")
		os.Exit(1)
	}

	// Get terminal size early for the setup selector
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Create runtime config
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Set config path, scene and difficulty for games before creation
	switch gameID {
	case "crates":
		crates.SetConfigPath(flagConfig)
		crates.SetDifficultyPreset(flagDifficulty)
		crates.SetScene(flagScene)

		// Ask interactively when no flag picked a setup
		if flagScene == "" && flagDifficulty == "" {
			selection, updatedCfg, selErr := tui.RunSetupSelector(gameID, cfg)
			if selErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", selErr)
				os.Exit(1)
			}
			cfg = updatedCfg

			// User pressed back or quit
			if selection == nil {
				return
			}

			crates.SetScene(selection.Scene)
			crates.SetDifficultyPreset(string(selection.Difficulty))
		}

	case "juggle":
		juggle.SetConfigPath(flagConfig)
		juggle.SetDifficultyPreset(flagDifficulty)

		if flagDifficulty == "" {
			selection, updatedCfg, selErr := tui.RunSetupSelector(gameID, cfg)
			if selErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", selErr)
				os.Exit(1)
			}
			cfg = updatedCfg

			// User pressed back or quit
			if selection == nil {
				return
			}

			juggle.SetDifficultyPreset(string(selection.Difficulty))
		}
	}

	// Create game instance
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	// Run the game
	runErr := tui.Run(game, store, cfg)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
