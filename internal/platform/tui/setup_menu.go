package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hexopus/boxtop/internal/config"
	"github.com/hexopus/boxtop/internal/core"
	"github.com/hexopus/boxtop/internal/scene"
)

// SetupSelection holds the user's pre-game choices.
type SetupSelection struct {
	Scene      string // Empty for games without scenes
	Difficulty config.DifficultyPreset
}

// difficultyChoices lists the presets in menu order.
var difficultyChoices = []struct {
	Preset config.DifficultyPreset
	Label  string
}{
	{config.DifficultyEasy, "Easy"},
	{config.DifficultyNormal, "Normal"},
	{config.DifficultyHard, "Hard"},
	{config.DifficultyFixed, "Fixed (no ramp-up)"},
}

// SetupModel lets users choose a scene and difficulty before starting a game.
// Games without scenes skip straight to the difficulty stage.
type SetupModel struct {
	title        string
	scenes       []string
	sceneCursor  int
	diffCursor   int
	inDiffSelect bool
	width        int
	height       int
	keyMapper    *KeyMapper
	selection    SetupSelection
	choosing     bool
	quitting     bool
	back         bool
}

// NewSetupModel creates a new pre-game setup model.
// Pass nil scenes for games that have no scene selection.
func NewSetupModel(title string, scenes []string, width, height int) SetupModel {
	return SetupModel{
		title:        title,
		scenes:       scenes,
		inDiffSelect: len(scenes) == 0,
		width:        width,
		height:       height,
		keyMapper:    NewKeyMapper(),
		choosing:     true,
	}
}

// Init initializes the model.
func (m SetupModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m SetupModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	if m.inDiffSelect {
		return m.handleDiffSelectKey(action)
	}
	return m.handleSceneSelectKey(action)
}

func (m SetupModel) handleSceneSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.sceneCursor > 0 {
			m.sceneCursor--
		}
	case MenuActionDown:
		if m.sceneCursor < len(m.scenes)-1 {
			m.sceneCursor++
		}
	case MenuActionSelect:
		m.selection.Scene = m.scenes[m.sceneCursor]
		m.inDiffSelect = true
		m.diffCursor = 1 // Default to Normal
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

func (m SetupModel) handleDiffSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.diffCursor > 0 {
			m.diffCursor--
		}
	case MenuActionDown:
		if m.diffCursor < len(difficultyChoices)-1 {
			m.diffCursor++
		}
	case MenuActionSelect:
		m.choosing = false
		m.selection.Difficulty = difficultyChoices[m.diffCursor].Preset
		return m, tea.Quit
	case MenuActionBack:
		if len(m.scenes) > 0 {
			m.inDiffSelect = false
		} else {
			m.back = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the scene/difficulty selection.
func (m SetupModel) View() string {
	if m.quitting {
		return ""
	}

	if m.inDiffSelect {
		return m.viewDiffSelect()
	}
	return m.viewSceneSelect()
}

func (m SetupModel) viewSceneSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.title, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select scene:", m.width))
	b.WriteString("\n\n")

	for i, name := range m.scenes {
		cursor := "  "
		if i == m.sceneCursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, name), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m SetupModel) viewDiffSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.title, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select difficulty:", m.width))
	b.WriteString("\n\n")

	for i, choice := range m.difficultyRows() {
		cursor := "  "
		if i == m.diffCursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, choice), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m SetupModel) difficultyRows() []string {
	rows := make([]string, len(difficultyChoices))
	for i, c := range difficultyChoices {
		rows[i] = c.Label
	}
	return rows
}

// Selected returns the selection, or nil if still choosing.
func (m SetupModel) Selected() *SetupSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsChoosing returns true if still in selection mode.
func (m SetupModel) IsChoosing() bool {
	return m.choosing
}

// IsQuitting returns true if user wants to quit.
func (m SetupModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m SetupModel) WantsBack() bool {
	return m.back
}

// RunSetupSelector runs the pre-game setup for the given game and returns the
// selection, or nil if the user backed out.
func RunSetupSelector(gameID string, cfg core.RuntimeConfig) (*SetupSelection, core.RuntimeConfig, error) {
	title := strings.ToUpper(gameID)

	// Only the crates game picks a scene; juggle builds its own court.
	var scenes []string
	if gameID == "crates" {
		scenes = scene.Names()
	}

	model := NewSetupModel(title, scenes, cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, cfg, err
	}

	m, ok := finalModel.(SetupModel)
	if !ok {
		return nil, cfg, nil
	}

	if m.IsQuitting() || m.WantsBack() {
		return nil, cfg, nil
	}

	return m.Selected(), cfg, nil
}
