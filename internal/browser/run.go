package browser

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/comfy-org/comfy-fs/internal/remotefs"
)

// Run starts the browser on the alternate screen and blocks until the user
// quits.
func Run(fs remotefs.Client, startPath string) error {
	program := tea.NewProgram(New(fs, startPath), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
