// Package browser is the interactive terminal file browser. It navigates the
// remote tree through the shared capability handle; all transfer semantics
// live in the transfer package.
package browser

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/comfy-org/comfy-fs/internal/remotefs"
	"github.com/comfy-org/comfy-fs/internal/utils"
)

// Entry is one row of the file list.
type Entry struct {
	Name      string
	Path      string
	Size      int64
	Modified  time.Time
	IsDir     bool
	Extension string
}

func EntryFromRemote(f remotefs.RemoteFile) Entry {
	e := Entry{
		Name:     f.Name,
		Path:     f.Path,
		Size:     f.Size,
		Modified: f.Modified,
		IsDir:    f.IsDir,
	}
	if !f.IsDir {
		if idx := strings.LastIndex(f.Name, "."); idx >= 0 {
			e.Extension = f.Name[idx+1:]
		}
	}
	return e
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Select  key.Binding
	Sort    key.Binding
	Reverse key.Binding
	GoUp    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Enter:   key.NewBinding(key.WithKeys("enter")),
	Select:  key.NewBinding(key.WithKeys(" ")),
	Sort:    key.NewBinding(key.WithKeys("s")),
	Reverse: key.NewBinding(key.WithKeys("r")),
	GoUp:    key.NewBinding(key.WithKeys("backspace")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dirStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("8"))
	checkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type entriesMsg struct {
	path    string
	entries []Entry
	err     error
}

type downloadedMsg struct {
	name string
	err  error
}

// Model is the bubbletea state for the browser.
type Model struct {
	fs remotefs.Client

	currentPath string
	entries     []Entry
	cursor      int
	sortMode    SortMode
	reverseSort bool
	selected    map[string]bool

	loading bool
	status  string
	err     error
	height  int
}

func New(fs remotefs.Client, startPath string) Model {
	return Model{
		fs:          fs,
		currentPath: startPath,
		sortMode:    SortModified,
		selected:    make(map[string]bool),
		loading:     true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadDir(m.currentPath)
}

func (m Model) loadDir(dir string) tea.Cmd {
	fs := m.fs
	return func() tea.Msg {
		files, err := fs.List(context.Background(), dir)
		if err != nil {
			return entriesMsg{path: dir, err: err}
		}
		entries := make([]Entry, 0, len(files))
		for _, f := range files {
			entries = append(entries, EntryFromRemote(f))
		}
		return entriesMsg{path: dir, entries: entries}
	}
}

func (m Model) downloadFile(entry Entry) tea.Cmd {
	fs := m.fs
	return func() tea.Msg {
		err := fs.Download(context.Background(), entry.Path, entry.Name)
		return downloadedMsg{name: entry.Name, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case entriesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.currentPath = msg.path
		m.entries = msg.entries
		m.cursor = 0
		m.resort()
		return m, nil

	case downloadedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("download %s failed: %v", msg.name, msg.err))
		} else {
			m.status = fmt.Sprintf("downloaded %s", msg.name)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, keys.Enter):
		if entry, ok := m.current(); ok {
			if entry.IsDir {
				m.loading = true
				return m, m.loadDir(entry.Path)
			}
			m.status = fmt.Sprintf("downloading %s...", entry.Name)
			return m, m.downloadFile(entry)
		}

	case key.Matches(msg, keys.Select):
		m.toggleSelection()

	case key.Matches(msg, keys.Sort):
		m.sortMode = m.sortMode.Next()
		m.resort()

	case key.Matches(msg, keys.Reverse):
		m.reverseSort = !m.reverseSort
		m.resort()

	case key.Matches(msg, keys.GoUp):
		if m.currentPath != "/" {
			parent := path.Dir(m.currentPath)
			m.loading = true
			return m, m.loadDir(parent)
		}
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if len(m.entries) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > len(m.entries)-1 {
		m.cursor = len(m.entries) - 1
	}
}

func (m Model) current() (Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return Entry{}, false
	}
	return m.entries[m.cursor], true
}

func (m *Model) toggleSelection() {
	entry, ok := m.current()
	if !ok {
		return
	}
	if m.selected[entry.Path] {
		delete(m.selected, entry.Path)
	} else {
		m.selected[entry.Path] = true
	}
}

func (m *Model) resort() {
	SortEntries(m.entries, m.sortMode, m.reverseSort)
	if m.cursor > len(m.entries)-1 {
		m.cursor = 0
	}
}

// Selected returns the paths toggled with the space key.
func (m Model) Selected() []string {
	paths := make([]string, 0, len(m.selected))
	for p := range m.selected {
		paths = append(paths, p)
	}
	return paths
}

func (m Model) View() string {
	var b strings.Builder

	order := "down"
	if m.reverseSort {
		order = "up"
	}
	b.WriteString(titleStyle.Render("Comfy File Browser"))
	b.WriteString(" - ")
	b.WriteString(pathStyle.Render(m.currentPath))
	b.WriteString(faintStyle.Render(fmt.Sprintf("  [sort: %s %s]", m.sortMode, order)))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString("loading...\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")
	case len(m.entries) == 0:
		b.WriteString(faintStyle.Render("(empty directory)"))
		b.WriteString("\n")
	default:
		for i, entry := range m.entries {
			b.WriteString(m.renderEntry(i, entry))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(faintStyle.Render("up/down: navigate | enter: open/download | space: select | s: sort | r: reverse | backspace: up | q: quit"))
	return b.String()
}

func (m Model) renderEntry(i int, entry Entry) string {
	marker := "[ ]"
	if m.selected[entry.Path] {
		marker = checkStyle.Render("[x]")
	}

	name := entry.Name
	detail := ""
	if entry.IsDir {
		name = dirStyle.Render(name + "/")
	} else {
		detail = fmt.Sprintf(" (%s)", utils.FormatBytes(entry.Size))
	}
	detail += faintStyle.Render(" - " + entry.Modified.Format("2006-01-02 15:04"))

	line := fmt.Sprintf("%s %s%s", marker, name, detail)
	if i == m.cursor {
		return cursorStyle.Render(line)
	}
	return line
}
