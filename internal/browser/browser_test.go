package browser

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comfy-org/comfy-fs/internal/remotefs"
)

func TestSortMode_Cycle(t *testing.T) {
	assert.Equal(t, SortName, SortModified.Next())
	assert.Equal(t, SortSize, SortName.Next())
	assert.Equal(t, SortType, SortSize.Next())
	assert.Equal(t, SortModified, SortType.Next())
}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, SortName, ParseSortMode("name"))
	assert.Equal(t, SortSize, ParseSortMode("Size"))
	assert.Equal(t, SortType, ParseSortMode("type"))
	assert.Equal(t, SortModified, ParseSortMode("modified"))
	assert.Equal(t, SortModified, ParseSortMode("bogus"))
}

func testEntries(now time.Time) []Entry {
	return []Entry{
		{Name: "zeta.txt", Size: 10, Modified: now.Add(-2 * time.Hour), Extension: "txt"},
		{Name: "Alpha.pdf", Size: 30, Modified: now, Extension: "pdf"},
		{Name: "docs", IsDir: true, Modified: now.Add(-1 * time.Hour)},
		{Name: "beta.txt", Size: 20, Modified: now.Add(-1 * time.Hour), Extension: "txt"},
	}
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestSortEntries_DirectoriesFirst(t *testing.T) {
	now := time.Now()
	for mode := SortModified; mode <= SortType; mode++ {
		for _, reverse := range []bool{false, true} {
			entries := testEntries(now)
			SortEntries(entries, mode, reverse)
			assert.Equal(t, "docs", entries[0].Name, "mode %v reverse %v", mode, reverse)
		}
	}
}

func TestSortEntries_ByName(t *testing.T) {
	entries := testEntries(time.Now())
	SortEntries(entries, SortName, false)
	assert.Equal(t, []string{"docs", "Alpha.pdf", "beta.txt", "zeta.txt"}, names(entries))

	SortEntries(entries, SortName, true)
	assert.Equal(t, []string{"docs", "zeta.txt", "beta.txt", "Alpha.pdf"}, names(entries))
}

func TestSortEntries_BySizeDescending(t *testing.T) {
	entries := testEntries(time.Now())
	SortEntries(entries, SortSize, false)
	assert.Equal(t, []string{"docs", "Alpha.pdf", "beta.txt", "zeta.txt"}, names(entries))
}

func TestSortEntries_ByModifiedNewestFirst(t *testing.T) {
	entries := testEntries(time.Now())
	SortEntries(entries, SortModified, false)
	assert.Equal(t, "Alpha.pdf", entries[1].Name)
	assert.Equal(t, "zeta.txt", entries[len(entries)-1].Name)
}

func TestToggleSelection(t *testing.T) {
	m := New(nil, "/")
	m.entries = []Entry{{Name: "test.txt", Path: "/test.txt", Size: 100}}

	require.Empty(t, m.Selected())
	m.toggleSelection()
	assert.Equal(t, []string{"/test.txt"}, m.Selected())
	m.toggleSelection()
	assert.Empty(t, m.Selected())
}

func TestMoveCursor_Bounds(t *testing.T) {
	m := New(nil, "/")
	m.entries = []Entry{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	m.moveCursor(-5)
	assert.Zero(t, m.cursor)
	m.moveCursor(10)
	assert.Equal(t, 2, m.cursor)
}

func TestUpdate_EntriesMsgResetsCursor(t *testing.T) {
	m := New(nil, "/")
	m.cursor = 5

	updated, _ := m.Update(entriesMsg{
		path:    "/docs",
		entries: []Entry{{Name: "a.txt", Path: "/docs/a.txt", Modified: time.Now()}},
	})
	model := updated.(Model)
	assert.Equal(t, "/docs", model.currentPath)
	assert.Zero(t, model.cursor)
	assert.False(t, model.loading)
}

func TestUpdate_QuitKey(t *testing.T) {
	m := New(nil, "/")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestEntryFromRemote_Extension(t *testing.T) {
	e := EntryFromRemote(remotefs.RemoteFile{Name: "archive.tar.gz", Path: "/archive.tar.gz", Size: 5})
	assert.Equal(t, "gz", e.Extension)

	dir := EntryFromRemote(remotefs.RemoteFile{Name: "docs", Path: "/docs", IsDir: true})
	assert.Empty(t, dir.Extension)
}
