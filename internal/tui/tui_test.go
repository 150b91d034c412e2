package tui

import (
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royal-15/SpotiPlay-Desktop/internal/classify"
	"github.com/royal-15/SpotiPlay-Desktop/internal/config"
	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

type fakeQueue struct {
	mu        sync.Mutex
	requests  []string
	modes     []classify.Mode
	cancelled int
	cleared   int
	failed    int
	items     []model.Item
}

func (q *fakeQueue) AddRequest(text string, mode classify.Mode) ([]model.Item, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.requests = append(q.requests, text)
	q.modes = append(q.modes, mode)
	return []model.Item{{ID: "1", Input: text}}, nil
}

func (q *fakeQueue) CancelAll() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cancelled++
}

func (q *fakeQueue) ClearCompleted() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cleared++
	return 2
}

func (q *fakeQueue) ClearFailed() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.failed++
	return 1
}

func (q *fakeQueue) UpdateConfig(*config.Settings) error { return nil }

func (q *fakeQueue) Snapshot() []model.Item { return q.items }

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestModel_ModeCycles(t *testing.T) {
	m := NewModel(&fakeQueue{}, "/music")
	assert.Equal(t, classify.ModeAuto, m.Mode())

	for _, want := range []classify.Mode{classify.ModeSpotify, classify.ModeYouTube, classify.ModeSearchYouTube, classify.ModeSearchSpotify, classify.ModeAuto} {
		m, _ = update(t, m, key("tab"))
		assert.Equal(t, want, m.Mode())
	}
}

func TestModel_EnterAddsRequest(t *testing.T) {
	q := &fakeQueue{}
	m := NewModel(q, "/music")
	m, _ = update(t, m, key("tab"))
	m.textInput.SetValue("  some song  ")

	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	assert.Empty(t, m.textInput.Value())

	msg := cmd()
	require.IsType(t, requestDoneMsg{}, msg)
	assert.Equal(t, []string{"some song"}, q.requests)
	assert.Equal(t, []classify.Mode{classify.ModeSpotify}, q.modes)

	m, _ = update(t, m, msg)
	require.Len(t, m.logs, 1)
	assert.Equal(t, "Queued 1 item(s)", m.logs[0].Message)
}

func TestModel_EnterIgnoresEmptyInput(t *testing.T) {
	q := &fakeQueue{}
	m := NewModel(q, "/music")
	_, cmd := update(t, m, key("enter"))
	assert.Nil(t, cmd)
	assert.Empty(t, q.requests)
}

func TestModel_RejectionsAreLogged(t *testing.T) {
	m := NewModel(&fakeQueue{}, "/music")
	m, _ = update(t, m, requestDoneMsg{err: &classify.ValidationError{
		Mode:     classify.ModeYouTube,
		Rejected: []classify.Rejection{{Line: "https://example.com", Reason: "not a YouTube URL"}},
	}})

	require.Len(t, m.logs, 1)
	assert.Equal(t, LevelWarning, m.logs[0].Level)
	assert.Equal(t, "not a YouTube URL: https://example.com", m.logs[0].Message)
}

func TestModel_QueueKeys(t *testing.T) {
	q := &fakeQueue{}
	m := NewModel(q, "/music")

	// typed into the input while it has focus
	m, cmd := update(t, m, key("x"))
	if cmd != nil {
		cmd()
	}
	assert.Zero(t, q.cancelled)
	assert.Equal(t, "x", m.textInput.Value())

	m, _ = update(t, m, key("esc"))
	assert.False(t, m.textInput.Focused())

	for _, tc := range []struct {
		key  string
		want string
	}{
		{"x", "Cancelling all downloads"},
		{"c", "Cleared 2 finished item(s)"},
		{"f", "Cleared 1 failed item(s)"},
	} {
		var cmd tea.Cmd
		m, cmd = update(t, m, key(tc.key))
		require.NotNil(t, cmd, tc.key)
		m, _ = update(t, m, cmd())
		assert.Equal(t, tc.want, m.logs[len(m.logs)-1].Message)
	}

	assert.Equal(t, 1, q.cancelled)
	assert.Equal(t, 1, q.cleared)
	assert.Equal(t, 1, q.failed)
}

func TestModel_ItemMessages(t *testing.T) {
	q := &fakeQueue{items: []model.Item{{ID: "a", Input: "first", Status: model.StatusCompleted}}}
	m := NewModel(q, "/music")
	assert.Equal(t, 1, m.stats.Completed)

	m, _ = update(t, m, ItemAddedMsg{Item: model.Item{ID: "b", Input: "second", Status: model.StatusQueued}})
	assert.Equal(t, []string{"a", "b"}, m.order)

	m, _ = update(t, m, ItemUpdatedMsg{Item: model.Item{ID: "b", Input: "second", Status: model.StatusRunning, Percent: 42}})
	assert.Equal(t, 42, m.items["b"].Percent)
	assert.Contains(t, m.View(), "second")

	m, _ = update(t, m, ItemUpdatedMsg{Item: model.Item{ID: "b", Input: "second", Status: model.StatusFailed, Error: "ERROR: unavailable"}})
	require.NotEmpty(t, m.logs)
	assert.Equal(t, LevelError, m.logs[len(m.logs)-1].Level)
	assert.True(t, strings.Contains(m.View(), "ERROR: unavailable"))

	m, _ = update(t, m, ItemRemovedMsg{ID: "a"})
	assert.Equal(t, []string{"b"}, m.order)
	_, ok := m.items["a"]
	assert.False(t, ok)

	m, _ = update(t, m, StatsMsg{Stats: model.Stats{Total: 1, Failed: 1}})
	assert.Contains(t, m.View(), "Failed: 1")
}

func TestModel_UpdateForUnknownItemIgnored(t *testing.T) {
	m := NewModel(&fakeQueue{}, "/music")
	m, _ = update(t, m, ItemUpdatedMsg{Item: model.Item{ID: "ghost", Status: model.StatusRunning}})
	assert.Empty(t, m.order)
	assert.Empty(t, m.items)
}

func TestBridge_DropsWithoutProgram(t *testing.T) {
	b := NewBridge()
	// must not block or panic
	b.OnItemAdded(model.Item{ID: "x"})
	b.OnItemUpdated(model.Item{ID: "x"})
	b.OnItemRemoved("x")
	b.OnStatsChanged(model.Stats{})
}
