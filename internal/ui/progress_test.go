package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/require"

	"reflq/internal/pipeline"
)

func newModel(scripts ...string) *progressModel {
	return NewProgressModel("batch", scripts, make(chan pipeline.Event)).(*progressModel)
}

func send(m *progressModel, file string, stage pipeline.Stage, status pipeline.Status) {
	m.Update(eventMsg(pipeline.Event{File: file, Stage: stage, Status: status}))
}

func TestEventsDriveStatus(t *testing.T) {
	m := newModel("a.rq", "b.rq")
	send(m, "a.rq", pipeline.StageLoad, pipeline.StatusWorking)
	require.Equal(t, "loading", m.items[0].status)
	require.InDelta(t, 0.1, m.percent(), 1e-9)

	send(m, "a.rq", pipeline.StageQuery, pipeline.StatusDone)
	send(m, "b.rq", pipeline.StageCache, pipeline.StatusCached)
	require.Equal(t, "done", m.items[0].status)
	require.Equal(t, "cached", m.items[1].status)
	require.Equal(t, 2, m.finished())
	require.InDelta(t, 1.0, m.percent(), 1e-9)

	// late events after a terminal status are ignored
	send(m, "a.rq", pipeline.StageQuery, pipeline.StatusWorking)
	require.Equal(t, "done", m.items[0].status)

	send(m, "unknown.rq", pipeline.StageLoad, pipeline.StatusWorking)
}

func TestErrorsAreCounted(t *testing.T) {
	m := newModel("a.rq")
	send(m, "a.rq", pipeline.StageLoad, pipeline.StatusError)
	require.Equal(t, 1, m.failed)
	require.Contains(t, m.View(), "1 failed")
}

func TestViewAndQuit(t *testing.T) {
	m := newModel("scripts/very/long/path/to/a/probe.rq")
	m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	view := m.View()
	require.Contains(t, view, "batch (0/1)")
	require.Contains(t, view, "queued")
	require.Contains(t, view, "...")

	_, cmd := m.Update(doneMsg{})
	require.NotNil(t, cmd)
	require.True(t, m.done)
	require.Contains(t, m.View(), "done: batch")
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "abcd...", truncate("abcdefghij", 7))
	require.Equal(t, "ab", truncate("abcdef", 2))
	require.Equal(t, "whatever", truncate("whatever", 0))
}

func TestTruncateKeepsRequestedWidth(t *testing.T) {
	for _, width := range []int{4, 7, 12} {
		got := truncate("scripts/very/long/path/to/query.rq", width)
		require.Equal(t, width, runewidth.StringWidth(got), got)
		require.True(t, strings.HasSuffix(got, "..."), got)
	}
	require.Equal(t, "漢...", truncate("漢字漢字漢字", 5))
}
