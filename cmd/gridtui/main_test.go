package main

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zucenko/gridbot/control"
	"github.com/zucenko/gridbot/model"
	"github.com/zucenko/gridbot/settings"
)

func newModel(t *testing.T) *Model {
	t.Helper()
	g, err := model.NewGridSize(5, 5)
	require.NoError(t, err)
	return NewModel(g, settings.Default(), 0, filepath.Join(t.TempDir(), "settings.yaml"))
}

func TestKeysDrawPath(t *testing.T) {
	m := newModel(t)
	assert.Equal(t, 3, m.row)
	assert.Equal(t, 2, m.col)

	m.handleKey("up")
	m.handleKey("enter")
	m.handleKey("left")
	m.handleKey("enter")
	assert.Equal(t, 4, m.controller.Grid().Len())
	assert.Equal(t, "UL", model.FormatRoute(m.controller.Grid()))

	// not adjacent to the end
	m.handleKey("up")
	m.handleKey("right")
	m.handleKey("right")
	m.handleKey("enter")
	assert.NotEmpty(t, m.message)
	assert.Equal(t, 4, m.controller.Grid().Len())

	m.handleKey("c")
	assert.Equal(t, 2, m.controller.Grid().Len())
	assert.Equal(t, 3, m.row)
}

func TestRunToCompletion(t *testing.T) {
	m := newModel(t)
	m.handleKey("up")
	m.handleKey("enter")
	m.handleKey("r")
	require.Equal(t, control.RUNNING, m.controller.State())

	now := time.Now()
	m.last = now
	for i := 0; i < 20 && m.controller.State() == control.RUNNING; i++ {
		now = now.Add(250 * time.Millisecond)
		m.Update(tickMsg(now))
	}
	assert.Equal(t, control.COMPLETE, m.controller.State())
	assert.Equal(t, model.Cell{Row: 2, Col: 2}, m.driver.Cell())
	assert.Contains(t, m.View(), "COMPLETE")

	m.handleKey("d")
	assert.Equal(t, control.IDLE, m.controller.State())
	assert.Equal(t, model.Cell{Row: 4, Col: 2}, m.driver.Cell())
}

func TestSettingsKeys(t *testing.T) {
	m := newModel(t)
	m.handleKey("s")
	require.Equal(t, control.SETTINGS, m.controller.State())
	assert.Contains(t, m.View(), "Brightness")

	m.handleKey("right")
	m.handleKey("down")
	m.handleKey("left")
	m.handleKey("s")
	assert.Equal(t, control.IDLE, m.controller.State())
	assert.Equal(t, 70, m.controller.Settings().Brightness)
	assert.Equal(t, settings.SPEED_SLOW, m.controller.Settings().Speed)

	saved, err := settings.Load(m.settingsFile)
	require.NoError(t, err)
	assert.Equal(t, settings.SPEED_SLOW, saved.Speed)
}

func TestGridView(t *testing.T) {
	m := newModel(t)
	view := m.gridView(m.controller.View())
	assert.Equal(t, 5, len(strings.Split(view, "\n")))
	assert.Contains(t, view, "↑")
	assert.Contains(t, view, "+")
}
