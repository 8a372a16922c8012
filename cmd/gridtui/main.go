// Command gridtui draws and runs paths in a terminal, with the device
// simulated by the same motion driver the touch client uses.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/gridbot/config"
	"github.com/zucenko/gridbot/control"
	"github.com/zucenko/gridbot/model"
	"github.com/zucenko/gridbot/motion"
	"github.com/zucenko/gridbot/server"
	"github.com/zucenko/gridbot/settings"
)

const tickInterval = 50 * time.Millisecond

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	gridStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	panelStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	emptyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	pathStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	selectableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cursorStyle     = lipgloss.NewStyle().Reverse(true)
	botStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Model is the bubbletea state: a controller over one grid, the simulated
// driver and a selection cursor for picking cells with the keyboard.
type Model struct {
	controller   *control.Controller
	driver       *motion.Driver
	settingsFile string
	row, col     int
	option       int
	last         time.Time
	message      string
}

func NewModel(grid *model.Grid, st settings.Settings, countdown float32, settingsFile string) *Model {
	m := &Model{
		driver:       motion.NewDriver(grid.CurrentCell(), model.UP),
		settingsFile: settingsFile,
	}
	last := grid.Last()
	m.row, m.col = last.Row, last.Col
	m.controller = control.New(grid, st, m.driver, countdown)
	m.driver.OnDone(func(model.Step) {
		m.controller.StepDone()
	})
	m.controller.OnChange(func(s control.UIState) {
		switch s {
		case control.IDLE, control.COUNTING:
			m.driver.Place(grid.CurrentCell(), model.UP)
		}
	})
	return m
}

func (m *Model) Init() tea.Cmd {
	m.last = time.Now()
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch message := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(message.String())
	case tickMsg:
		now := time.Time(message)
		dt := float32(now.Sub(m.last).Seconds())
		m.last = now
		m.controller.Update(dt)
		m.driver.Update(dt)
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(key string) (tea.Model, tea.Cmd) {
	m.message = ""
	c := m.controller
	if key == "ctrl+c" || key == "q" {
		return m, tea.Quit
	}
	if c.State() == control.SETTINGS {
		m.settingsKey(key)
		return m, nil
	}
	grid := c.Grid()
	switch key {
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
	case "down", "j":
		if m.row < grid.Rows()-1 {
			m.row++
		}
	case "left", "h":
		if m.col > 0 {
			m.col--
		}
	case "right", "l":
		if m.col < grid.Cols()-1 {
			m.col++
		}
	case "enter", " ":
		if err := c.Select(m.row, m.col); err != nil {
			m.message = err.Error()
		}
	case "c":
		c.Clear()
		last := grid.Last()
		m.row, m.col = last.Row, last.Col
	case "r":
		if err := c.Run(); err != nil {
			m.message = err.Error()
		}
	case "x":
		if err := c.Stop(); err != nil {
			m.message = err.Error()
		}
	case "d":
		c.Dismiss()
	case "s":
		if err := c.OpenSettings(); err != nil {
			m.message = err.Error()
		}
	}
	return m, nil
}

func (m *Model) settingsKey(key string) {
	c := m.controller
	switch key {
	case "up", "k":
		if m.option > 0 {
			m.option--
		}
	case "down", "j":
		if m.option < len(settings.Options)-1 {
			m.option++
		}
	case "left", "h":
		c.AdjustSetting(settings.Options[m.option], -1)
	case "right", "l":
		c.AdjustSetting(settings.Options[m.option], 1)
	case "esc", "s", "enter":
		c.CloseSettings()
		if err := settings.Save(m.settingsFile, c.Settings()); err != nil {
			m.message = err.Error()
		}
	}
}

func (m *Model) View() string {
	v := m.controller.View()
	var b strings.Builder
	b.WriteString(titleStyle.Render("gridbot"))
	b.WriteString("  " + v.State.Name())
	if v.State == control.COUNTING {
		b.WriteString(fmt.Sprintf(" %.1fs", v.Remaining))
	}
	b.WriteString("\n")

	var body string
	if v.State == control.SETTINGS {
		body = panelStyle.Render(m.settingsView(v.Settings))
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			gridStyle.Render(m.gridView(v)),
			" ",
			panelStyle.Render(m.infoView(v)))
	}
	b.WriteString(body)
	b.WriteString("\n")
	if m.message != "" {
		b.WriteString(errStyle.Render(m.message) + "\n")
	}
	if v.State == control.SETTINGS {
		b.WriteString(helpStyle.Render("↑/↓ option  ←/→ change  s back  q quit"))
	} else {
		b.WriteString(helpStyle.Render("arrows move  enter select  c clear  r run  x stop  d dismiss  s settings  q quit"))
	}
	return b.String()
}

func (m *Model) gridView(v control.View) string {
	selectable := map[model.Cell]bool{}
	if v.State == control.IDLE {
		for _, c := range v.Selectable {
			selectable[c] = true
		}
	}
	marks := map[model.Cell]string{}
	for i := 0; i+1 < len(v.Path); i++ {
		d, _ := model.Between(v.Path[i], v.Path[i+1])
		marks[v.Path[i]] = arrow(d)
	}
	if n := len(v.Path); n > 0 {
		marks[v.Path[n-1]] = "●"
	}
	bot := m.driver.Cell()

	var b strings.Builder
	for row := 0; row < v.Rows; row++ {
		for col := 0; col < v.Cols; col++ {
			cell := model.Cell{Row: row, Col: col}
			s, style := "·", emptyStyle
			if mark, ok := marks[cell]; ok {
				s, style = mark, pathStyle
			} else if selectable[cell] {
				s, style = "+", selectableStyle
			}
			if v.State != control.IDLE && cell == bot {
				s, style = "◆", botStyle
			}
			if v.State == control.IDLE && row == m.row && col == m.col {
				style = style.Copy().Inherit(cursorStyle)
			}
			b.WriteString(style.Render(" " + s + " "))
		}
		if row < v.Rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) infoView(v control.View) string {
	lines := []string{
		fmt.Sprintf("path   %d", len(v.Path)),
		fmt.Sprintf("cursor %d", v.Cursor),
		fmt.Sprintf("dir    %s", v.Direction.Name()),
		fmt.Sprintf("drive  %s", m.driver.State().Name()),
		fmt.Sprintf("route  %s", model.FormatRoute(m.controller.Grid())),
	}
	for _, o := range settings.Options {
		lines = append(lines, fmt.Sprintf("%-14s %s", o.Name(), v.Settings.ValueLabel(o)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) settingsView(st settings.Settings) string {
	lines := make([]string, 0, len(settings.Options))
	for i, o := range settings.Options {
		line := fmt.Sprintf("%-14s ‹ %s ›", o.Name(), st.ValueLabel(o))
		if i == m.option {
			line = cursorStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func arrow(d model.Direction) string {
	switch d {
	case model.UP:
		return "↑"
	case model.RIGHT:
		return "→"
	case model.DOWN:
		return "↓"
	default:
		return "←"
	}
}

func main() {
	configPath := flag.String("config", "gridbot.yaml", "config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalln(err)
	}
	// the terminal belongs to the UI
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)

	st, err := settings.Load(cfg.SettingsFile)
	if err != nil {
		st = settings.Default()
	}
	d := cfg.Display
	grid, err := model.NewGrid(d.Width-d.PanelWidth, d.Height, d.CellSize)
	if err != nil {
		log.Fatalln(err)
	}
	if err = server.LoadRoute(cfg.RouteFile, grid); err != nil {
		log.Warn(err)
	}

	p := tea.NewProgram(NewModel(grid, st, float32(cfg.Countdown), cfg.SettingsFile), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
