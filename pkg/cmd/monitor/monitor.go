// Package monitor implements the "sortbot monitor" command: a live TUI
// showing the smoothed reflectance trace, the navigator state, and the
// status tokens of a run.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/brickbot/sortbot/pkg/config"
	"github.com/brickbot/sortbot/pkg/nav"
	"github.com/brickbot/sortbot/pkg/rig"
)

const (
	headerHeight = 2 // title + blank line
	statusHeight = 2 // status row + blank
	footerHeight = 7 // token box height
	maxTokens    = 5 // number of status tokens to show
	borderSize   = 2 // chart border

	reflectSet = "reflect"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	phaseStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
	zoneStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	tokenStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Foreground(lipgloss.Color("51"))
)

// NewMonitorCmd creates the monitor command.
func NewMonitorCmd() *cobra.Command {
	var command string

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run a navigation with a live dashboard",
		Long: `Runs a navigation like "sortbot run" but renders a live dashboard
instead of raw STATUS lines: a streaming chart of the smoothed
reflectance, the navigator phase and zone, and the token log. Combine
with --backend mock for a dry run without hardware.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(command)
		},
	}

	cmd.Flags().StringVar(&command, "command", "", "bridge command selecting the target zone")
	_ = cmd.MarkFlagRequired("command")
	return cmd
}

type monitorModel struct {
	cancel context.CancelFunc
	snaps  <-chan nav.Snapshot
	tokens <-chan string
	done   <-chan error

	chart    *streamlinechart.Model
	width    int
	height   int
	last     nav.Snapshot
	haveSnap bool
	log      []string // last N status tokens
	runErr   error
	finished bool
	quitting bool
}

func (m *monitorModel) addToken(tok string) {
	m.log = append(m.log, tok)
	if len(m.log) > maxTokens {
		m.log = m.log[len(m.log)-maxTokens:]
	}
}

// Messages from the navigator
type snapMsg nav.Snapshot
type tokenMsg string
type doneMsg struct{ err error }

func waitForSnap(ch <-chan nav.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return snapMsg(<-ch)
	}
}

func waitForToken(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return tokenMsg(<-ch)
	}
}

func waitForDone(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{err: <-ch}
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *monitorModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 16 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - statusHeight - footerHeight - borderSize
	if height < 8 {
		height = 8
	}
	return width, height
}

func (m *monitorModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialMonitorModel(cancel context.CancelFunc, snaps <-chan nav.Snapshot, tokens <-chan string, done <-chan error) monitorModel {
	chart := streamlinechart.New(80, 16,
		streamlinechart.WithYRange(0, 100),
	)
	chart.SetDataSetStyles(reflectSet, runes.ThinLineStyle,
		lipgloss.NewStyle().Foreground(lipgloss.Color("51")))

	return monitorModel{
		cancel: cancel,
		snaps:  snaps,
		tokens: tokens,
		done:   done,
		chart:  &chart,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		waitForSnap(m.snaps),
		waitForToken(m.tokens),
		waitForDone(m.done),
	)
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}

	case snapMsg:
		snap := nav.Snapshot(msg)
		m.last = snap
		m.haveSnap = true
		m.chart.PushDataSet(reflectSet, snap.Smoothed)
		m.chart.DrawAll()
		return m, waitForSnap(m.snaps)

	case tokenMsg:
		m.addToken(string(msg))
		return m, waitForToken(m.tokens)

	case doneMsg:
		m.finished = true
		m.runErr = msg.err
		return m, nil
	}

	return m, nil
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Monitor stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("Sortbot Monitor"))
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Status row
	sb.WriteString(m.renderStatus())
	sb.WriteString("\n")

	// Token box
	style := tokenStyle.Width(m.width - 4)
	var lines string
	if len(m.log) == 0 {
		lines = statusStyle.Render("Press 'q' to quit")
	} else {
		lines = strings.Join(m.log, "\n")
	}
	sb.WriteString(style.Render(lines))
	sb.WriteString("\n")

	return sb.String()
}

func (m monitorModel) renderStatus() string {
	if !m.haveSnap {
		return statusStyle.Render("waiting for first sample...")
	}
	s := m.last

	zone := "-"
	if s.Zone != "" {
		zone = string(s.Zone)
	}
	dist := "-"
	if s.DistanceOK {
		dist = fmt.Sprintf("%d mm", s.DistanceMM)
	}
	items := []string{
		phaseStyle.Render(s.Phase.String()),
		"target " + zoneStyle.Render(string(s.Target)),
		"zone " + zone,
		fmt.Sprintf("hits %d", s.Hits),
		fmt.Sprintf("ref %.1f", s.Smoothed),
		"dist " + dist,
		s.Elapsed.Round(100 * time.Millisecond).String(),
	}
	line := statusStyle.Render(strings.Join(items, "  |  "))
	if m.finished {
		if m.runErr != nil {
			line += "  " + phaseStyle.Render(fmt.Sprintf("run error: %v", m.runErr))
		} else {
			line += "  " + zoneStyle.Render("run finished, press 'q'")
		}
	}
	return line
}

func runMonitor(command string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	scenario, err := nav.MapCommand(command, cfg.FallbackScenario)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hw, err := rig.Open(ctx, rig.Options{
		Backend:   config.Backend,
		BrickPort: config.BrickPort,
		WheelPort: config.WheelPort,
		LeftID:    config.LeftID,
		RightID:   config.RightID,
		Board:     cfg.Board,
	})
	if err != nil {
		return err
	}
	defer hw.Close()

	// Tokens go to the TUI, not stdout; stdout belongs to bubbletea.
	tokenRep := nav.NewChanReporter(16)
	navigator, err := nav.New(cfg, scenario, hw.Drive, hw.Sensors, hw.Signals,
		tokenRep, zap.NewNop())
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- navigator.Run(ctx)
	}()

	model := initialMonitorModel(cancel, navigator.Snapshots(), tokenRep.C, done)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("monitor ui: %w", err)
	}
	return nil
}
