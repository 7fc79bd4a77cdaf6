package main

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/fmt-playground/playground"
	"github.com/wippyai/fmt-playground/share"
	"github.com/wippyai/fmt-playground/ui"
)

func tuiCmd(root *rootOptions) *cobra.Command {
	var shared string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive playground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, root, shared)
		},
	}
	cmd.Flags().StringVar(&shared, "url", "", "open a shared playground link")
	return cmd
}

func runTUI(cmd *cobra.Command, root *rootOptions, shared string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the playground needs a terminal; use 'fmtplay format' for pipes")
	}

	a, err := newApp(cmd, root, false)
	if err != nil {
		return err
	}
	defer a.close()

	location, err := url.Parse(a.cfg.Playground.ShareBase)
	if err != nil {
		return fmt.Errorf("parse playground.share_base: %w", err)
	}
	if shared != "" {
		if location, err = url.Parse(shared); err != nil {
			return fmt.Errorf("parse shared link: %w", err)
		}
	}

	set, err := a.openAssets()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var metrics *playground.Metrics
	if addr := a.cfg.Metrics.Addr; addr != "" {
		reg := prometheus.NewRegistry()
		metrics = playground.NewMetrics(reg)
		go func() {
			if err := listen(ctx, a.logger, addr, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})); err != nil {
				a.logger.Error("metrics listener stopped", zap.Error(err))
			}
		}()
	}

	// Theme detection queries the terminal, so it runs before the program
	// takes over the screen.
	dark := lipgloss.HasDarkBackground()

	var program *tea.Program
	loop := playground.NewLoop()
	dispatch := playground.DispatcherFunc(func(fn func()) {
		loop.Post(fn)
		go program.Send(drainMsg{})
	})

	mem := ui.NewMemory(location)
	ctrl := playground.New(set.registry, set.samples, mem.Host(share.SystemClipboard{}),
		playground.WithDispatcher(dispatch),
		playground.WithLogger(a.logger),
		playground.WithMetrics(metrics),
		playground.WithDebounce(a.cfg.Playground.Debounce),
		playground.WithDefaultSample(a.cfg.Playground.DefaultSample))

	model := newTUIModel(ctrl, mem, loop, newStyles(dark))
	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if err := ctrl.Start(ctx, location); err != nil {
		return err
	}
	defer ctrl.Close(context.Background())
	model.sync()

	_, err = program.Run()
	return err
}

// drainMsg asks the model to run work posted to the controller loop.
type drainMsg struct{}

type tuiModel struct {
	ctrl   *playground.Controller
	mem    *ui.Memory
	loop   *playground.Loop
	styles styles

	original textarea.Model
	settings textarea.Model
	output   viewport.Model

	sample string
	status string
	width  int
	height int
}

func newTUIModel(ctrl *playground.Controller, mem *ui.Memory, loop *playground.Loop, st styles) *tuiModel {
	original := textarea.New()
	original.ShowLineNumbers = true
	original.Placeholder = "source"
	original.CharLimit = 0
	original.MaxHeight = 0
	original.Focus()

	settings := textarea.New()
	settings.ShowLineNumbers = false
	settings.Placeholder = "settings"
	settings.CharLimit = 0
	settings.MaxHeight = 0

	return &tuiModel{
		ctrl:     ctrl,
		mem:      mem,
		loop:     loop,
		styles:   st,
		original: original,
		settings: settings,
		output:   viewport.New(0, 0),
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case drainMsg:
		m.loop.Drain()

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+q":
			return m, tea.Quit

		case "ctrl+d":
			m.mem.ToggleView.Click()

		case "ctrl+s":
			m.toggleSettings()

		case "ctrl+r":
			if m.mem.SettingsDialog.Visible() {
				m.mem.ResetSettings.Click()
			}

		case "ctrl+v":
			m.nextVersion()

		case "ctrl+e":
			m.nextSample()

		case "ctrl+k":
			m.mem.SampleSelector.Input("")

		case "ctrl+y":
			m.mem.Share.Click()
			m.status = "link copied: " + m.mem.Location.URL().String()

		case "pgup", "pgdown":
			m.output, cmd = m.output.Update(msg)

		default:
			cmd = m.edit(msg)
		}

	default:
		cmd = m.edit(msg)
	}

	m.sync()
	return m, cmd
}

// edit forwards msg to the focused editor and hands changed text to the
// controller.
func (m *tuiModel) edit(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.mem.SettingsDialog.Visible() {
		m.settings, cmd = m.settings.Update(msg)
		m.ctrl.EditSettings(m.settings.Value())
		return cmd
	}
	m.original, cmd = m.original.Update(msg)
	m.ctrl.EditOriginal(m.original.Value())
	return cmd
}

func (m *tuiModel) toggleSettings() {
	if !m.mem.SettingsDialog.Visible() {
		m.mem.OpenSettings.Click()
		m.original.Blur()
		m.settings.Focus()
		return
	}
	m.mem.CloseSettings.Click()
	if m.mem.SettingsDialog.Visible() {
		m.status = "fix the settings before closing"
		return
	}
	m.settings.Blur()
	m.original.Focus()
	m.status = ""
}

// nextVersion selects the version after the active one. The selector
// refuses while a load is in flight.
func (m *tuiModel) nextVersion() {
	sel := m.mem.VersionSelector
	if next := after(sel.Options(), m.ctrl.ActiveVersion()); next != "" && !sel.Input(next) {
		m.status = "loading, try again"
	}
}

// nextSample loads the sample after the last one chosen. The selector
// itself always reads empty after a choice.
func (m *tuiModel) nextSample() {
	var names []string
	for _, o := range m.mem.SampleSelector.Options() {
		if o != "" {
			names = append(names, o)
		}
	}
	if next := after(names, m.sample); next != "" {
		m.sample = next
		m.mem.SampleSelector.Input(next)
		m.status = "sample " + next
	}
}

// after returns the element following cur, wrapping around, or the first
// element when cur is not in opts.
func after(opts []string, cur string) string {
	if len(opts) == 0 {
		return ""
	}
	for i, o := range opts {
		if o == cur {
			return opts[(i+1)%len(opts)]
		}
	}
	return opts[0]
}

// sync copies document content the controller changed into the editors
// and refreshes the output pane. Editors whose text already matches are
// left alone so the cursor stays put.
func (m *tuiModel) sync() {
	if v := m.ctrl.Original().Content(); v != m.original.Value() {
		m.original.SetValue(v)
	}
	if v := m.ctrl.Settings().Content(); v != m.settings.Value() {
		m.settings.SetValue(v)
	}

	m.layout()
	if m.ctrl.Surface().DiffActive() {
		m.output.SetContent(m.styles.diff(m.ctrl.Surface().Diff()))
	} else {
		m.output.SetContent(m.styles.ruled(m.ctrl.Formatted().Content(), m.ctrl.Surface().Ruler()))
	}
}

func (m *tuiModel) resize(width, height int) {
	m.width, m.height = width, height
	m.layout()
}

// layout sizes the panes for the window and the current view.
func (m *tuiModel) layout() {
	if m.width == 0 {
		return
	}
	body := max(m.height-5, 3)
	half := max(m.width/2-2, 10)

	m.original.SetWidth(half)
	m.original.SetHeight(body)
	m.settings.SetWidth(max(m.width-4, 10))
	m.settings.SetHeight(max(body-2, 3))

	m.output.Height = body
	if m.ctrl.Surface().DiffActive() {
		m.output.Width = max(m.width-2, 10)
	} else {
		m.output.Width = half
	}
}
