package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rvno/roadline/pkg/geom"
	"github.com/rvno/roadline/pkg/offsets"
	"github.com/rvno/roadline/pkg/pipeline"
	"github.com/rvno/roadline/pkg/road"
	"github.com/rvno/roadline/pkg/road/drag"
)

// dragStep is how far one shift+arrow press moves a marker, in canvas pixels.
const dragStep = 8.0

var (
	tuiRoadStyle     = lipgloss.NewStyle().Foreground(colorAsphalt)
	tuiMarkerStyle   = lipgloss.NewStyle().Foreground(colorChalk)
	tuiMemberStyle   = lipgloss.NewStyle().Foreground(colorGravel)
	tuiSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorSignal)
	tuiCardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAsphalt).Padding(0, 1)
)

// tuiCommand creates the interactive terminal view.
func (c *CLI) tuiCommand() *cobra.Command {
	var flags sceneFlags
	cmd := &cobra.Command{
		Use:   "tui [entries]",
		Short: "Browse and arrange the road in the terminal",
		Long: `Open the road in the terminal.

  tab, arrows         select a marker (shows its preview)
  enter, space        click: expand a year or open a ride
  shift+arrows        drag the selected marker (editors only)
  enter               drop a dragged marker and save its offset
  esc                 end a drag, or collapse the open year
  r                   put the selected marker back on the road (editors)
  q                   quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runTUI(cmd, input, &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runTUI(cmd *cobra.Command, input string, flags *sceneFlags) error {
	ctx := cmd.Context()
	cfg, err := c.config()
	if err != nil {
		return err
	}
	entries, _, err := c.loadEntries(input)
	if err != nil {
		return err
	}

	st, sc, err := c.openOffsets(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := cfg.PipelineOptions()
	flags.apply(cmd, &opts)
	if !flags.noOffsets {
		if opts.Offsets, err = offsets.Snapshot(ctx, st); err != nil {
			return err
		}
	}
	// The terminal belongs to the view; scene logs would tear it.
	opts.Logger = log.New(io.Discard)

	var program *tea.Program
	writer := offsets.NewAsyncWriter(st,
		offsets.WithLogger(c.Logger),
		offsets.WithErrorHandler(func(key string, err error) {
			if program != nil {
				program.Send(persistFailedMsg{key: key, err: err})
			}
		}),
	)

	auth, who := c.tuiAuthorizer(ctx)
	scene := pipeline.BuildScene(entries, opts,
		road.WithPersister(writer),
		road.WithAuthorizer(auth),
	)

	model := newSceneModel(scene, cfg.Render.Title)
	model.status = fmt.Sprintf("%s · offsets in %s", who, offsets.Describe(sc))
	model.resetOffset = func(key string) error {
		writer.Reset(key)
		return nil
	}

	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := program.Run()
	if err := writer.Close(); err != nil {
		c.Logger.Warn("Some offsets were not saved", "err", err)
	}
	return runErr
}

// tuiAuthorizer follows the CLI session, so logging out in another shell
// stops the next drag from saving.
func (c *CLI) tuiAuthorizer(ctx context.Context) (road.Authorizer, string) {
	store, err := c.sessionStore()
	if err != nil {
		return drag.Static(false), "read-only"
	}
	sess, err := store.GetSession(ctx)
	if err != nil || !sess.CanEdit() {
		return drag.Static(false), "read-only"
	}
	return store.Authorizer(ctx), "editing as " + displayName(sess)
}

// =============================================================================
// sceneModel
// =============================================================================

type persistFailedMsg struct {
	key string
	err error
}

// sceneModel is the bubbletea model driving a road.Scene from the keyboard.
type sceneModel struct {
	scene *road.Scene
	frame road.Frame
	title string

	selected string
	// pointer is the virtual pointer while a keyboard drag is active.
	pointer geom.Point
	status  string

	cols, rows  int
	resetOffset func(key string) error
}

func newSceneModel(scene *road.Scene, title string) sceneModel {
	m := sceneModel{scene: scene, title: title, cols: 72, rows: 20}
	m.refresh()
	if len(m.frame.Markers) > 0 {
		m.selected = m.frame.Markers[0].ID
	}
	return m
}

func (m *sceneModel) refresh() {
	m.frame = m.scene.Frame()
	if _, ok := m.frame.Marker(m.selected); !ok && len(m.frame.Markers) > 0 {
		m.selected = m.frame.Markers[0].ID
	}
}

func (m sceneModel) Init() tea.Cmd { return nil }

func (m sceneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = clampInt(msg.Width-4, 40, 120)
		m.rows = clampInt(msg.Height-14, 10, 40)
	case persistFailedMsg:
		m.status = fmt.Sprintf("could not save %s: %v", msg.key, msg.err)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m sceneModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.scene.Dragging() {
			m.scene.PointerCancel()
		}
		return m, tea.Quit
	case "tab", "right", "down":
		if !m.scene.Dragging() {
			m.move(1)
		}
	case "shift+tab", "left", "up":
		if !m.scene.Dragging() {
			m.move(-1)
		}
	case "shift+right":
		m.nudge(geom.Offset{DX: dragStep})
	case "shift+left":
		m.nudge(geom.Offset{DX: -dragStep})
	case "shift+up":
		m.nudge(geom.Offset{DY: -dragStep})
	case "shift+down":
		m.nudge(geom.Offset{DY: dragStep})
	case "enter", " ":
		if m.scene.Dragging() {
			m.report(m.scene.PointerUp(m.pointer))
		} else {
			m.report(m.scene.Activate(m.selected))
		}
	case "esc":
		switch {
		case m.scene.Dragging():
			m.report(m.scene.PointerCancel())
		case m.scene.Expanded() != "":
			m.scene.Toggle(m.scene.Expanded())
			m.status = "collapsed"
		}
	case "r":
		m.reset()
	}
	m.refresh()
	return m, nil
}

// move selects the next or previous marker and shows its preview.
func (m *sceneModel) move(delta int) {
	n := len(m.frame.Markers)
	if n == 0 {
		return
	}
	i := 0
	for j, mk := range m.frame.Markers {
		if mk.ID == m.selected {
			i = j
		}
	}
	m.scene.Leave(m.selected)
	m.selected = m.frame.Markers[(i+delta+n)%n].ID
	m.scene.Hover(m.selected)
}

// nudge moves the selected marker, pressing it first if no drag is active.
func (m *sceneModel) nudge(d geom.Offset) {
	if !m.scene.Dragging() {
		mk, ok := m.frame.Marker(m.selected)
		if !ok {
			return
		}
		if !m.scene.CanEdit() {
			m.status = "read-only: run '" + appName + " session login' to move markers"
			return
		}
		if !mk.Draggable {
			m.status = mk.Label + " follows its year and cannot be moved"
			return
		}
		if !m.scene.PointerDown(mk.ID, mk.Position) || !m.scene.Dragging() {
			return
		}
		m.pointer = mk.Position
	}
	m.pointer = m.pointer.Add(d)
	m.scene.PointerMove(m.pointer)
	m.status = "dragging " + m.selected + " · enter to drop"
}

func (m *sceneModel) reset() {
	if m.scene.Dragging() || !m.scene.CanEdit() {
		return
	}
	mk, ok := m.frame.Marker(m.selected)
	if !ok || !mk.Draggable || mk.Offset.IsZero() {
		return
	}
	m.scene.ResetOffset(mk.ID)
	if m.resetOffset != nil {
		if err := m.resetOffset(mk.ID); err != nil {
			m.status = fmt.Sprintf("could not reset %s: %v", mk.ID, err)
			return
		}
	}
	m.status = mk.ID + " is back on the road"
}

func (m *sceneModel) report(out road.Outcome) {
	switch {
	case out.Gesture == drag.Drag && out.Persisted:
		m.status = fmt.Sprintf("saved %s %s", out.Target, formatOffset(out.Offset))
	case out.Gesture == drag.Drag:
		m.status = "session ended: " + out.Target + " was not saved"
	case out.Navigate != "":
		if mk, ok := m.frame.Marker(out.Target); ok && mk.Entry != nil {
			m.status = "open ride " + out.Navigate + ": " + mk.Entry.Title
		} else {
			m.status = "open ride " + out.Navigate
		}
	case out.Gesture == drag.Click && out.Expanded != "":
		m.status = "expanded " + out.Expanded
	case out.Gesture == drag.Click:
		m.status = "collapsed"
	}
}

// =============================================================================
// View
// =============================================================================

func (m sceneModel) View() string {
	var b strings.Builder
	title := m.title
	if title == "" {
		title = "Roadline"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n\n")

	if m.frame.Empty {
		b.WriteString(StyleDim.Render("No rides yet. The road is waiting."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.plot())
		b.WriteString("\n")
		if card := m.card(); card != "" {
			b.WriteString(card)
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		b.WriteString(StyleDim.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("tab select · enter click · shift+arrows drag · esc back · r reset · q quit"))
	return b.String()
}

// plot rasterizes the frame onto a character grid: the road as dots and
// markers as discs, the selection highlighted.
func (m sceneModel) plot() string {
	cols, rows := m.cols, m.rows
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}
	cell := func(p geom.Point) (int, int, bool) {
		if m.frame.Width <= 0 || m.frame.Height <= 0 {
			return 0, 0, false
		}
		c := int(p.X / m.frame.Width * float64(cols-1))
		r := int(p.Y / m.frame.Height * float64(rows-1))
		return r, c, r >= 0 && r < rows && c >= 0 && c < cols
	}

	for _, p := range m.frame.Path.Sample(12) {
		if r, c, ok := cell(p); ok {
			grid[r][c] = tuiRoadStyle.Render("·")
		}
	}
	for _, mk := range m.frame.Markers {
		r, c, ok := cell(mk.Position)
		if !ok {
			continue
		}
		switch {
		case mk.ID == m.selected:
			grid[r][c] = tuiSelectedStyle.Render("◉")
		case mk.Kind == road.KindMember:
			grid[r][c] = tuiMemberStyle.Render("○")
		default:
			grid[r][c] = tuiMarkerStyle.Render("●")
		}
	}

	lines := make([]string, rows)
	for r := range grid {
		lines[r] = strings.Join(grid[r], "")
	}
	return strings.Join(lines, "\n")
}

// card renders the preview of the hovered marker, falling back to a short
// line for the selection.
func (m sceneModel) card() string {
	if p := m.frame.Preview; p != nil {
		lines := []string{StyleValue.Bold(true).Render(p.Entry.Title), StyleDim.Render(p.Entry.Date)}
		if p.Entry.Location != "" {
			lines = append(lines, p.Entry.Location)
		}
		if p.Entry.PhotoCount > 0 {
			lines = append(lines, plural(p.Entry.PhotoCount, "photo", "photos"))
		}
		if p.Entry.Description != "" {
			lines = append(lines, StyleDim.Render(p.Entry.Description))
		}
		return tuiCardStyle.Render(strings.Join(lines, "\n"))
	}
	mk, ok := m.frame.Marker(m.selected)
	if !ok {
		return ""
	}
	line := fmt.Sprintf("%s · %s", StyleHighlight.Render(mk.Label), plural(mk.Count, "ride", "rides"))
	if !mk.Offset.IsZero() {
		line += StyleDim.Render(" · " + formatOffset(mk.Offset))
	}
	return line
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
