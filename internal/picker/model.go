package picker

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// debounceInterval is the delay after the last keystroke before triggering a fetch.
const debounceInterval = 100 * time.Millisecond

// copiedDuration is how long the "Copied!" indicator stays visible.
const copiedDuration = 1500 * time.Millisecond

// pickerState represents the current state of the picker's state machine.
type pickerState int

const (
	stateIdle      pickerState = iota // Initial state before first fetch
	stateLoading                      // Fetch in progress
	stateLoaded                       // Rows loaded successfully (len > 0)
	stateEmpty                        // Fetch succeeded but returned 0 rows
	stateError                        // Fetch failed
	stateCancelled                    // User cancelled (Esc / Ctrl+C)
)

// fetchDoneMsg is sent when an async Backend.Fetch completes.
type fetchDoneMsg struct {
	requestID uint64
	resp      Response
	err       error
}

// debounceMsg fires after the debounce timer expires.
type debounceMsg struct {
	id uint64 // Must match current debounceID to be accepted
}

// initMsg is sent by Init() to trigger the first fetch via Update(),
// ensuring state mutations are visible to the Bubble Tea runtime.
type initMsg struct{}

// refreshMsg asks for the current query to be fetched again, e.g. after
// the index was rebuilt or currency rates arrived.
type refreshMsg struct{}

// Refresh returns a message that makes a running picker fetch again.
// Send it with tea.Program.Send.
func Refresh() tea.Msg {
	return refreshMsg{}
}

// clipboardMsg reports the outcome of a copy.
type clipboardMsg struct {
	err error
}

// copiedClearMsg hides the "Copied!" indicator.
type copiedClearMsg struct{}

// Model is the Bubble Tea model for the launcher TUI.
type Model struct {
	state     pickerState
	textInput textinput.Model
	resp      Response
	selection int // Index into resp.Rows; -1 when empty
	err       error

	requestID uint64 // Monotonic counter for stale detection
	backend   Backend

	width  int // Terminal width
	height int // Terminal height

	// result holds the selection after the user presses Enter.
	result Selection

	// cancelFetch cancels the in-flight Backend.Fetch context.
	cancelFetch context.CancelFunc

	// debounceID tracks the latest debounce timer; only a matching
	// debounceMsg will trigger a fetch.
	debounceID uint64

	copier func(string) error
	copied bool

	// lines caches rendered rows for the current response and width.
	lines *lineCache
}

type lineKey struct {
	index    int
	selected bool
}

// lineCache holds rendered rows. It is replaced, never cleared, so models
// copied by Update share it only while they show the same rows.
type lineCache struct {
	lines map[lineKey]string
}

func newLineCache() *lineCache {
	return &lineCache{lines: make(map[lineKey]string)}
}

// NewModel creates a new picker Model.
func NewModel(backend Backend) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = queryStyle
	ti.Placeholder = "Search applications, calculate, convert..."
	ti.Focus()

	return Model{
		state:     stateIdle,
		textInput: ti,
		selection: -1,
		backend:   backend,
		copier:    osc52Copy,
		lines:     newLineCache(),
	}
}

// WithQuery returns a copy of m starting with query.
func (m Model) WithQuery(query string) Model {
	m.textInput.SetValue(query)
	m.textInput.CursorEnd()
	return m
}

// WithCopier replaces the clipboard writer.
func (m Model) WithCopier(write func(string) error) Model {
	m.copier = write
	return m
}

// osc52Copy writes to the clipboard through the terminal.
func osc52Copy(s string) error {
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer tty.Close()
	termenv.NewOutput(tty).Copy(s)
	return nil
}

// Result returns the selection, which is zero if the user cancelled.
func (m Model) Result() Selection {
	return m.result
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return initMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = max(msg.Width-4, 1)
		m.lines = newLineCache()
		return m, nil

	case fetchDoneMsg:
		return m.handleFetchDone(msg)

	case debounceMsg:
		return m.handleDebounce(msg)

	case initMsg, refreshMsg:
		return m, m.startFetch()

	case clipboardMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.copied = true
		return m, tea.Tick(copiedDuration, func(time.Time) tea.Msg { return copiedClearMsg{} })

	case copiedClearMsg:
		m.copied = false
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.state = stateCancelled
		m.cancelInflight()
		return m, tea.Quit

	case tea.KeyEnter:
		return m.commit()

	case tea.KeyUp, tea.KeyCtrlP:
		if m.state == stateLoading {
			return m, nil
		}
		if m.selection > 0 {
			m.selection--
		}
		return m, nil

	case tea.KeyDown, tea.KeyCtrlN:
		if m.state == stateLoading {
			return m, nil
		}
		if m.selection < len(m.resp.Rows)-1 {
			m.selection++
		}
		return m, nil

	case tea.KeyCtrlD:
		return m.delete()
	}

	before := m.textInput.Value()
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.textInput.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.startDebounce())
}

// commit resolves the selected row. Copies keep the picker open; every
// other action ends it.
func (m Model) commit() (tea.Model, tea.Cmd) {
	if m.state != stateLoaded || m.selection < 0 || m.selection >= len(m.resp.Rows) {
		if m.state == stateLoading {
			m.cancelInflight()
			return m, tea.Quit
		}
		return m, nil
	}

	sel, err := m.backend.Commit(m.resp, m.selection)
	if err != nil {
		m.err = err
		return m, nil
	}
	if sel.Action == ActionCopy {
		write := m.copier
		value := sel.Value
		return m, func() tea.Msg { return clipboardMsg{err: write(value)} }
	}

	m.result = sel
	m.cancelInflight()
	return m, tea.Quit
}

// delete removes the selected history row and refetches.
func (m Model) delete() (tea.Model, tea.Cmd) {
	if m.state != stateLoaded || !m.resp.Deletable || m.selection < 0 {
		return m, nil
	}
	if err := m.backend.Delete(m.resp, m.selection); err != nil {
		m.err = err
		return m, nil
	}
	return m, m.startFetch()
}

// handleFetchDone processes the result of an async fetch.
func (m Model) handleFetchDone(msg fetchDoneMsg) (tea.Model, tea.Cmd) {
	// Discard stale responses.
	if msg.requestID != m.requestID {
		return m, nil
	}

	if msg.err != nil {
		m.state = stateError
		m.err = msg.err
		m.resp = Response{}
		m.selection = -1
		m.lines = newLineCache()
		return m, nil
	}

	m.err = nil
	m.resp = msg.resp
	m.lines = newLineCache()

	if len(m.resp.Rows) == 0 {
		m.state = stateEmpty
		m.selection = -1
	} else {
		m.state = stateLoaded
		m.clampSelection()
	}

	return m, nil
}

// handleDebounce fires the fetch if the debounce timer is still current.
func (m Model) handleDebounce(msg debounceMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.debounceID {
		return m, nil // Stale debounce timer; ignore.
	}
	return m, m.startFetch()
}

// startDebounce increments the debounce counter and returns a tea.Tick
// command that fires after debounceInterval.
func (m *Model) startDebounce() tea.Cmd {
	m.debounceID++
	id := m.debounceID
	return tea.Tick(debounceInterval, func(time.Time) tea.Msg {
		return debounceMsg{id: id}
	})
}

// startFetch cancels any in-flight fetch, increments requestID, and
// returns a tea.Cmd that calls the backend.
func (m *Model) startFetch() tea.Cmd {
	m.cancelInflight()
	m.requestID++
	m.state = stateLoading

	reqID := m.requestID
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFetch = cancel

	req := Request{
		RequestID: reqID,
		Query:     m.textInput.Value(),
		Limit:     m.listHeight(),
	}

	b := m.backend
	return func() tea.Msg {
		resp, err := b.Fetch(ctx, req)
		if err != nil {
			return fetchDoneMsg{requestID: reqID, err: err}
		}
		return fetchDoneMsg{requestID: reqID, resp: resp}
	}
}

// cancelInflight cancels any in-progress fetch context.
func (m *Model) cancelInflight() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

// clampSelection ensures the selection index is within bounds.
func (m *Model) clampSelection() {
	if len(m.resp.Rows) == 0 {
		m.selection = -1
		return
	}
	if m.selection < 0 {
		m.selection = 0
	}
	if m.selection >= len(m.resp.Rows) {
		m.selection = len(m.resp.Rows) - 1
	}
}

// listHeight returns the number of visible list rows (terminal height minus
// the query and status lines).
func (m Model) listHeight() int {
	const chrome = 2
	h := m.height - chrome
	if h < 1 {
		h = 20 // Sensible default before first WindowSizeMsg
	}
	return h
}

// --- View rendering ---

var (
	selectedStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	matchStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	matchSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	detailStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	noticeStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	queryStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	copiedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	truncStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Italic(true)
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewQuery())
	b.WriteRune('\n')
	b.WriteString(m.viewContent())

	return b.String()
}

// viewContent renders the row list or a status message.
func (m Model) viewContent() string {
	switch m.state {
	case stateIdle, stateLoading:
		if len(m.resp.Rows) > 0 {
			// keep the previous rows while typing
			return m.viewList()
		}
		return dimStyle.Render("Loading...")

	case stateEmpty:
		if m.textInput.Value() == "" {
			return dimStyle.Render("No history yet")
		}
		return dimStyle.Render("No matches")

	case stateError:
		msg := "Error"
		if m.err != nil {
			msg = fmt.Sprintf("Error: %s", m.err)
		}
		return errorStyle.Render(msg)

	case stateCancelled:
		return dimStyle.Render("Cancelled")

	case stateLoaded:
		list := m.viewList()
		if m.err != nil {
			list += "\n" + errorStyle.Render(m.err.Error())
		}
		return list

	default:
		return ""
	}
}

// viewList renders the rows with a selection marker.
func (m Model) viewList() string {
	var b strings.Builder
	maxRows := m.listHeight()
	for i, row := range m.resp.Rows {
		if i >= maxRows {
			break
		}
		b.WriteString(m.cachedRow(i, row))
		if i < len(m.resp.Rows)-1 && i < maxRows-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// cachedRow renders row i, reusing the line from an earlier frame.
func (m Model) cachedRow(i int, row Row) string {
	key := lineKey{index: i, selected: i == m.selection}
	if m.lines == nil {
		return m.renderRow(row, key.selected)
	}
	if line, ok := m.lines.lines[key]; ok {
		return line
	}
	line := m.renderRow(row, key.selected)
	m.lines.lines[key] = line
	return line
}

func (m Model) renderRow(row Row, selected bool) string {
	marker := "  "
	if selected {
		marker = "> "
	}
	base, hl := normalStyle, matchStyle
	if selected {
		base, hl = selectedStyle, matchSelectedStyle
	}

	if row.Notice {
		style := noticeStyle
		if row.Error {
			style = errorStyle
		}
		return base.Render(marker) + style.Render("= "+m.fit(Clean(row.Title), 2))
	}

	title := Clean(row.Title)
	positions := row.Highlight
	if title != row.Title {
		// offsets refer to the raw title
		positions = nil
	}
	titleWidth := runewidth.StringWidth(title)
	var text string
	if m.width > 4 && titleWidth > m.width-4 {
		text = truncStyle.Render(MiddleTruncate(title, m.width-4))
		titleWidth = m.width - 4
	} else {
		text = highlightRanges(title, positions, base, hl)
	}

	if row.Marked {
		marker = marker[:1] + "*"
	}
	line := base.Render(marker) + text

	if row.Detail != "" && m.width > 0 {
		used := 2 + titleWidth + 2
		if room := m.width - used; room > 8 {
			line += "  " + detailStyle.Render(MiddleTruncate(CleanCommand(row.Detail), room))
		}
	}
	return line
}

// fit truncates s to the terminal width minus reserved columns.
func (m Model) fit(s string, reserved int) string {
	if m.width <= reserved+2 {
		return s
	}
	return MiddleTruncate(s, m.width-reserved-2)
}

// highlightRanges renders text with the bytes at positions in hl and the
// rest in base, grouping consecutive runs.
func highlightRanges(text string, positions []int, base, hl lipgloss.Style) string {
	if len(positions) == 0 {
		return base.Render(text)
	}
	marked := make(map[int]bool, len(positions))
	for _, p := range positions {
		marked[p] = true
	}

	var b strings.Builder
	var run strings.Builder
	runHL := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runHL {
			b.WriteString(hl.Render(run.String()))
		} else {
			b.WriteString(base.Render(run.String()))
		}
		run.Reset()
	}
	for i, r := range text {
		if marked[i] != runHL {
			flush()
			runHL = marked[i]
		}
		run.WriteRune(r)
	}
	flush()
	return b.String()
}

// viewQuery renders the query input line.
func (m Model) viewQuery() string {
	line := m.textInput.View()
	if m.copied {
		line += "  " + copiedStyle.Render("Copied!")
	}
	return line
}
