package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/gengpt/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/gengpt/internal/adapters/driving/tui/components/results"
	"github.com/custodia-labs/gengpt/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/gengpt/internal/adapters/driving/tui/components/tree"
	"github.com/custodia-labs/gengpt/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/gengpt/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gengpt/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gengpt/internal/core/domain"
	"github.com/custodia-labs/gengpt/internal/logger"
)

const (
	headerHeight = 1
	statusHeight = 1
	inputHeight  = 3
	maxTreeWidth = 36
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	tree    *tree.Model
	results *results.Pane
	input   *input.PromptInput
	status  *status.Bar

	// focus is the pane receiving keys.
	focus    messages.Pane
	showTree bool

	// currentPath is handed to Ask with every query.
	currentPath string

	// busy is set while an Ask call is in flight.
	busy bool

	lastQuery domain.Query
	answer    domain.Answer
	err       error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		tree:        tree.New(ports.Source, s, km),
		results:     results.New(s, results.DefaultStyle),
		input:       input.NewPromptInput(s),
		status:      status.NewBar(s, km),
		showTree:    true,
		currentPath: ports.Source,
	}
	a.status.SetPath(a.currentPath)
	a.setFocus(messages.PaneResults)
	return a, nil
}

// WithContext sets the context Ask calls run under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithMarkdownStyle replaces the glamour style of the results pane.
func (a *App) WithMarkdownStyle(style string) *App {
	focused := a.results.Focused()
	a.results = results.New(a.styles, style)
	if focused {
		a.results.Focus()
	}
	if a.ready {
		a.layout()
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.input.Init(),
		a.status.Init(),
		tea.SetWindowTitle("gengpt"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case messages.PathSelected:
		a.currentPath = msg.Path
		a.status.SetPath(msg.Path)
		logger.Debug("tui: selected %s", msg.Path)
		return a, nil

	case messages.PromptSubmitted:
		return a, a.submit(msg.Text)

	case messages.AnswerCompleted:
		a.busy = false
		if msg.Err != nil {
			a.showError(msg.Err)
			return a, nil
		}
		a.err = nil
		a.answer = msg.Answer
		a.results.SetAnswer(msg.Answer)
		a.status.SetState(status.StateAnswered)
		a.status.SetMessage("")
		a.status.SetSourceCount(len(msg.Answer.Sources))
		return a, nil

	case messages.ResultsCleared:
		a.clearResults()
		return a, nil

	case messages.ErrorOccurred:
		a.showError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Cursor blink, spinner and viewport messages.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	a.results, cmd = a.results.Update(msg)
	cmds = append(cmds, cmd)
	a.status, cmd = a.status.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// handleKey routes a key press to the app or the focused pane.
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()

	if keymap.Matches(k, a.keymap.ForceQuit) {
		return tea.Quit
	}
	if keymap.Matches(k, a.keymap.NextPane) {
		a.cycleFocus()
		return nil
	}

	if a.focus == messages.PaneInput {
		switch {
		case keymap.Matches(k, a.keymap.Leave):
			a.setFocus(messages.PaneResults)
			return nil
		case keymap.Matches(k, a.keymap.Submit):
			return a.submit(a.input.Value())
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return cmd
	}

	switch {
	case keymap.Matches(k, a.keymap.Quit):
		return tea.Quit
	case keymap.Matches(k, a.keymap.ToggleTree):
		a.toggleTree()
		return nil
	}

	var cmd tea.Cmd
	switch a.focus {
	case messages.PaneTree:
		a.tree, cmd = a.tree.Update(msg)
	case messages.PaneResults:
		a.results, cmd = a.results.Update(msg)
	case messages.PaneInput:
	}
	return cmd
}

// submit starts an Ask for text against the current path.
// Empty text clears the results without calling the service.
// An in-flight query keeps running and further questions are ignored.
func (a *App) submit(text string) tea.Cmd {
	if strings.TrimSpace(text) == "" {
		a.clearResults()
		return nil
	}
	if a.busy {
		return nil
	}

	query := domain.Query{Text: text, Path: a.currentPath}
	a.lastQuery = query
	a.busy = true
	a.err = nil
	a.status.SetState(status.StateThinking)
	a.status.SetMessage("")

	ctx := a.ctx
	qa := a.ports.QA
	return func() tea.Msg {
		logger.Debug("tui: ask path=%s", query.Path)
		answer, err := qa.Ask(ctx, query)
		return messages.AnswerCompleted{Query: query, Answer: answer, Err: err}
	}
}

func (a *App) clearResults() {
	a.answer = domain.Answer{}
	a.err = nil
	a.results.Clear()
	if !a.busy {
		a.status.Clear()
	}
}

func (a *App) showError(err error) {
	a.err = err
	a.results.SetError(err)
	a.status.SetState(status.StateError)
	a.status.SetMessage(err.Error())
	logger.Warn("tui: %v", err)
}

func (a *App) toggleTree() {
	a.showTree = !a.showTree
	if !a.showTree && a.focus == messages.PaneTree {
		a.setFocus(messages.PaneResults)
	}
	if a.ready {
		a.layout()
	}
}

// cycleFocus moves focus tree → results → input, skipping a hidden tree.
func (a *App) cycleFocus() {
	switch a.focus {
	case messages.PaneTree:
		a.setFocus(messages.PaneResults)
	case messages.PaneResults:
		a.setFocus(messages.PaneInput)
	case messages.PaneInput:
		if a.showTree {
			a.setFocus(messages.PaneTree)
		} else {
			a.setFocus(messages.PaneResults)
		}
	}
}

func (a *App) setFocus(p messages.Pane) {
	a.focus = p
	a.tree.Blur()
	a.results.Blur()
	a.input.Blur()

	switch p {
	case messages.PaneTree:
		a.tree.Focus()
	case messages.PaneResults:
		a.results.Focus()
	case messages.PaneInput:
		a.input.Focus()
	}
	a.status.SetInputMode(p == messages.PaneInput)
}

// layout sizes every pane from the terminal dimensions.
func (a *App) layout() {
	bodyHeight := a.height - headerHeight - statusHeight
	if bodyHeight < inputHeight+3 {
		bodyHeight = inputHeight + 3
	}

	rightWidth := a.width
	if a.showTree {
		treeWidth := a.width / 3
		if treeWidth > maxTreeWidth {
			treeWidth = maxTreeWidth
		}
		a.tree.SetSize(treeWidth, bodyHeight)
		rightWidth -= treeWidth
	}

	a.results.SetSize(rightWidth, bodyHeight-inputHeight)
	a.input.SetWidth(rightWidth)
	a.status.SetWidth(a.width)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	header := a.styles.Header.Render("gengpt") +
		a.styles.Muted.Render(a.ports.Source)
	if a.ports.Store != "" {
		header += a.styles.Muted.Render(" → " + a.ports.Store)
	}

	right := lipgloss.JoinVertical(lipgloss.Left, a.results.View(), a.input.View())
	body := right
	if a.showTree {
		body = lipgloss.JoinHorizontal(lipgloss.Top, a.tree.View(), right)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, a.status.View())
}

// Run starts the TUI application on the alternate screen.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentPath returns the path handed to the next query.
func (a *App) CurrentPath() string {
	return a.currentPath
}

// Focus returns the pane that currently receives keys.
func (a *App) Focus() messages.Pane {
	return a.focus
}

// TreeVisible reports whether the directory tree is shown.
func (a *App) TreeVisible() bool {
	return a.showTree
}

// Busy reports whether a query is in flight.
func (a *App) Busy() bool {
	return a.busy
}

// LastQuery returns the most recently submitted query.
func (a *App) LastQuery() domain.Query {
	return a.lastQuery
}

// Answer returns the last answer shown.
func (a *App) Answer() domain.Answer {
	return a.answer
}

// ResultsMarkdown returns the unrendered results pane content.
func (a *App) ResultsMarkdown() string {
	return a.results.Markdown()
}

// InputValue returns the text in the prompt box.
func (a *App) InputValue() string {
	return a.input.Value()
}

// StatusState returns the status bar state.
func (a *App) StatusState() status.State {
	return a.status.State()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its first window size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.layout()
}
