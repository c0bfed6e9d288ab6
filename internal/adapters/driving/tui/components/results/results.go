// Package results provides the scrollable markdown answer pane for the TUI.
package results

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/custodia-labs/gengpt/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gengpt/internal/core/domain"
)

// DefaultStyle is the glamour style used outside tests.
const DefaultStyle = "dark"

// Pane renders markdown answers inside a viewport.
type Pane struct {
	viewport viewport.Model
	styles   *styles.Styles
	style    string
	renderer *glamour.TermRenderer

	markdown string
	width    int
	height   int
	focused  bool
}

// New creates an empty results pane. style names a glamour standard style
// such as "dark", "light" or "notty"; empty means DefaultStyle.
func New(s *styles.Styles, style string) *Pane {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if style == "" {
		style = DefaultStyle
	}

	p := &Pane{
		viewport: viewport.New(40, 10),
		styles:   s,
		style:    style,
		width:    44,
		height:   12,
	}
	p.renderer = p.newRenderer()
	return p
}

func (p *Pane) newRenderer() *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(p.style),
		glamour.WithWordWrap(p.viewport.Width),
	)
	if err != nil {
		return nil
	}
	return r
}

// Init implements the component lifecycle.
func (p *Pane) Init() tea.Cmd {
	return nil
}

// Update forwards scroll keys to the viewport while focused.
func (p *Pane) Update(msg tea.Msg) (*Pane, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok && !p.focused {
		return p, nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the viewport inside a pane frame.
func (p *Pane) View() string {
	return p.styles.Frame(p.focused).
		Width(p.width - 2).
		Render(p.viewport.View())
}

// SetMarkdown replaces the pane content with rendered markdown.
func (p *Pane) SetMarkdown(md string) {
	p.markdown = md
	p.refresh()
	p.viewport.GotoTop()
}

// SetAnswer shows an answer followed by the list of its sources.
func (p *Pane) SetAnswer(answer domain.Answer) {
	p.SetMarkdown(FormatAnswer(answer))
}

// SetError shows err in the pane.
func (p *Pane) SetError(err error) {
	p.SetMarkdown(fmt.Sprintf("**Error:** %s", err))
}

// Clear empties the pane.
func (p *Pane) Clear() {
	p.SetMarkdown("")
}

// Markdown returns the unrendered content.
func (p *Pane) Markdown() string {
	return p.markdown
}

// Rendered returns the content as drawn in the viewport.
func (p *Pane) Rendered() string {
	return p.render(p.markdown)
}

func (p *Pane) refresh() {
	p.viewport.SetContent(p.render(p.markdown))
}

func (p *Pane) render(md string) string {
	if md == "" {
		return ""
	}
	if p.renderer == nil {
		return md
	}
	out, err := p.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// SetSize sets the outer width and height of the pane.
func (p *Pane) SetSize(width, height int) {
	p.width = width
	p.height = height

	innerWidth := width - 4
	if innerWidth < 10 {
		innerWidth = 10
	}
	innerHeight := height - 2
	if innerHeight < 1 {
		innerHeight = 1
	}

	p.viewport.Width = innerWidth
	p.viewport.Height = innerHeight
	p.renderer = p.newRenderer()
	p.refresh()
}

// Focus gives the pane keyboard focus.
func (p *Pane) Focus() {
	p.focused = true
}

// Blur removes keyboard focus.
func (p *Pane) Blur() {
	p.focused = false
}

// Focused returns whether the pane has focus.
func (p *Pane) Focused() bool {
	return p.focused
}

// YOffset returns the current scroll position.
func (p *Pane) YOffset() int {
	return p.viewport.YOffset
}

// FormatAnswer turns an answer into markdown with a trailing sources list.
func FormatAnswer(answer domain.Answer) string {
	if len(answer.Sources) == 0 {
		return answer.Text
	}

	var b strings.Builder
	b.WriteString(answer.Text)
	b.WriteString("\n\n---\n\n**Sources**\n\n")
	for _, src := range answer.Sources {
		fmt.Fprintf(&b, "- `%s`\n", src)
	}
	return b.String()
}
