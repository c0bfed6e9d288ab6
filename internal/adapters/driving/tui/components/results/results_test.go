package results

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gengpt/internal/core/domain"
)

func newPane() *Pane {
	p := New(nil, "notty")
	p.SetSize(60, 10)
	return p
}

func TestNew_Defaults(t *testing.T) {
	p := New(nil, "")

	require.NotNil(t, p)
	assert.Equal(t, DefaultStyle, p.style)
	assert.NotNil(t, p.renderer)
	assert.False(t, p.Focused())
	assert.Nil(t, p.Init())
}

func TestSetMarkdown_RendersText(t *testing.T) {
	p := newPane()

	p.SetMarkdown("# Title\n\nThe file says hello world.")

	assert.Equal(t, "# Title\n\nThe file says hello world.", p.Markdown())
	assert.Contains(t, p.Rendered(), "hello world")
	assert.Contains(t, p.View(), "hello world")
}

func TestClear(t *testing.T) {
	p := newPane()
	p.SetMarkdown("something")

	p.Clear()

	assert.Empty(t, p.Markdown())
	assert.Empty(t, p.Rendered())
	assert.NotContains(t, p.View(), "something")
}

func TestSetAnswer_IncludesSources(t *testing.T) {
	p := newPane()

	p.SetAnswer(domain.Answer{Text: "It prints a greeting.", Sources: []string{"/src/a.txt"}})

	assert.Contains(t, p.Markdown(), "**Sources**")
	assert.Contains(t, p.Rendered(), "/src/a.txt")
}

func TestSetError(t *testing.T) {
	p := newPane()

	p.SetError(errors.New("llm unavailable"))

	assert.Contains(t, p.Rendered(), "llm unavailable")
}

func TestFormatAnswer(t *testing.T) {
	t.Run("without sources", func(t *testing.T) {
		assert.Equal(t, "plain", FormatAnswer(domain.Answer{Text: "plain"}))
	})

	t.Run("with sources", func(t *testing.T) {
		md := FormatAnswer(domain.Answer{Text: "answer", Sources: []string{"a.go", "b.go"}})

		assert.True(t, strings.HasPrefix(md, "answer\n\n---"))
		assert.Contains(t, md, "- `a.go`\n- `b.go`\n")
	})
}

func TestUpdate_ScrollsOnlyWhenFocused(t *testing.T) {
	p := newPane()
	var lines []string
	for i := 0; i < 50; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	p.SetMarkdown(strings.Join(lines, "\n\n"))

	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, p.YOffset())

	p.Focus()
	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Greater(t, p.YOffset(), 0)
}

func TestSetSize_MinimumInner(t *testing.T) {
	p := New(nil, "notty")

	p.SetSize(3, 1)

	assert.Equal(t, 10, p.viewport.Width)
	assert.Equal(t, 1, p.viewport.Height)
}
