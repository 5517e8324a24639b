package view

import (
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const terminalRule = "----------------------------------------"

// TerminalRenderer prints the visible panels of the page every time it
// changes.
type TerminalRenderer struct {
	mu      sync.Mutex
	out     io.Writer
	loading *color.Color
	failure *color.Color
	title   *color.Color
	score   *color.Color
	text    *color.Color
}

func NewTerminalRenderer(out io.Writer, noColor bool) *TerminalRenderer {
	r := &TerminalRenderer{
		out:     out,
		loading: color.New(color.FgYellow),
		failure: color.New(color.FgRed, color.Bold),
		title:   color.New(color.FgGreen, color.Bold),
		score:   color.New(color.FgHiWhite, color.Bold),
		text:    color.New(color.FgWhite),
	}

	if noColor {
		for _, c := range []*color.Color{r.loading, r.failure, r.title, r.score, r.text} {
			c.DisableColor()
		}
	}

	return r
}

func (r *TerminalRenderer) Render(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = io.WriteString(r.out, terminalRule+"\n")

	if s.Visible(ElementLoading) {
		_, _ = r.loading.Fprintln(r.out, s.Text(ElementLoading))
	}
	if s.Visible(ElementError) {
		_, _ = r.failure.Fprintln(r.out, s.Text(ElementError))
	}
	if s.Visible(ElementMatchDisplay) {
		_, _ = r.title.Fprintln(r.out, s.Text(ElementTeamNames))
		_, _ = r.score.Fprintln(r.out, "  "+s.Text(ElementScore))
		_, _ = r.text.Fprintln(r.out, strings.Join([]string{s.Text(ElementStatus), s.Text(ElementLastEvent)}, " | "))
	}
}
