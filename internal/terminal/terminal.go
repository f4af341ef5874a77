// Package terminal drives a drill session on a text terminal.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/example/mintin/internal/session"
	"github.com/example/mintin/pkg/models"
)

const clearScreen = "\033[H\033[2J"

type styles struct {
	banner  lipgloss.Style
	prompt  lipgloss.Style
	answer  lipgloss.Style
	hint    lipgloss.Style
	correct lipgloss.Style
	wrong   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		banner:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		prompt:  r.NewStyle().Bold(true).PaddingLeft(4),
		answer:  r.NewStyle().Foreground(lipgloss.Color("86")).PaddingLeft(4),
		hint:    r.NewStyle().Foreground(lipgloss.Color("241")),
		correct: r.NewStyle().Foreground(lipgloss.Color("42")),
		wrong:   r.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// Driver presents session messages on out and reads replies from in
type Driver struct {
	session *session.Session
	in      io.Reader
	out     io.Writer
	clear   bool
	hold    bool // keep the feedback of the last answer on screen
	styles  styles
}

// New creates a driver. The screen is cleared between items only when out is a terminal.
func New(s *session.Session, in io.Reader, out io.Writer) *Driver {
	clear := false
	if f, ok := out.(*os.File); ok {
		clear = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Driver{
		session: s,
		in:      in,
		out:     out,
		clear:   clear,
		styles:  newStyles(lipgloss.NewRenderer(out)),
	}
}

type line struct {
	text string
	err  error
}

// Run drills until the input ends or ctx is cancelled.
// End of input is a normal exit and returns nil. After cancellation the
// goroutine reading in stays blocked until the next line or EOF arrives;
// Run is meant to be called once per process.
func (d *Driver) Run(ctx context.Context) error {
	lines := make(chan line)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go readLines(ctx, d.in, lines)

	msg, _, err := d.session.Continue()
	for {
		if err != nil {
			return err
		}
		var item models.Item
		if msg.Kind != session.NotifyAssessment {
			item = d.session.Catalog()[msg.Index]
		}

		switch msg.Kind {
		case session.Display:
			d.screen()
			fmt.Fprintln(d.out, d.styles.prompt.Render(item.Prompt))
			fmt.Fprintln(d.out, d.styles.answer.Render(item.Answer))
			fmt.Fprintln(d.out, d.styles.hint.Render("[Enter] continue"))
		case session.NotifyAssessment:
			d.screen()
			fmt.Fprintln(d.out, d.styles.banner.Render("Self-check: type the answer to every prompt"))
			fmt.Fprintln(d.out, d.styles.hint.Render("[Enter] start"))
		case session.Assess:
			d.screen()
			fmt.Fprintln(d.out, d.styles.prompt.Render(item.Prompt))
			fmt.Fprint(d.out, d.styles.hint.Render("> "))
		}

		var l line
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l = <-lines:
		}
		if l.err == io.EOF {
			fmt.Fprintln(d.out)
			return nil
		}
		if l.err != nil {
			return errors.Wrap(l.err, "failed to read input")
		}

		if msg.Kind != session.Assess {
			msg, _, err = d.session.Continue()
			continue
		}
		var change *session.Change
		msg, change, err = d.session.Answer(l.text)
		if change != nil {
			d.feedback(change.Pass, item.Answer)
		}
	}
}

func (d *Driver) screen() {
	if d.clear && !d.hold {
		fmt.Fprint(d.out, clearScreen)
	} else {
		fmt.Fprintln(d.out)
	}
	d.hold = false
}

func (d *Driver) feedback(pass bool, expected string) {
	d.hold = true
	if pass {
		fmt.Fprintln(d.out, d.styles.correct.Render("correct"))
		return
	}
	fmt.Fprintln(d.out, d.styles.wrong.Render("wrong, expected: "+expected))
}

// readLines sends every input line without its line ending, then the read error
func readLines(ctx context.Context, in io.Reader, out chan<- line) {
	r := bufio.NewReader(in)
	for {
		text, err := r.ReadString('\n')
		if err == nil || (err == io.EOF && text != "") {
			text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
			select {
			case out <- line{text: text}:
			case <-ctx.Done():
				return
			}
			if err == nil {
				continue
			}
		}
		select {
		case out <- line{err: err}:
		case <-ctx.Done():
		}
		return
	}
}
