// Package prompt asks the user for the plot file name, retrying until the
// plot is saved or the user gives up.
//
// On a terminal the prompt is a bubbletea program around a text input; for
// pipes and files [Lines] reads one name per line. Both re-ask after any
// retryable error returned by the save callback and stop on the first
// success.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/Elenmith/TPLProgram/internal/errors"
	"github.com/Elenmith/TPLProgram/internal/tui/styles"
)

// Question is shown before every attempt.
const Question = "Enter the file name to save the plot (e.g., plot.png): "

// ErrCanceled is returned when the user leaves the prompt without saving.
var ErrCanceled = errors.New("prompt canceled")

// SaveFunc persists the plot under the entered name and returns the saved path.
type SaveFunc func(name string) (string, error)

// savedMsg carries the outcome of one save attempt back into Update.
type savedMsg struct {
	path string
	err  error
}

// Model is the bubbletea model of the filename prompt.
type Model struct {
	textInput textinput.Model
	save      SaveFunc

	saving   bool
	attempts int
	errorMsg string

	path     string
	err      error
	quitting bool
}

// New creates a prompt model that calls save on every submitted name.
func New(save SaveFunc) Model {
	ti := textinput.New()
	ti.Placeholder = "plot.png"
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40

	return Model{textInput: ti, save: save}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		m.saving = false
		if msg.err == nil {
			m.path = msg.path
			m.quitting = true
			return m, tea.Quit
		}
		if errors.IsRetryable(msg.err) {
			m.errorMsg = msg.err.Error()
			m.textInput.SetValue("")
			return m, nil
		}
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}

		switch msg.String() {
		case "esc", "ctrl+c":
			m.err = ErrCanceled
			m.quitting = true
			return m, tea.Quit

		case "enter":
			m.errorMsg = ""
			m.saving = true
			m.attempts++
			return m, m.submit(m.textInput.Value())
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) submit(name string) tea.Cmd {
	save := m.save
	return func() tea.Msg {
		path, err := save(name)
		return savedMsg{path: path, err: err}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.PromptLabel.Render(strings.TrimSuffix(Question, " ")))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n")

	switch {
	case m.saving:
		b.WriteString(styles.Muted.Render("Saving..."))
		b.WriteString("\n")
	case m.errorMsg != "":
		b.WriteString(styles.ErrorMsg.Render("Error: " + m.errorMsg))
		b.WriteString("\n")
	}

	b.WriteString(styles.HelpBar.Render(
		styles.HelpKey.Render("enter") + " save  " + styles.HelpKey.Render("esc") + " skip plot"))
	return b.String()
}

// Result returns the saved path, or the error that ended the prompt.
func (m Model) Result() (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.path == "" {
		return "", ErrCanceled
	}
	return m.path, nil
}

// Attempts returns how many names were submitted.
func (m Model) Attempts() int {
	return m.attempts
}

// Run shows the interactive prompt on in/out until a plot is saved.
func Run(ctx context.Context, in io.Reader, out io.Writer, save SaveFunc) (string, error) {
	p := tea.NewProgram(New(save),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return final.(Model).Result()
}

// Lines reads one file name per line from r, writing the question and any
// retryable error to w. It returns ErrCanceled at end of input and ctx.Err()
// once ctx is done, even while a read is still pending.
func Lines(ctx context.Context, r io.Reader, w io.Writer, save SaveFunc) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	done := make(chan struct{})
	defer close(done)
	lines, readErr := readLines(r, done)
	for {
		fmt.Fprint(w, Question)

		var name string
		select {
		case <-ctx.Done():
			fmt.Fprintln(w)
			return "", ctx.Err()
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(w)
				if err := readErr(); err != nil {
					return "", fmt.Errorf("failed to read file name: %w", err)
				}
				return "", ErrCanceled
			}
			name = line
		}

		path, err := save(name)
		if err == nil {
			return path, nil
		}
		if !errors.IsRetryable(err) {
			return "", err
		}
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

// readLines scans r on its own goroutine so a blocked read never holds up
// the caller. The channel is closed at end of input, after which readErr
// reports the scanner error. Once done is closed the goroutine exits after
// its pending read returns.
func readLines(r io.Reader, done <-chan struct{}) (<-chan string, func() error) {
	lines := make(chan string)
	var scanErr error
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		scanErr = scanner.Err()
	}()
	return lines, func() error { return scanErr }
}

// IsInteractive reports whether both f and stdout are terminals.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
