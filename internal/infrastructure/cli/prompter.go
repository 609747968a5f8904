package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/doeshing/kaalsec/internal/infrastructure/cli/helpers"
	"github.com/doeshing/kaalsec/internal/ports"
)

// Prompter implements ConfirmationPrompter using stdin/stdout. When stdin is
// not a terminal every confirmation is declined without reading.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter constructs a prompter on stdio.
func NewPrompter() *Prompter {
	return newPrompter(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

func newPrompter(in io.Reader, out io.Writer, interactive bool) *Prompter {
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Enabled indicates the prompter can ask questions.
func (p *Prompter) Enabled() bool {
	return p.interactive
}

// ConfirmWarning shows a policy warning and asks whether to continue anyway.
func (p *Prompter) ConfirmWarning(warning string, command string) (bool, error) {
	helpers.WarningBox(p.out, warning, command)
	if !p.interactive {
		helpers.Muted(p.out, "stdin is not a terminal; declining")
		return false, nil
	}
	return p.ask("This command was flagged. Proceed anyway?")
}

// ConfirmExecution shows the command and asks for the final go-ahead.
func (p *Prompter) ConfirmExecution(command string, description string) (bool, error) {
	helpers.Title(p.out, "Command:")
	fmt.Fprintf(p.out, "  %s\n", command)
	if description != "" {
		helpers.Muted(p.out, "  "+description)
	}
	if !p.interactive {
		helpers.Muted(p.out, "stdin is not a terminal; declining (use --yes to skip this confirmation)")
		return false, nil
	}
	return p.ask("Execute this command?")
}

func (p *Prompter) ask(question string) (bool, error) {
	ok, err := helpers.PromptForConfirmation(p.out, p.in, question)
	if err == io.EOF {
		return false, nil
	}
	return ok, err
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
