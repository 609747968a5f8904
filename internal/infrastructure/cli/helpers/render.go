package helpers

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/kaalsec/internal/domain"
)

const markdownWidth = 100

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	idStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	toolStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

var bannerStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("9")).
	Padding(0, 1)

var warningBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.ThickBorder()).
	BorderForeground(lipgloss.Color("11")).
	Padding(0, 1)

// Title prints a bold heading line.
func Title(out io.Writer, text string) {
	fmt.Fprintln(out, titleStyle.Render(text))
}

// Success prints a confirmation line.
func Success(out io.Writer, text string) {
	fmt.Fprintln(out, successStyle.Render("✓ "+text))
}

// Failure prints an error line without aborting.
func Failure(out io.Writer, text string) {
	fmt.Fprintln(out, errorStyle.Render("✗ "+text))
}

// Muted prints secondary information.
func Muted(out io.Writer, text string) {
	fmt.Fprintln(out, mutedStyle.Render(text))
}

// Banner prints text in a bordered box.
func Banner(out io.Writer, text string) {
	fmt.Fprintln(out, bannerStyle.Render(strings.TrimSpace(text)))
}

// WarningBox highlights a policy warning together with the command it concerns.
func WarningBox(out io.Writer, warning, command string) {
	body := warnStyle.Render(domain.WarningMarker+"  "+warning) + "\n\n" + commandStyle.Render(command)
	fmt.Fprintln(out, warningBoxStyle.Render(body))
}

// RenderSuggestions prints generated suggestions as a numbered list,
// one block per suggestion, with the ID used by `run`.
func RenderSuggestions(out io.Writer, suggestions []domain.DisplaySuggestion) {
	idWidth := 0
	for _, s := range suggestions {
		if w := len(fmt.Sprintf("[%d]", s.ID)); w > idWidth {
			idWidth = w
		}
	}
	gutter := lipgloss.NewStyle().Width(idWidth + 1)
	for _, s := range suggestions {
		head := idStyle.Render(fmt.Sprintf("[%d]", s.ID))
		tool := s.Tool
		if tool == "" {
			tool = "-"
		}
		body := lipgloss.JoinVertical(lipgloss.Left,
			toolStyle.Render(tool)+"  "+commandStyle.Render(s.Command),
			descriptionStyle(s.Flagged).Render(s.Description),
		)
		fmt.Fprintln(out, lipgloss.JoinHorizontal(lipgloss.Top, gutter.Render(head), body))
		fmt.Fprintln(out)
	}
}

func descriptionStyle(flagged bool) lipgloss.Style {
	if flagged {
		return warnStyle
	}
	return mutedStyle
}

// Markdown renders markdown for the terminal. Rendering problems fall back
// to the raw text.
func Markdown(out io.Writer, markdown string) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(markdownWidth),
	)
	if err != nil {
		fmt.Fprintln(out, markdown)
		return
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		fmt.Fprintln(out, markdown)
		return
	}
	fmt.Fprint(out, rendered)
}
