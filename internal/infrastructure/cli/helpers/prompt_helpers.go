package helpers

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PromptForConfirmation asks a yes/no question defaulting to no. A read error
// (including EOF on closed stdin) counts as a refusal and is returned.
func PromptForConfirmation(out io.Writer, reader *bufio.Reader, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	return isAffirmativeResponse(strings.ToLower(strings.TrimSpace(line))), nil
}

// isAffirmativeResponse checks if a response is affirmative (yes)
func isAffirmativeResponse(response string) bool {
	return response == "y" || response == "yes"
}

// PrintWarnings outputs a list of warning messages to the writer
func PrintWarnings(out io.Writer, warnings []string) {
	for _, warning := range warnings {
		warning = strings.TrimSpace(warning)
		if warning == "" {
			continue
		}
		fmt.Fprintln(out, warnStyle.Render("Warning:")+" "+warning)
	}
}
