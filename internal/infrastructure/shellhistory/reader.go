package shellhistory

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

// zsh EXTENDED_HISTORY prefix, ": <epoch>:<duration>;"
var zshExtended = regexp.MustCompile(`^: \d+:\d+;`)

// Reader returns the tail of the user's bash or zsh history file, plus the
// last command exported by the shell hook.
type Reader struct {
	home   string
	shell  string
	getenv func(string) string
}

// NewReader reads history files under home. shell is the value of $SHELL and
// decides which file is tried first.
func NewReader(home, shell string) *Reader {
	return &Reader{home: home, shell: shell, getenv: os.Getenv}
}

// Recent implements ports.HistoryProvider. Lines are oldest first.
func (r *Reader) Recent(limit int) []string {
	if limit <= 0 {
		return nil
	}
	var lines []string
	for _, path := range r.candidates() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		lines = parse(data)
		break
	}
	if last := strings.TrimSpace(r.getenv(domain.LastCommandEnv)); last != "" {
		if len(lines) == 0 || lines[len(lines)-1] != last {
			lines = append(lines, last)
		}
	}
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines
}

func (r *Reader) candidates() []string {
	bash := filepath.Join(r.home, ".bash_history")
	zsh := filepath.Join(r.home, ".zsh_history")
	if filepath.Base(r.shell) == string(domain.ShellZsh) {
		return []string{zsh, bash}
	}
	return []string{bash, zsh}
}

func parse(data []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(zshExtended.ReplaceAllString(scanner.Text(), ""))
		// bash HISTTIMEFORMAT comment lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

var _ ports.HistoryProvider = (*Reader)(nil)
