package shell

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/doeshing/kaalsec/internal/domain"
)

// hookMarker precedes the source line so the hook can be found and removed
// even after the script path changes.
const hookMarker = "# Added by kaalsec integrate"

// rcFile is a shell startup file held as lines.
type rcFile struct {
	path    string
	lines   []string
	created bool
}

func loadRC(path string) (*rcFile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &rcFile{path: path, created: true}, nil
	}
	if err != nil {
		return nil, err
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return &rcFile{path: path}, nil
	}
	return &rcFile{path: path, lines: strings.Split(text, "\n")}, nil
}

// sources reports whether the file already sources the hook.
func (f *rcFile) sources(sourceLine string) bool {
	for _, line := range f.lines {
		if strings.Contains(line, sourceLine) {
			return true
		}
	}
	return false
}

// dropHook removes every marker and source line, reporting whether the
// hook was present.
func (f *rcFile) dropHook(sourceLine string) bool {
	kept := f.lines[:0]
	found := false
	for _, line := range f.lines {
		if strings.TrimSpace(line) == hookMarker {
			continue
		}
		if strings.Contains(line, sourceLine) {
			found = true
			continue
		}
		kept = append(kept, line)
	}
	f.lines = kept
	return found
}

func (f *rcFile) appendHook(sourceLine string) {
	f.lines = append(f.lines, hookMarker, sourceLine)
}

func (f *rcFile) save() error {
	return os.WriteFile(f.path, []byte(strings.Join(f.lines, "\n")+"\n"), domain.FilePermissions)
}

// installHook makes path source the hook exactly once. Without force an
// existing hook is left alone.
func installHook(path, sourceLine string, force bool) (bool, error) {
	rc, err := loadRC(path)
	if err != nil {
		return false, err
	}
	if !rc.created && rc.sources(sourceLine) && !force {
		return false, nil
	}
	rc.dropHook(sourceLine)
	rc.appendHook(sourceLine)
	return true, rc.save()
}

// removeHook strips the hook from path. A missing file is left missing.
func removeHook(path, sourceLine string) (bool, error) {
	rc, err := loadRC(path)
	if err != nil || rc.created {
		return false, err
	}
	if !rc.dropHook(sourceLine) {
		return false, nil
	}
	return true, rc.save()
}
