package suggest

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/doeshing/kaalsec/internal/domain"
)

// parseCandidates pulls the first JSON array holding at least one candidate
// with a command out of a model answer. Prose before and after the array is
// ignored, as are candidates with an empty command.
func parseCandidates(text string) ([]domain.Candidate, error) {
	var lastErr error
	for offset := 0; offset < len(text); {
		idx := strings.IndexByte(text[offset:], '[')
		if idx < 0 {
			break
		}
		start := offset + idx
		var candidates []domain.Candidate
		err := json.NewDecoder(strings.NewReader(text[start:])).Decode(&candidates)
		if err == nil {
			kept, usableErr := usable(candidates)
			if usableErr == nil {
				return kept, nil
			}
			err = usableErr
		}
		lastErr = err
		offset = start + 1
	}
	if lastErr == nil {
		lastErr = errors.New("no JSON array in response")
	}
	return nil, &domain.ParseError{Err: lastErr}
}

func usable(candidates []domain.Candidate) ([]domain.Candidate, error) {
	if len(candidates) == 0 {
		return nil, errors.New("empty candidate array")
	}
	kept := candidates[:0]
	for _, c := range candidates {
		c.Command = strings.TrimSpace(c.Command)
		if c.Command == "" {
			continue
		}
		c.Tool = strings.TrimSpace(c.Tool)
		c.Description = strings.TrimSpace(c.Description)
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return nil, errors.New("no candidate carried a command")
	}
	return kept, nil
}
