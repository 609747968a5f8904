package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// WarningMarker prefixes the description of a suggestion the policy filter flagged.
const WarningMarker = "⚠️"

// Suggestion is a persisted candidate command. IDs are assigned by the store
// and never change once written.
type Suggestion struct {
	ID          int        `json:"id"`
	Command     string     `json:"command"`
	Description string     `json:"description"`
	Tool        string     `json:"tool,omitempty"`
	CreatedAt   Timestamp  `json:"created_at"`
	Executed    bool       `json:"executed"`
	ExecutedAt  *Timestamp `json:"executed_at,omitempty"`
}

// Flagged reports whether the description carries a policy warning.
func (s Suggestion) Flagged() bool {
	return strings.HasPrefix(s.Description, WarningMarker)
}

// Candidate is one entry of the model's JSON answer, before it is screened
// and stored.
type Candidate struct {
	Tool        string `json:"tool"`
	Command     string `json:"command"`
	Description string `json:"description"`
}

// PolicyVerdict is the transient result of screening a command.
type PolicyVerdict struct {
	Safe    bool
	Warning string
}

// Annotate prepends the verdict's warning to description when the verdict is unsafe.
func (v PolicyVerdict) Annotate(description string) string {
	if v.Safe {
		return description
	}
	return strings.TrimSpace(WarningMarker + " " + v.Warning + " " + description)
}

// Timestamp is a time.Time that also accepts the zone-less ISO-8601 stamps
// written by earlier versions of the ledger.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

var legacyTimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ParseTimestamp parses RFC 3339 and the legacy local-time layouts.
func ParseTimestamp(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range legacyTimestampLayouts {
		parsed, err := time.ParseInLocation(layout, raw, time.Local)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// DisplaySuggestion is one row of the list returned to the CLI after generation.
type DisplaySuggestion struct {
	ID          int
	Tool        string
	Command     string
	Description string
	Flagged     bool
}
