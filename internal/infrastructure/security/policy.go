package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

// LegalBanner is printed before assistant answers unless disabled.
const LegalBanner = `LEGAL DISCLAIMER
kaalsec is meant for ethical security testing only.

* Only test systems you own or are explicitly authorised to assess.
* Unauthorised access is illegal and may lead to prosecution.
* You are responsible for every command you run with this tool.
* Every executed command is logged for compliance.`

// Filter implements ports.PolicyChecker. It holds no mutable state after
// construction.
type Filter struct {
	redTeam    bool
	anonymise  bool
	hazards    []compiledRule
	restricted []compiledRule
}

type compiledRule struct {
	re      *regexp.Regexp
	message string
}

// Rule is one pattern/message pair of the policy rules file.
type Rule struct {
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message"`
}

// RulesFile is the YAML schema of policy.rules_file.
type RulesFile struct {
	HazardPatterns     []Rule `yaml:"hazard_patterns"`
	RestrictedPatterns []Rule `yaml:"restricted_patterns"`
}

var ipv4Pattern = regexp.MustCompile(`\b(\d{1,3}\.){3}\d{1,3}\b`)

func defaultHazards() []Rule {
	return []Rule{
		{Pattern: `rm\s+-rf\s+/`, Message: "DANGEROUS: Attempting to delete root filesystem"},
		{Pattern: `dd\s+if=/dev/`, Message: "DANGEROUS: Direct disk manipulation"},
		{Pattern: `>\s*/dev/sd[a-z]`, Message: "DANGEROUS: Writing to block devices"},
		{Pattern: `:\(\)\s*\{\s*:\s*\|\s*:\s*&\s*\}`, Message: "DANGEROUS: Fork bomb pattern"},
		{Pattern: `mkfs\.`, Message: "DANGEROUS: Filesystem creation"},
	}
}

func defaultRestricted() []Rule {
	return []Rule{
		{Pattern: `crack|brute.*force|password.*dump`, Message: "POTENTIALLY ILLEGAL: Unauthorized access attempts"},
		{Pattern: `exploit.*production|prod.*exploit`, Message: "POTENTIALLY ILLEGAL: Production system exploitation"},
	}
}

// NewFilter builds the policy filter. rulesFile is optional; its patterns are
// appended after the built-in sets, so built-ins always match first.
func NewFilter(redTeam, anonymise bool, rulesFile string) (*Filter, error) {
	extra, err := loadRules(rulesFile)
	if err != nil {
		return nil, err
	}
	hazards, err := compileRules(append(defaultHazards(), extra.HazardPatterns...))
	if err != nil {
		return nil, err
	}
	restricted, err := compileRules(append(defaultRestricted(), extra.RestrictedPatterns...))
	if err != nil {
		return nil, err
	}
	return &Filter{
		redTeam:    redTeam,
		anonymise:  anonymise,
		hazards:    hazards,
		restricted: restricted,
	}, nil
}

// Check implements ports.PolicyChecker. Hazard rules are enforced in every
// mode; restricted rules are skipped in red-team mode.
func (f *Filter) Check(command string) domain.PolicyVerdict {
	lowered := strings.ToLower(command)
	if rule, ok := firstMatch(f.hazards, lowered); ok {
		return domain.PolicyVerdict{Safe: false, Warning: rule.message}
	}
	if !f.redTeam {
		if rule, ok := firstMatch(f.restricted, lowered); ok {
			return domain.PolicyVerdict{Safe: false, Warning: rule.message}
		}
	}
	return domain.PolicyVerdict{Safe: true}
}

// Anonymize blanks the last octet of every IPv4-looking substring when the
// filter was built with anonymise enabled.
func (f *Filter) Anonymize(text string) string {
	if !f.anonymise {
		return text
	}
	return ipv4Pattern.ReplaceAllStringFunc(text, func(addr string) string {
		return addr[:strings.LastIndex(addr, ".")] + ".X"
	})
}

func firstMatch(rules []compiledRule, command string) (compiledRule, bool) {
	for _, rule := range rules {
		if rule.re.MatchString(command) {
			return rule, true
		}
	}
	return compiledRule{}, false
}

func compileRules(rules []Rule) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		if strings.TrimSpace(rule.Pattern) == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, &domain.ConfigurationError{Msg: fmt.Sprintf("invalid policy pattern %q: %v", rule.Pattern, err)}
		}
		compiled = append(compiled, compiledRule{re: re, message: rule.Message})
	}
	return compiled, nil
}

func loadRules(path string) (RulesFile, error) {
	var rules RulesFile
	if path == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return rules, nil
	}
	if err != nil {
		return rules, &domain.ConfigurationError{Msg: fmt.Sprintf("read policy rules %s: %v", path, err)}
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, &domain.ConfigurationError{Msg: fmt.Sprintf("parse policy rules %s: %v", path, err)}
	}
	return rules, nil
}

var _ ports.PolicyChecker = (*Filter)(nil)
