// Package shellwords extracts the program name a shell command line invokes.
package shellwords

import (
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// wrapper describes a program that runs the next word as the real program.
type wrapper struct {
	// valueFlags consume the following word.
	valueFlags map[string]bool
	// operands precede the program, e.g. the duration of timeout.
	operands int
}

func flags(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

var wrappers = map[string]wrapper{
	"sudo":         {valueFlags: flags("-u", "-g", "-h", "-p", "-C", "-D", "-r", "-t", "-U")},
	"doas":         {valueFlags: flags("-u", "-C")},
	"env":          {valueFlags: flags("-u", "-C")},
	"time":         {valueFlags: flags("-f", "-o")},
	"nohup":        {},
	"nice":         {valueFlags: flags("-n")},
	"timeout":      {valueFlags: flags("-s", "-k"), operands: 1},
	"proxychains":  {valueFlags: flags("-f")},
	"proxychains4": {valueFlags: flags("-f")},
}

// CommandName returns the base name of the first program the command line
// runs, looking through sudo-style wrappers, pipelines and subshells. It
// falls back to the first whitespace-separated field when the line does not
// parse as bash.
func CommandName(command string) string {
	parser := syntax.NewParser(syntax.KeepComments(false), syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return fallback(command)
	}
	for _, stmt := range file.Stmts {
		if name := fromStmt(stmt); name != "" {
			return name
		}
	}
	return ""
}

func fromStmt(stmt *syntax.Stmt) string {
	if stmt == nil || stmt.Cmd == nil {
		return ""
	}
	switch cmd := stmt.Cmd.(type) {
	case *syntax.CallExpr:
		return fromWords(cmd.Args)
	case *syntax.BinaryCmd:
		if name := fromStmt(cmd.X); name != "" {
			return name
		}
		return fromStmt(cmd.Y)
	case *syntax.TimeClause:
		return fromStmt(cmd.Stmt)
	case *syntax.Subshell:
		for _, s := range cmd.Stmts {
			if name := fromStmt(s); name != "" {
				return name
			}
		}
	case *syntax.Block:
		for _, s := range cmd.Stmts {
			if name := fromStmt(s); name != "" {
				return name
			}
		}
	}
	return ""
}

func fromWords(args []*syntax.Word) string {
	values := make([]string, 0, len(args))
	for _, word := range args {
		values = append(values, wordToString(word))
	}
	return programName(values)
}

// programName skips wrappers along with their options, option values and
// leading operands.
func programName(words []string) string {
	var (
		active    wrapper
		inWrapper bool
		skipNext  bool
		operands  int
	)
	for _, value := range words {
		if value == "" {
			continue
		}
		if skipNext {
			skipNext = false
			continue
		}
		if inWrapper {
			if strings.HasPrefix(value, "-") {
				skipNext = active.valueFlags[value]
				continue
			}
			if strings.Contains(value, "=") {
				continue
			}
			if operands > 0 {
				operands--
				continue
			}
		}
		name := filepath.Base(value)
		if w, ok := wrappers[name]; ok {
			active, inWrapper, operands = w, true, w.operands
			continue
		}
		return name
	}
	return ""
}

func wordToString(word *syntax.Word) string {
	if lit := word.Lit(); lit != "" {
		return lit
	}
	var sb strings.Builder
	printer := syntax.NewPrinter()
	printer.Print(&sb, word)
	return strings.Trim(sb.String(), `"'`)
}

func fallback(command string) string {
	return programName(strings.Fields(command))
}
