package database

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/sagarc03/settlersdb"
)

// ScriptError reports a setup script that could not be read or whose
// statement failed. Statements before the failing one stay applied.
type ScriptError struct {
	Path string
	// Statement is the 1-based index of the failing statement, or 0 for a
	// read failure.
	Statement int
	SQL       string
	Err       error
}

func (e *ScriptError) Error() string {
	name := e.Path
	if name == "" {
		name = "setup script"
	}
	if e.Statement == 0 {
		return fmt.Sprintf("%s: read: %v", name, e.Err)
	}
	return fmt.Sprintf("%s: statement %d: %v", name, e.Statement, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// ParseScript splits a SQL script into statements.
//
// Blank lines and lines starting with "--" are dropped, as are lines the
// dialect cannot run (USE on SQLite and PostgreSQL). A line that starts with
// whitespace continues the current statement after a newline, with its
// indentation reduced to a single space. An unindented line continues a
// statement not yet closed with ";" while that statement has unbalanced
// parentheses or when the line does not begin with a statement keyword. Any
// other line starts a new statement.
func ParseScript(r io.Reader, d Dialect) ([]string, error) {
	skip := d.info().skipScriptLine

	var (
		stmts []string
		cur   strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, cur.String())
		}
		cur.Reset()
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "--") {
			continue
		}

		indented := unicode.IsSpace(rune(line[0]))
		if !indented && skip(line) {
			continue
		}

		open := false
		if pending := strings.TrimSpace(cur.String()); pending != "" && !strings.HasSuffix(pending, ";") {
			open = strings.Count(pending, "(") > strings.Count(pending, ")") || !startsStatement(line)
		}
		switch {
		case indented && cur.Len() > 0:
			cur.WriteString("\n ")
			cur.WriteString(strings.TrimLeftFunc(line, unicode.IsSpace))
		case open:
			cur.WriteString("\n")
			cur.WriteString(line)
		default:
			flush()
			cur.WriteString(strings.TrimLeftFunc(line, unicode.IsSpace))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()

	return stmts, nil
}

var statementKeywords = []string{
	"ALTER", "BEGIN", "COMMIT", "CREATE", "DELETE", "DROP", "GRANT",
	"INSERT", "PRAGMA", "SELECT", "SET", "UPDATE", "USE",
}

// startsStatement reports whether line begins with a keyword that opens a
// SQL statement.
func startsStatement(line string) bool {
	word, _, _ := strings.Cut(strings.TrimSpace(line), " ")
	word = strings.TrimRight(word, ";(")
	for _, k := range statementKeywords {
		if strings.EqualFold(word, k) {
			return true
		}
	}
	return false
}

// RunScript executes the statements of a script in order, stopping at the
// first failure.
func (m *Manager) RunScript(ctx context.Context, r io.Reader) error {
	return m.runScript(ctx, "", r)
}

// RunScriptFile executes the script at path.
func (m *Manager) RunScriptFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &ScriptError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	return m.runScript(ctx, path, f)
}

func (m *Manager) runScript(ctx context.Context, path string, r io.Reader) error {
	if m.db == nil {
		return settlersdb.ErrNotConnected
	}

	stmts, err := ParseScript(r, m.resolved.Dialect)
	if err != nil {
		return &ScriptError{Path: path, Err: err}
	}

	for i, q := range stmts {
		if _, err := m.db.ExecContext(ctx, q); err != nil {
			return &ScriptError{Path: path, Statement: i + 1, SQL: q, Err: fmt.Errorf("%w: %w", settlersdb.ErrQuery, err)}
		}
	}

	slog.Info("setup script applied", "path", path, "statements", len(stmts))
	return nil
}
