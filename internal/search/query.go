// Package search finds entries under a library root. A query is a list of
// space separated terms that must all match; a bare term is a
// case-insensitive wildcard over the path below the root.
package search

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type DirectiveType int

const (
	DirPath DirectiveType = iota
	DirName
	DirExt
	DirSize
	DirModified
	DirKind
)

// Comparison operators for size/date
type Operator int

const (
	OpNone Operator = iota
	OpGreater
	OpLess
	OpGreaterEq
	OpLessEq
	OpEquals
)

// Directive is one term of a query
type Directive struct {
	Type     DirectiveType
	Value    string
	Operator Operator
	NumValue int64     // size in bytes
	TimeVal  time.Time // date
}

// Query holds parsed search directives
type Query struct {
	Directives []Directive
	Raw        string
}

// Parse parses a search string into directives
// Examples:
//   - "beatles" -> any path containing beatles
//   - "abbey*road" -> wildcard over the path
//   - "name:come" -> file or directory name only
//   - "ext:flac" -> files with .flac extension
//   - "size:>10MB" -> files larger than 10 MB
//   - "modified:>2024-01-01" -> modified after Jan 1, 2024
//   - "is:dir" / "is:file"
func Parse(input string) *Query {
	q := &Query{Raw: input}
	input = strings.TrimSpace(input)
	if input == "" {
		return q
	}
	for _, part := range splitRespectingQuotes(input) {
		q.Directives = append(q.Directives, parseDirective(part))
	}
	return q
}

func splitRespectingQuotes(s string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)

	for _, r := range s {
		switch {
		case (r == '"' || r == '\'') && !inQuotes:
			inQuotes = true
			quoteChar = r
		case r == quoteChar && inQuotes:
			inQuotes = false
			quoteChar = 0
		case r == ' ' && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

func parseDirective(s string) Directive {
	if idx := strings.Index(s, ":"); idx > 0 {
		value := strings.Trim(s[idx+1:], "\"'")

		switch strings.ToLower(s[:idx]) {
		case "name", "filename", "file":
			return Directive{Type: DirName, Value: strings.ToLower(value)}

		case "ext", "extension", "type":
			if !strings.HasPrefix(value, ".") {
				value = "." + value
			}
			return Directive{Type: DirExt, Value: strings.ToLower(value)}

		case "size":
			op, num := parseOperator(value)
			return Directive{Type: DirSize, Value: value, Operator: op, NumValue: parseSize(num)}

		case "modified", "date", "mtime":
			op, date := parseOperator(value)
			return Directive{Type: DirModified, Value: value, Operator: op, TimeVal: parseDate(date)}

		case "is":
			return Directive{Type: DirKind, Value: strings.ToLower(value)}
		}
	}
	return Directive{Type: DirPath, Value: strings.ToLower(s)}
}

func parseOperator(s string) (Operator, string) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, ">="):
		return OpGreaterEq, strings.TrimSpace(s[2:])
	case strings.HasPrefix(s, "<="):
		return OpLessEq, strings.TrimSpace(s[2:])
	case strings.HasPrefix(s, ">"):
		return OpGreater, strings.TrimSpace(s[1:])
	case strings.HasPrefix(s, "<"):
		return OpLess, strings.TrimSpace(s[1:])
	case strings.HasPrefix(s, "="):
		return OpEquals, strings.TrimSpace(s[1:])
	default:
		return OpEquals, s
	}
}

// parseSize reads sizes like "700KB", "10MB" or "1.5 GiB"; bad input is 0
func parseSize(s string) int64 {
	n, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return int64(n)
}

// parseDate parses date strings like "2024-01-01", "2024-01", "today", "yesterday"
func parseDate(s string) time.Time {
	s = strings.ToLower(strings.TrimSpace(s))
	now := time.Now()

	switch s {
	case "today":
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case "yesterday":
		y, m, d := now.AddDate(0, 0, -1).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case "week":
		return now.AddDate(0, 0, -7)
	case "month":
		return now.AddDate(0, -1, 0)
	case "year":
		return now.AddDate(-1, 0, 0)
	}

	for _, layout := range []string{"2006-01-02", "2006-01", "2006/01/02", "01/02/2006", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Matcher evaluates entries against a query
type Matcher struct {
	query *Query
}

func NewMatcher(q *Query) *Matcher {
	return &Matcher{query: q}
}

// Match reports whether the entry at rel (its path below the search root)
// satisfies every directive
func (m *Matcher) Match(rel string, info os.FileInfo) bool {
	for _, d := range m.query.Directives {
		if !matchDirective(d, rel, info) {
			return false
		}
	}
	return true
}

// NeedsInfo reports whether matching looks at more than names
func (q *Query) NeedsInfo() bool {
	for _, d := range q.Directives {
		if d.Type == DirSize || d.Type == DirModified {
			return true
		}
	}
	return false
}

func matchDirective(d Directive, rel string, info os.FileInfo) bool {
	switch d.Type {
	case DirPath:
		return matchGlob(strings.ToLower(filepath.ToSlash(rel)), d.Value)

	case DirName:
		return matchGlob(strings.ToLower(info.Name()), d.Value)

	case DirExt:
		return !info.IsDir() && strings.ToLower(filepath.Ext(info.Name())) == d.Value

	case DirSize:
		return !info.IsDir() && compareInt(info.Size(), d.NumValue, d.Operator)

	case DirModified:
		if d.TimeVal.IsZero() {
			return true
		}
		return compareTime(info.ModTime(), d.TimeVal, d.Operator)

	case DirKind:
		switch d.Value {
		case "dir", "directory", "folder":
			return info.IsDir()
		case "file":
			return !info.IsDir()
		}
	}
	return true
}

// matchGlob matches name against a pattern with * wildcards. A pattern
// without wildcards matches anywhere, as if written *pattern*.
func matchGlob(name, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return strings.Contains(name, pattern)
	}

	parts := strings.Split(pattern, "*")
	if parts[0] != "" && !strings.HasPrefix(name, parts[0]) {
		return false
	}
	last := parts[len(parts)-1]
	if last != "" && !strings.HasSuffix(name, last) {
		return false
	}

	// Middle parts in order, between the prefix and the suffix
	pos, end := len(parts[0]), len(name)-len(last)
	if pos > end {
		return false
	}
	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		idx := strings.Index(name[pos:end], part)
		if idx < 0 {
			return false
		}
		pos += idx + len(part)
	}
	return true
}

func compareInt(val, target int64, op Operator) bool {
	switch op {
	case OpGreater:
		return val > target
	case OpLess:
		return val < target
	case OpGreaterEq:
		return val >= target
	case OpLessEq:
		return val <= target
	default:
		return val == target
	}
}

func compareTime(val, target time.Time, op Operator) bool {
	switch op {
	case OpGreater:
		return val.After(target)
	case OpLess:
		return val.Before(target)
	case OpGreaterEq:
		return !val.Before(target)
	case OpLessEq:
		return !val.After(target)
	default:
		// Same calendar day
		vy, vm, vd := val.Date()
		ty, tm, td := target.Date()
		return vy == ty && vm == tm && vd == td
	}
}

// IsEmpty returns true if query has no directives
func (q *Query) IsEmpty() bool {
	return len(q.Directives) == 0
}
