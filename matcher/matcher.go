// Package matcher implements C1, the File Matcher: a compiled predicate
// over a hook's "files"/"exclude" patterns, used to filter a file list
// before it's handed to a hook's execution.
package matcher

import (
	"fmt"

	"github.com/dlclark/regexp2"
	"github.com/rustyhook/rustyhook/rherrors"
)

// Matcher compiles a hook's files/exclude regexes once and reuses them for
// every Filter call. regexp2 is used rather than the stdlib regexp package
// so the accepted dialect matches what hand-written pre-commit-style
// patterns expect (lookaround, backreferences), not stdlib RE2's subset.
type Matcher struct {
	include *regexp2.Regexp // nil means "match everything"
	exclude *regexp2.Regexp // nil means "match nothing"
}

// Compile builds a Matcher from a files pattern and an exclude pattern.
// An empty files pattern matches every path; an empty exclude pattern
// excludes nothing. Compilation failures are reported as InvalidPattern
// and never surface later, at match time.
func Compile(files, exclude string) (*Matcher, error) {
	m := &Matcher{}
	if files != "" {
		re, err := regexp2.Compile(files, regexp2.None)
		if err != nil {
			return nil, &rherrors.InvalidPattern{Pattern: files, Cause: err}
		}
		m.include = re
	}
	if exclude != "" {
		re, err := regexp2.Compile(exclude, regexp2.None)
		if err != nil {
			return nil, &rherrors.InvalidPattern{Pattern: exclude, Cause: err}
		}
		m.exclude = re
	}
	return m, nil
}

// Matches reports whether path satisfies the include pattern (or there is
// none) and does not satisfy the exclude pattern (or there is none). Paths
// are matched on their textual form; non-UTF8 bytes are matched on their
// lossy textual representation by the caller before reaching here.
func (m *Matcher) Matches(path string) bool {
	if m.include != nil {
		ok, err := m.include.MatchString(path)
		if err != nil || !ok {
			return false
		}
	}
	if m.exclude != nil {
		ok, err := m.exclude.MatchString(path)
		if err == nil && ok {
			return false
		}
	}
	return true
}

// Filter returns the subset of paths matching m, preserving input order.
func (m *Matcher) Filter(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if m.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// String is a diagnostic helper for logging which pattern a Matcher was
// built from.
func (m *Matcher) String() string {
	inc, exc := ".*", "<none>"
	if m.include != nil {
		inc = m.include.String()
	}
	if m.exclude != nil {
		exc = m.exclude.String()
	}
	return fmt.Sprintf("files=%q exclude=%q", inc, exc)
}
