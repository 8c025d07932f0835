// Package pathsub expands ${name} references and '~' in path strings.
package pathsub

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode/utf8"
)

// maxDepth bounds recursive expansion of resolved values.
const maxDepth = 16

// Resolver maps a token name to its value.
type Resolver func(name string) (string, bool)

// UnresolvedError reports a ${name} reference that no resolver knew.
type UnresolvedError struct {
	Token string
	Path  string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("path %q references undefined token ${%s}", e.Path, e.Token)
}

var (
	builtinMu sync.RWMutex
	builtins  = map[string]func() string{}
)

// RegisterBuiltin binds name to a value computed at expansion time. A later
// registration replaces an earlier one.
func RegisterBuiltin(name string, fn func() string) {
	builtinMu.Lock()
	builtins[name] = fn
	builtinMu.Unlock()
}

// Builtin resolves name against the registered builtins.
func Builtin(name string) (string, bool) {
	builtinMu.RLock()
	fn, ok := builtins[name]
	builtinMu.RUnlock()
	if !ok {
		return "", false
	}
	return fn(), true
}

// Env resolves name from the process environment.
func Env(name string) (string, bool) { return os.LookupEnv(name) }

// HomeDir is the value substituted for '~'. It is a variable for tests.
var HomeDir = func() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return h
}

// Expand substitutes path. A '~' at the start of the path, or at the start
// of a path-list element, becomes the home directory. ${name} is looked up in
// the resolvers in order; resolved values are expanded in turn. A '$' that
// does not open a complete ${...} reference is copied literally. If any
// reference stays unresolved the whole call fails with *UnresolvedError.
func Expand(path string, resolvers ...Resolver) (string, error) {
	return expand(path, resolvers, 0)
}

func expand(path string, resolvers []Resolver, depth int) (string, error) {
	if depth > maxDepth {
		return "", fmt.Errorf("path %q: substitution nested too deeply", path)
	}
	if !strings.ContainsAny(path, "~$") {
		return path, nil
	}

	var (
		segs  []string
		total int
		start int
		home  string
	)
	i := 0
	for i < len(path) {
		c := path[i]
		switch {
		case c == '~' && (i == 0 || path[i-1] == os.PathListSeparator):
			if home == "" {
				home = HomeDir()
			}
			segs = append(segs, path[start:i], home)
			total += i - start + len(home)
			i++
			start = i
			continue
		case c == '$' && i+1 < len(path) && path[i+1] == '{':
			end := strings.IndexByte(path[i+2:], '}')
			if end < 0 {
				break
			}
			name := path[i+2 : i+2+end]
			val, ok := lookup(name, resolvers)
			if !ok {
				return "", &UnresolvedError{Token: name, Path: path}
			}
			val, err := expand(val, resolvers, depth+1)
			if err != nil {
				return "", err
			}
			segs = append(segs, path[start:i], val)
			total += i - start + len(val)
			i += end + 3
			start = i
			continue
		}
		_, size := utf8.DecodeRuneInString(path[i:])
		i += size
	}
	segs = append(segs, path[start:])
	total += len(path) - start

	var b strings.Builder
	b.Grow(total)
	for _, s := range segs {
		b.WriteString(s)
	}
	return b.String(), nil
}

func lookup(name string, resolvers []Resolver) (string, bool) {
	for _, r := range resolvers {
		if r == nil {
			continue
		}
		if v, ok := r(name); ok {
			return v, true
		}
	}
	return "", false
}

// SplitList splits a path list on the platform separator, dropping empty
// elements.
func SplitList(list string) []string {
	if list == "" {
		return nil
	}
	parts := strings.Split(list, string(os.PathListSeparator))
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList joins paths with the platform separator.
func JoinList(paths []string) string {
	return strings.Join(paths, string(os.PathListSeparator))
}
