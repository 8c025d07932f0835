package propconf

import (
	"github.com/reoring/propconf/internal/pathsub"
)

// UnresolvedError reports a ${name} reference that could not be resolved.
type UnresolvedError = pathsub.UnresolvedError

// Substitute expands a leading '~' and ${name} references in path. Names are
// resolved from c's unknown-token table (when c is non-nil), then from the
// builtins registered with RegisterBuiltin, then from the environment when
// useEnv is set. An unresolved name fails the whole call with
// *UnresolvedError.
func Substitute(c Config, path string, useEnv bool) (string, error) {
	resolvers := make([]pathsub.Resolver, 0, 3)
	if c != nil {
		resolvers = append(resolvers, c.UnknownTokens().Lookup)
	}
	resolvers = append(resolvers, pathsub.Builtin)
	if useEnv {
		resolvers = append(resolvers, pathsub.Env)
	}
	return pathsub.Expand(path, resolvers...)
}

// RegisterBuiltin binds a process-wide substitution name, such as an
// application directory alias.
func RegisterBuiltin(name string, fn func() string) { pathsub.RegisterBuiltin(name, fn) }

// SplitPathList splits a list-kind path value into its elements.
func SplitPathList(list string) []string { return pathsub.SplitList(list) }

// JoinPathList joins elements into a list-kind path value.
func JoinPathList(paths []string) string { return pathsub.JoinList(paths) }
