package pathsub

import (
	"errors"
	"os"
	"testing"
)

func mapResolver(m map[string]string) Resolver {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

func TestExpand(t *testing.T) {
	oldHome := HomeDir
	HomeDir = func() string { return "/home/u" }
	defer func() { HomeDir = oldHome }()

	vars := mapResolver(map[string]string{
		"HOME":     "/u",
		"gimp_dir": "~/.propconf",
		"nested":   "${HOME}/n",
		"uni":      "日本",
	})
	sep := string(os.PathListSeparator)
	tests := []struct{ in, want string }{
		{"${HOME}/x", "/u/x"},
		{"plain/path", "plain/path"},
		{"~/brushes", "/home/u/brushes"},
		{"a~b", "a~b"},
		{"~/a" + sep + "~/b", "/home/u/a" + sep + "/home/u/b"},
		{"${gimp_dir}/plug-ins", "/home/u/.propconf/plug-ins"},
		{"${nested}", "/u/n"},
		{"$HOME/x", "$HOME/x"},
		{"${HOME", "${HOME"},
		{"é/${uni}/ü", "é/日本/ü"},
	}
	for _, tt := range tests {
		got, err := Expand(tt.in, vars)
		if err != nil {
			t.Fatalf("Expand(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpand_Unresolved(t *testing.T) {
	got, err := Expand("${HOME}/${NOPE}", mapResolver(map[string]string{"HOME": "/u"}))
	if got != "" {
		t.Fatalf("partial result returned: %q", got)
	}
	var ue *UnresolvedError
	if !errors.As(err, &ue) || ue.Token != "NOPE" {
		t.Fatalf("err = %v, want unresolved NOPE", err)
	}
}

func TestExpand_ResolverOrder(t *testing.T) {
	first := mapResolver(map[string]string{"x": "object"})
	second := mapResolver(map[string]string{"x": "builtin", "y": "builtin-y"})
	got, err := Expand("${x}:${y}", nil, first, second)
	if err != nil {
		t.Fatal(err)
	}
	if got != "object:builtin-y" {
		t.Fatalf("got %q", got)
	}
}

func TestExpand_Cycle(t *testing.T) {
	loop := mapResolver(map[string]string{"a": "${b}", "b": "${a}"})
	if _, err := Expand("${a}", loop); err == nil {
		t.Fatalf("expected error for self-referencing tokens")
	}
}

func TestBuiltinAndEnv(t *testing.T) {
	RegisterBuiltin("test_builtin_dir", func() string { return "/opt/b" })
	t.Setenv("PATHSUB_TEST_VAR", "/env")
	got, err := Expand("${test_builtin_dir}${PATHSUB_TEST_VAR}", Builtin, Env)
	if err != nil {
		t.Fatal(err)
	}
	if got != "/opt/b/env" {
		t.Fatalf("got %q", got)
	}
}

func TestSplitJoinList(t *testing.T) {
	sep := string(os.PathListSeparator)
	parts := SplitList("a" + sep + sep + "b")
	if len(parts) != 2 || parts[0] != "a" || parts[1] != "b" {
		t.Fatalf("SplitList = %v", parts)
	}
	if JoinList(parts) != "a"+sep+"b" {
		t.Fatalf("JoinList = %q", JoinList(parts))
	}
	if SplitList("") != nil {
		t.Fatalf("empty list must split to nil")
	}
}
