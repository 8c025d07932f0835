package propconf_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reoring/propconf"
	"github.com/reoring/propconf/scanner"
)

func TestDeserialize_BoolTokens(t *testing.T) {
	for _, tok := range []string{"yes", "Yes", "TRUE", "true"} {
		o := propconf.New(testType)
		mustSet(t, o, "show-tips", propconf.BoolValue(false))
		if err := propconf.DeserializeString(o, "(show-tips "+tok+")"); err != nil {
			t.Fatalf("%s: %v", tok, err)
		}
		if !mustGet(t, o, "show-tips").AsBool() {
			t.Fatalf("%s did not decode to true", tok)
		}
	}

	o := propconf.New(testType)
	err := propconf.DeserializeString(o, "(show-tips maybe)")
	iss, ok := propconf.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("err = %v", err)
	}
	if iss[0].Code != propconf.CodeDecodeError || iss[0].Property != "show-tips" || iss[0].Line != 1 || iss[0].Column != 12 {
		t.Fatalf("issue = %+v", iss[0])
	}
}

func TestDeserialize_EnumByNickNameAndNumber(t *testing.T) {
	o := propconf.New(testType)
	cases := map[string]int{"none": 0, "INTERPOLATION_LINEAR": 1, "2": 2}
	for in, want := range cases {
		if err := propconf.DeserializeString(o, "(interpolation-type "+in+")"); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got := mustGet(t, o, "interpolation-type").AsEnum(); got != want {
			t.Fatalf("%s decoded to %d, want %d", in, got, want)
		}
	}
	if err := propconf.DeserializeString(o, "(interpolation-type bicubic)"); !propconf.HasCode(err, propconf.CodeDecodeError) {
		t.Fatalf("err = %v", err)
	}
}

func TestDeserialize_MemSizeSuffixes(t *testing.T) {
	o := propconf.New(testType)
	for in, want := range map[string]uint64{"512M": 512 << 20, "64k": 64 << 10, "4096": 4096, "1g": 1 << 30} {
		if err := propconf.DeserializeString(o, "(tile-cache-size "+in+")(undo-levels 7)"); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got := mustGet(t, o, "tile-cache-size").AsUint(); got != want {
			t.Fatalf("%s = %d, want %d", in, got, want)
		}
	}
	if err := propconf.DeserializeString(o, "(tile-cache-size 12X)"); err == nil {
		t.Fatalf("expected error for bad suffix")
	}
}

func TestDeserialize_RecoversAfterBadRecord(t *testing.T) {
	text := "(undo-levels \"five\")\n(title (nested \"list\") here)\n(show-tips no)"
	o := propconf.New(testType)
	err := propconf.DeserializeString(o, text)
	iss, ok := propconf.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("err = %v", err)
	}
	if iss[0].Code != propconf.CodeParseError || iss[0].Line != 1 || iss[0].Property != "undo-levels" {
		t.Fatalf("first issue = %+v", iss[0])
	}
	if iss[1].Line != 2 || iss[1].Property != "title" {
		t.Fatalf("second issue = %+v", iss[1])
	}
	if mustGet(t, o, "show-tips").AsBool() {
		t.Fatalf("record after the bad ones not applied")
	}
	if mustGet(t, o, "undo-levels").AsInt() != 5 {
		t.Fatalf("bad record modified the property")
	}
}

func TestDeserialize_TrailingTokensDiscardValue(t *testing.T) {
	o := propconf.New(testType)
	err := propconf.DeserializeString(o, "(tile-cache-size 12X)(undo-levels 7 8)(show-tips no)")
	iss, ok := propconf.AsIssues(err)
	if !ok || len(iss) != 2 || iss[0].Property != "tile-cache-size" || iss[1].Property != "undo-levels" {
		t.Fatalf("err = %v", err)
	}
	if got := mustGet(t, o, "tile-cache-size").AsUint(); got != 256<<20 {
		t.Fatalf("tile-cache-size = %d, want the default", got)
	}
	if got := mustGet(t, o, "undo-levels").AsInt(); got != 5 {
		t.Fatalf("undo-levels = %d, want the default", got)
	}
	if mustGet(t, o, "show-tips").AsBool() {
		t.Fatalf("record after the bad ones not applied")
	}
}

func TestDeserialize_ObjectValueMismatch(t *testing.T) {
	o := propconf.New(testType)
	err := propconf.DeserializeString(o, `(default-image 5)(title "after")(default-image "x" (width 3))`)
	iss, ok := propconf.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("err = %v", err)
	}
	for _, it := range iss {
		if it.Code != propconf.CodeParseError || it.Property != "default-image" {
			t.Fatalf("issue = %+v", it)
		}
	}
	if got := mustGet(t, o, "title").AsString(); got != "after" {
		t.Fatalf("title = %q", got)
	}
	if got := mustGet(t, image(t, o), "width").AsInt(); got != 640 {
		t.Fatalf("width = %d, want the default", got)
	}
}

func TestDeserialize_FailFast(t *testing.T) {
	o := propconf.New(testType)
	err := propconf.DeserializeString(o, "(undo-levels 8)(undo-levels x)(show-tips no)", propconf.DeserializeOpt{FailFast: true})
	if !propconf.HasCode(err, propconf.CodeParseError) {
		t.Fatalf("err = %v", err)
	}
	if mustGet(t, o, "undo-levels").AsInt() != 8 {
		t.Fatalf("property before the error was not kept")
	}
	if !mustGet(t, o, "show-tips").AsBool() {
		t.Fatalf("record after the error applied despite FailFast")
	}
}

func TestDeserialize_RangeRejected(t *testing.T) {
	o := propconf.New(testType)
	err := propconf.DeserializeString(o, "(undo-levels -1)(default-image (width 0) (height 90))")
	iss, ok := propconf.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("err = %v", err)
	}
	if iss[1].Property != "default-image.width" || iss[1].Code != propconf.CodeDecodeError {
		t.Fatalf("nested issue = %+v", iss[1])
	}
	if mustGet(t, o, "undo-levels").AsInt() != 5 {
		t.Fatalf("out of range value stored")
	}
	if mustGet(t, image(t, o), "height").AsInt() != 90 {
		t.Fatalf("nested record after the bad one not applied")
	}
}

func TestDeserialize_Structure(t *testing.T) {
	tests := []string{
		"undo-levels 5",
		"(undo-levels 5",
		"(5 undo-levels)",
		")",
		"(default-image (width 3)",
	}
	for _, in := range tests {
		err := propconf.DeserializeString(propconf.New(testType), in)
		if !propconf.HasCode(err, propconf.CodeParseError) {
			t.Fatalf("%q: err = %v", in, err)
		}
	}
}

func TestDeserialize_NumbersAndStrings(t *testing.T) {
	o := propconf.New(testType)
	text := `(num-processors 16) (resolution 150) (gamma 1.8) (title 'single quoted') (mask-color (color-rgb 0 1 0))`
	if err := propconf.DeserializeString(o, text); err != nil {
		t.Fatal(err)
	}
	if mustGet(t, o, "num-processors").AsUint() != 16 || mustGet(t, o, "resolution").AsFloat() != 150 ||
		mustGet(t, o, "gamma").AsFloat() != 1.8 || mustGet(t, o, "title").AsString() != "single quoted" {
		t.Fatalf("values not decoded")
	}
	if c := mustGet(t, o, "mask-color").AsColor(); c != (propconf.Color{G: 1, A: 1}) {
		t.Fatalf("color = %+v", c)
	}
	if err := propconf.DeserializeString(o, "(num-processors -2)"); !propconf.HasCode(err, propconf.CodeDecodeError) {
		t.Fatalf("negative uint: %v", err)
	}
}

func TestDeserialize_PathMustExpand(t *testing.T) {
	o := propconf.New(testType)
	err := propconf.DeserializeString(o, `(temp-path "${propconf_no_such_token}/tmp")`)
	if !propconf.HasCode(err, propconf.CodeDecodeError) {
		t.Fatalf("err = %v", err)
	}
	propconf.AddUnknownToken(o, "scratch", "/scratch")
	if err := propconf.DeserializeString(o, `(temp-path "${scratch}/tmp")`); err != nil {
		t.Fatal(err)
	}
	// the stored value keeps the reference
	if got := mustGet(t, o, "temp-path").AsString(); got != "${scratch}/tmp" {
		t.Fatalf("temp-path = %q", got)
	}
}

func TestDeserialize_UnknownRawValue(t *testing.T) {
	o := propconf.New(testType)
	if err := propconf.DeserializeString(o, `(plug-in-extra (a 1) b "c") (empty)`); err != nil {
		t.Fatal(err)
	}
	if v, _ := propconf.LookupUnknownToken(o, "plug-in-extra"); v != `(a 1) b "c"` {
		t.Fatalf("raw value = %q", v)
	}
	if v, ok := propconf.LookupUnknownToken(o, "empty"); !ok || v != "" {
		t.Fatalf("empty value = %q, %v", v, ok)
	}
}

func TestDeserialize_UnknownRawValueIsQuotedOnSave(t *testing.T) {
	o := propconf.New(testType)
	if err := propconf.DeserializeString(o, `(mystery 5)(m (a 1) "x")`); err != nil {
		t.Fatal(err)
	}
	text, err := propconf.SerializeToString(o, "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "(mystery \"5\")\n") || !strings.Contains(text, `(m "(a 1) \"x\"")`) {
		t.Fatalf("serialized:\n%s", text)
	}

	// from the second cycle on the text is stable
	back := propconf.New(testType)
	if err := propconf.DeserializeString(back, text); err != nil {
		t.Fatal(err)
	}
	again, err := propconf.SerializeToString(back, "")
	if err != nil || again != text {
		t.Fatalf("second cycle differs: %v\n%s\n---\n%s", err, text, again)
	}
}

func TestDeserialize_UnknownPolicies(t *testing.T) {
	o := propconf.New(testType)
	err := propconf.DeserializeString(o, `(mystery "x")`, propconf.DeserializeOpt{Unknown: propconf.UnknownStrip})
	if err != nil || o.UnknownTokens().Len() != 0 {
		t.Fatalf("strip: err=%v len=%d", err, o.UnknownTokens().Len())
	}
	err = propconf.DeserializeString(o, `(mystery "x")(show-tips no)`, propconf.DeserializeOpt{Unknown: propconf.UnknownStrict})
	if !propconf.HasCode(err, propconf.CodeUnknownKey) {
		t.Fatalf("strict: %v", err)
	}
	if mustGet(t, o, "show-tips").AsBool() {
		t.Fatalf("strict policy must still apply later records")
	}
}

func TestDeserialize_ScopedSymbols(t *testing.T) {
	alpha := propconf.MustType("alpha", propconf.IntProp("alpha-only", 0, ""))
	beta := propconf.MustType("beta", propconf.IntProp("beta-only", 0, ""))

	sc := scanner.NewString("(alpha-only 1)(beta-only 2)", "")
	a := propconf.New(alpha)
	if err := propconf.DeserializeProperties(a, sc); err != nil {
		t.Fatal(err)
	}
	if mustGet(t, a, "alpha-only").AsInt() != 1 {
		t.Fatalf("alpha-only not set")
	}
	if _, ok := propconf.LookupUnknownToken(a, "beta-only"); !ok {
		t.Fatalf("beta-only must be unknown to alpha")
	}
	if sc.Scope() != 0 {
		t.Fatalf("scanner scope not restored")
	}
	if _, ok := sc.LookupSymbol("alpha-only"); ok {
		t.Fatalf("alpha symbols leaked after the call")
	}

	b := propconf.New(beta)
	if err := propconf.DeserializeString(b, "(alpha-only 5)(beta-only 6)"); err != nil {
		t.Fatal(err)
	}
	if v, ok := propconf.LookupUnknownToken(b, "alpha-only"); !ok || v != "5" {
		t.Fatalf("alpha-only accepted by beta: %q %v", v, ok)
	}

	// nested objects resolve only their own names
	o := propconf.New(testType)
	if err := propconf.DeserializeString(o, "(default-image (undo-levels 3) (width 800))"); err != nil {
		t.Fatal(err)
	}
	if mustGet(t, o, "undo-levels").AsInt() != 5 {
		t.Fatalf("outer property set from nested record")
	}
	img := image(t, o)
	if mustGet(t, img, "width").AsInt() != 800 {
		t.Fatalf("nested width not set")
	}
	if v, ok := propconf.LookupUnknownToken(img, "undo-levels"); !ok || v != "3" {
		t.Fatalf("nested unknown = %q %v", v, ok)
	}
}

func TestDeserialize_Files(t *testing.T) {
	dir := t.TempDir()
	err := propconf.Deserialize(propconf.New(testType), filepath.Join(dir, "missing"))
	if !propconf.IsNotFound(err) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing file: %v", err)
	}

	path := filepath.Join(dir, "apprc")
	if err := os.WriteFile(path, []byte("# comment\n(undo-levels 42)\n(undo-levels"), 0o644); err != nil {
		t.Fatal(err)
	}
	o := propconf.New(testType)
	err = propconf.Deserialize(o, path)
	iss, ok := propconf.AsIssues(err)
	if !ok || iss[len(iss)-1].File != path || iss[len(iss)-1].Line != 3 {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), path+":3:") {
		t.Fatalf("message lacks position: %v", err)
	}
	if mustGet(t, o, "undo-levels").AsInt() != 42 {
		t.Fatalf("records before the error must stay applied")
	}
}

func TestDeserializeReader_MaxBytes(t *testing.T) {
	o := propconf.New(testType)
	err := propconf.DeserializeReader(o, strings.NewReader("(undo-levels 1)"), "stdin", propconf.DeserializeOpt{MaxBytes: 4})
	if !propconf.HasCode(err, propconf.CodeTooBig) {
		t.Fatalf("err = %v", err)
	}
	if err := propconf.DeserializeReader(o, strings.NewReader("(undo-levels 1)"), "stdin", propconf.DeserializeOpt{MaxBytes: 64}); err != nil {
		t.Fatal(err)
	}
}

func TestSubstitute(t *testing.T) {
	o := propconf.New(testType)
	propconf.AddUnknownToken(o, "mydir", "/data")
	t.Setenv("PROPCONF_TEST_HOME", "/u")
	got, err := propconf.Substitute(o, "${PROPCONF_TEST_HOME}/x:${mydir}", true)
	if err != nil || got != "/u/x:/data" {
		t.Fatalf("Substitute = %q, %v", got, err)
	}
	_, err = propconf.Substitute(o, "${PROPCONF_TEST_HOME}/x", false)
	var ue *propconf.UnresolvedError
	if !errors.As(err, &ue) || ue.Token != "PROPCONF_TEST_HOME" {
		t.Fatalf("without env: %v", err)
	}
	propconf.RegisterBuiltin("propconf_test_builtin", func() string { return "/b" })
	if got, err := propconf.Substitute(nil, "${propconf_test_builtin}", false); err != nil || got != "/b" {
		t.Fatalf("builtin = %q, %v", got, err)
	}
}
