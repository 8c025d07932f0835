package dump_test

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/reoring/propconf"
	"github.com/reoring/propconf/gimprc"
	"github.com/reoring/propconf/internal/dump"
)

var opt = dump.Options{Program: "propconf-dump", Version: "1.2.3"}

func TestRC_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := dump.RC(&buf, gimprc.New(), opt); err != nil {
		t.Fatal(err)
	}
	text := buf.String()
	if !strings.HasPrefix(text, "# This is a gimprc file generated by propconf-dump 1.2.3.\n\n") {
		t.Fatalf("header = %q", text)
	}
	if !strings.Contains(text, "(default-threshold 15)\n") {
		t.Fatalf("missing record:\n%s", text)
	}
	back := gimprc.New()
	if err := propconf.DeserializeString(back, text); err != nil {
		t.Fatal(err)
	}
	if !propconf.Equal(back, gimprc.New()) {
		t.Fatalf("dumped defaults do not load back to defaults")
	}
}

func TestSystemRC_EverythingCommented(t *testing.T) {
	var buf bytes.Buffer
	if err := dump.SystemRC(&buf, gimprc.New(), opt); err != nil {
		t.Fatal(err)
	}
	text := buf.String()
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line != "" && !strings.HasPrefix(line, "#") {
			t.Fatalf("uncommented line %q", line)
		}
	}
	for _, want := range []string{
		"# This is the system-wide gimprc file.",
		"# Sets the minimal number of operations that can be undone.\n# Possible values are integer in the range 0 to 1048576.\n# (undo-levels 5)\n",
		"# (default-image\n#     (width 1920)\n",
		"# Possible values are one of: none, linear, cubic, nohalo, lohalo.\n# (interpolation-type cubic)\n",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output lacks %q:\n%s", want, text)
		}
	}

	// Uncommenting the records yields a loadable file.
	var rc strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "# (") || strings.HasPrefix(line, "#     ") {
			rc.WriteString(strings.TrimPrefix(line, "# ") + "\n")
		}
	}
	c := gimprc.New()
	if err := propconf.DeserializeString(c, rc.String()); err != nil {
		t.Fatalf("uncommented records: %v\n%s", err, rc.String())
	}
	if !propconf.Equal(c, gimprc.New()) {
		t.Fatalf("uncommented records differ from defaults")
	}
}

func TestManPage(t *testing.T) {
	var buf bytes.Buffer
	if err := dump.ManPage(&buf, gimprc.New(), opt); err != nil {
		t.Fatal(err)
	}
	text := buf.String()
	for _, want := range []string{
		".TH GIMPRC 5 \"\" \"Version 1.2.3\"",
		".SH NAME\ngimprc \\- configuration file\n",
		".TP\n(undo\\-levels 5)\nSets the minimal number of operations that can be undone. Possible values are integer in the range 0 to 1048576.\n",
		".TP\n(default\\-image (width 1920) (height 1080)",
		".SH FILES\n",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("man page lacks %q:\n%s", want, text)
		}
	}
}

func TestJSON_Snapshot(t *testing.T) {
	c := gimprc.New()
	propconf.AddUnknownToken(c, "gimp_extra_dir", "/opt/extra")
	var buf bytes.Buffer
	if err := dump.Dump(&buf, c, dump.FormatJSON, opt); err != nil {
		t.Fatal(err)
	}
	var s struct {
		Type       string `json:"type"`
		Properties []struct {
			Name  string          `json:"name"`
			Kind  string          `json:"kind"`
			Value json.RawMessage `json:"value"`
			Text  string          `json:"text"`
			Min   *float64        `json:"min"`
		} `json:"properties"`
		Unknown []dump.UnknownToken `json:"unknown"`
	}
	if err := json.Unmarshal(buf.Bytes(), &s); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if s.Type != "gimprc" || len(s.Unknown) != 1 || s.Unknown[0].Value != "/opt/extra" {
		t.Fatalf("snapshot header = %+v", s)
	}
	seen := map[string]bool{}
	for _, p := range s.Properties {
		seen[p.Name] = true
		switch p.Name {
		case "tile-cache-size":
			if string(p.Value) != "268435456" || p.Text != "256M" {
				t.Fatalf("memsize = %s / %q", p.Value, p.Text)
			}
		case "interpolation-type":
			if string(p.Value) != `"cubic"` {
				t.Fatalf("enum = %s", p.Value)
			}
		case "default-threshold":
			if p.Min == nil || *p.Min != 0 {
				t.Fatalf("range missing")
			}
		case "quick-mask-color":
			if !strings.Contains(string(p.Value), `"a": 0.5`) && !strings.Contains(string(p.Value), `"a":0.5`) {
				t.Fatalf("color = %s", p.Value)
			}
		case "default-image":
			if !strings.Contains(string(p.Value), `"GimpTemplate"`) {
				t.Fatalf("nested = %s", p.Value)
			}
		}
	}
	if !seen["default-image"] || !seen["undo-levels"] {
		t.Fatalf("properties missing: %v", seen)
	}
}

func TestLegal(t *testing.T) {
	d, _ := gimprc.Config.Property("plug-in-history-size")
	if got := dump.Legal(d); got != "integer in the range 0 to 256" {
		t.Fatalf("Legal = %q", got)
	}
	d, _ = gimprc.Config.Property("plug-in-path")
	if got := dump.Legal(d); !strings.HasPrefix(got, "list of folders") {
		t.Fatalf("Legal = %q", got)
	}
}
