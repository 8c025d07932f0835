// Command propconf-dump prints the gimprc configuration, or a type declared in
// a YAML/TOML table, as an rc file, a commented system rc file, a troff man
// page, or a JSON snapshot.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/propconf"
	"github.com/reoring/propconf/gimprc"
	"github.com/reoring/propconf/internal/dump"
	"github.com/reoring/propconf/schema"
)

// version is set with -ldflags "-X main.version=..." at release time.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	systemRC bool
	manPage  bool
	json     bool
	schema   string
	load     string
	verbose  bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:           "propconf-dump",
		Short:         "Dump the configuration defaults in rc, reference, man page or JSON form",
		Args:          cobra.NoArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpConfig(cmd.OutOrStdout(), stderr, o)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	f := cmd.Flags()
	f.BoolVar(&o.systemRC, "system-gimprc", false, "write a commented system rc file documenting every property")
	f.BoolVar(&o.manPage, "man-page", false, "write a troff man page")
	f.BoolVar(&o.json, "json", false, "write a JSON snapshot")
	f.StringVar(&o.schema, "schema", "", "dump the root type of a YAML or TOML type table instead of gimprc")
	f.StringVar(&o.load, "load", "", "load this rc file over the defaults before dumping")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log debug messages to stderr")
	cmd.MarkFlagsMutuallyExclusive("system-gimprc", "man-page", "json")
	return cmd
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "propconf-dump: %v\n", err)
		return 1
	}
	return 0
}

func dumpConfig(out, stderr io.Writer, o options) error {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	propconf.SetLogger(logger)

	var c *propconf.Object
	if o.schema != "" {
		r, err := schema.LoadFile(o.schema, gimprc.UnitTransform)
		if err != nil {
			return err
		}
		root := r.Root()
		if root == nil {
			return fmt.Errorf("%s declares no types", o.schema)
		}
		logger.Debug("loaded type table", "file", o.schema, "types", len(r.Types), "root", root.Name())
		c = propconf.New(root)
	} else {
		c = gimprc.New()
	}
	if o.load != "" {
		if err := propconf.Deserialize(c, o.load); err != nil {
			return err
		}
	}

	format := dump.FormatRC
	switch {
	case o.systemRC:
		format = dump.FormatSystemRC
	case o.manPage:
		format = dump.FormatManPage
	case o.json:
		format = dump.FormatJSON
	}
	logger.Debug("dumping", "type", c.Type().Name(), "format", format.String())
	return dump.Dump(out, c, format, dump.Options{Program: "propconf-dump", Version: version})
}
