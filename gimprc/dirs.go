package gimprc

import (
	"os"
	"path/filepath"

	"github.com/reoring/propconf"
)

// Dirs holds the directories the rc files and path defaults are resolved
// against.
type Dirs struct {
	User    string // GIMP_DIRECTORY (default <user config dir>/propconf)
	Sysconf string // GIMP_SYSCONFDIR (default "/etc/propconf")
	Data    string // GIMP_DATADIR (default "/usr/share/propconf")
	PlugIn  string // GIMP_PLUGINDIR (default "/usr/lib/propconf")
}

// LoadDirs reads Dirs from the environment. It is evaluated on every call so
// the ${gimp_dir} family of substitutions follows the current environment.
func LoadDirs() Dirs {
	return Dirs{
		User:    envOrDefault("GIMP_DIRECTORY", defaultUserDir()),
		Sysconf: envOrDefault("GIMP_SYSCONFDIR", "/etc/propconf"),
		Data:    envOrDefault("GIMP_DATADIR", "/usr/share/propconf"),
		PlugIn:  envOrDefault("GIMP_PLUGINDIR", "/usr/lib/propconf"),
	}
}

// SystemFile is the system-wide defaults file.
func (d Dirs) SystemFile() string { return filepath.Join(d.Sysconf, "gimprc") }

// UserFile is the per-user override file.
func (d Dirs) UserFile() string { return filepath.Join(d.User, "gimprc") }

func defaultUserDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		base = filepath.Join(os.TempDir(), ".config")
	}
	return filepath.Join(base, "propconf")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func init() {
	propconf.RegisterBuiltin("gimp_dir", func() string { return LoadDirs().User })
	propconf.RegisterBuiltin("gimp_sysconf_dir", func() string { return LoadDirs().Sysconf })
	propconf.RegisterBuiltin("gimp_data_dir", func() string { return LoadDirs().Data })
	propconf.RegisterBuiltin("gimp_plug_in_dir", func() string { return LoadDirs().PlugIn })
}
