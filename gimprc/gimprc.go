// Package gimprc declares the application configuration types stored in the
// system and per-user gimprc files, and loads and saves them as layers.
package gimprc

import (
	"fmt"
	"path/filepath"

	"github.com/reoring/propconf"
)

const (
	// MaxImageSize bounds template dimensions.
	MaxImageSize = 524288
	// MinResolution and MaxResolution bound resolution properties.
	MinResolution = 0.005
	MaxResolution = 65536.0

	maxThreads = 64
)

// Template describes the default geometry of a new image.
var Template = propconf.MustType("GimpTemplate",
	propconf.IntProp("width", 1920, "Width of new images, in pixels.", propconf.WithRange(1, MaxImageSize)),
	propconf.IntProp("height", 1080, "Height of new images, in pixels.", propconf.WithRange(1, MaxImageSize)),
	propconf.CustomProp("unit", UnitTransform, UnitPixel, "Unit used to display the image size."),
	propconf.DoubleProp("xresolution", 300, "Horizontal resolution of new images.", propconf.WithRange(MinResolution, MaxResolution)),
	propconf.DoubleProp("yresolution", 300, "Vertical resolution of new images.", propconf.WithRange(MinResolution, MaxResolution)),
	propconf.CustomProp("resolution-unit", UnitTransform, UnitInch, "Unit used for the resolution."),
	propconf.EnumProp("image-type", ImageBaseType, 0, "Color mode of new images."),
	propconf.EnumProp("fill-type", FillType, 1, "How the initial layer of new images is filled."),
	propconf.StringProp("comment", "Created with GIMP", "Comment attached to new images."),
).WithBlurb("Default image template")

// Config is the gimprc type. Its property names are the record keys of the
// gimprc file.
var Config = propconf.MustType("gimprc",
	propconf.PathProp("temp-path", propconf.PathDir, "${gimp_dir}/tmp",
		"Sets the folder for temporary storage. Files will appear here during the course of running the program."),
	propconf.PathProp("swap-path", propconf.PathDir, "${gimp_dir}",
		"Sets the swap file location. Tiles are swapped to this folder when the tile cache is full."),
	propconf.PathProp("plug-in-path", propconf.PathDirList, pathList("plug-ins", "${gimp_plug_in_dir}"),
		"Sets the plug-in search path."),
	propconf.PathProp("module-path", propconf.PathDirList, pathList("modules", "${gimp_plug_in_dir}"),
		"Sets the module search path."),
	propconf.PathProp("interpreter-path", propconf.PathDirList, pathList("interpreters", "${gimp_sysconf_dir}"),
		"Sets the interpreter search path."),
	propconf.PathProp("environ-path", propconf.PathDirList, pathList("environ", "${gimp_sysconf_dir}"),
		"Sets the environment search path."),
	propconf.PathProp("brush-path", propconf.PathDirList, pathList("brushes", "${gimp_data_dir}"),
		"Sets the brush search path."),
	propconf.PathProp("brush-path-writable", propconf.PathDirList, "${gimp_dir}/brushes",
		"Sets the folders to save brushes into."),
	propconf.PathProp("pluginrc-path", propconf.PathFile, "${gimp_dir}/pluginrc",
		"Sets the pluginrc search path."),
	propconf.MemSizeProp("tile-cache-size", 256<<20,
		"When the amount of pixel data exceeds this limit, GIMP will start to swap tiles to disk."),
	propconf.UIntProp("num-processors", 1,
		"Sets how many threads GIMP should use for operations that support it.", propconf.WithRange(1, maxThreads)),
	propconf.EnumProp("interpolation-type", Interpolation, 2,
		"Sets the level of interpolation used for scaling and other transformations."),
	propconf.IntProp("default-threshold", 15,
		"Tools such as fuzzy-select and bucket fill find regions based on a seed-fill algorithm.", propconf.WithRange(0, 255)),
	propconf.IntProp("undo-levels", 5,
		"Sets the minimal number of operations that can be undone.", propconf.WithRange(0, 1<<20)),
	propconf.MemSizeProp("undo-size", 64<<20,
		"Sets an upper limit to the memory that is used per image to keep operations on the undo stack."),
	propconf.IntProp("plug-in-history-size", 10,
		"How many recently used filters should be kept on the Filters menu.", propconf.WithRange(0, 256)),
	propconf.BoolProp("layer-previews", true,
		"Sets whether GIMP should create previews of layers and channels."),
	propconf.EnumProp("thumbnail-size", ThumbnailSize, 128,
		"Sets the size of the thumbnail shown in the Open dialog."),
	propconf.MemSizeProp("thumbnail-filesize-limit", 1<<22,
		"The thumbnail in the Open dialog will be automatically updated if the file being previewed is smaller than the size set here."),
	propconf.ColorProp("quick-mask-color", propconf.Color{R: 1, A: 0.5},
		"Sets the default quick mask color."),
	propconf.BoolProp("import-promote-float", false,
		"Promote imported images to floating point precision."),
	propconf.BoolProp("show-tips", true,
		"Enable displaying a handy GIMP tip on startup."),
	propconf.BoolProp("show-tooltips", true,
		"Show a tooltip when the pointer hovers over an item."),
	propconf.BoolProp("save-session-info", true,
		"Save the positions and sizes of the main dialogs when GIMP exits."),
	propconf.BoolProp("restore-session", true,
		"Let GIMP try to restore your last saved session on each startup."),
	propconf.IntProp("last-opened-size", 10,
		"How many recently opened image filenames to keep on the File menu.", propconf.WithRange(0, 1024)),
	propconf.MemSizeProp("max-new-image-size", 128<<20,
		"GIMP will warn the user if an attempt is made to create an image that would take more memory than the size specified here."),
	propconf.StringProp("theme", "Dark",
		"The name of the theme to use."),
	propconf.EnumProp("icon-size", IconSize, 0,
		"The size of the icons to use."),
	propconf.EnumProp("help-browser", HelpBrowser, 0,
		"Sets the browser used by the help system."),
	propconf.IntProp("action-history-size", 100,
		"The maximum number of actions saved in history.", propconf.WithRange(0, 1000)),
	propconf.EnumProp("cursor-handedness", Handedness, 1,
		"Sets the handedness for cursors."),
	propconf.StringProp("image-title-format", "%D*%f-%p.%i (%t, %L) %wx%h",
		"Sets the text to appear in image window titles."),
	propconf.DoubleProp("monitor-xresolution", 96,
		"Sets the monitor's horizontal resolution, in dots per inch.", propconf.WithRange(MinResolution, MaxResolution)),
	propconf.DoubleProp("monitor-yresolution", 96,
		"Sets the monitor's vertical resolution, in dots per inch.", propconf.WithRange(MinResolution, MaxResolution)),
	propconf.ObjectProp("default-image", Template,
		"Sets the default image in the \"File/New\" dialog."),
).WithBlurb("GIMP configuration")

func pathList(sub, systemDir string) string {
	return propconf.JoinPathList([]string{
		filepath.Join("${gimp_dir}", sub),
		filepath.Join(systemDir, sub),
	})
}

func init() {
	for _, t := range []*propconf.TypeInfo{Template, Config} {
		if err := propconf.Register(t); err != nil {
			panic(fmt.Sprintf("gimprc: %v", err))
		}
	}
}

// New returns a gimprc object holding the built-in defaults.
func New() *propconf.Object { return propconf.New(Config) }

// Layered is a configuration loaded from a system file and a user file. The
// system layer is kept as the baseline so only the user's changes are saved.
// Active starts as a copy of System, unknown tokens included.
type Layered struct {
	Dirs   Dirs
	System *propconf.Object
	Active *propconf.Object
}

// Open loads both layers from the files named by d.
func Open(d Dirs, opts ...propconf.DeserializeOpt) (*Layered, error) {
	l := &Layered{Dirs: d, System: New()}
	err := Load(l.System, d.SystemFile(), "", opts...)
	if err != nil && !isSoft(err) {
		return nil, err
	}
	l.Active = propconf.Duplicate(l.System)
	if sameFile(d.UserFile(), d.SystemFile()) {
		return l, err
	}
	if uerr := Load(l.Active, "", d.UserFile(), opts...); uerr != nil {
		if !isSoft(uerr) {
			return nil, uerr
		}
		err = mergeIssues(err, uerr)
	}
	return l, err
}

// Save writes the user layer, keeping only the values that differ from the
// system layer.
func (l *Layered) Save(opts ...propconf.SerializeOpt) error {
	return Save(l.Active, l.System, l.Dirs.UserFile(), l.Dirs.SystemFile(), opts...)
}

// Load reads systemFile and then userFile into c, so values from the user
// file take precedence. A missing file is not an error, and userFile is
// skipped when it names the same file as systemFile. An empty name skips that
// layer. Recoverable problems from both files are returned together.
func Load(c propconf.Config, systemFile, userFile string, opts ...propconf.DeserializeOpt) error {
	var err error
	for i, f := range []string{systemFile, userFile} {
		if f == "" || (i == 1 && sameFile(userFile, systemFile)) {
			continue
		}
		ferr := propconf.Deserialize(c, f, opts...)
		if ferr == nil || propconf.IsNotFound(ferr) {
			continue
		}
		if !isSoft(ferr) {
			return ferr
		}
		err = mergeIssues(err, ferr)
	}
	return err
}

// Save writes the entries of c that differ from baseline to userFile.
// systemFile only appears in the header comment.
func Save(c, baseline propconf.Config, userFile, systemFile string, opts ...propconf.SerializeOpt) error {
	return propconf.SerializeChanged(c, baseline, userFile, header(systemFile), "end of gimprc", opts...)
}

func header(systemFile string) string {
	return "GIMP gimprc\n\n" +
		"This is your personal gimprc file.  Any variable defined in this file " +
		"takes precedence over the value defined in the system-wide gimprc: " +
		systemFile + "\n" +
		"Most values can be set within GIMP by changing some options in the " +
		"Preferences dialog."
}

func sameFile(a, b string) bool {
	return a != "" && b != "" && filepath.Clean(a) == filepath.Clean(b)
}

// isSoft reports whether err only carries per-record problems, as opposed to
// a file that could not be read at all.
func isSoft(err error) bool {
	iss, ok := propconf.AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		switch it.Code {
		case propconf.CodeOpenFailed, propconf.CodeTooBig:
			return false
		}
	}
	return true
}

func mergeIssues(dst, more error) error {
	a, _ := propconf.AsIssues(dst)
	b, _ := propconf.AsIssues(more)
	out := propconf.AppendIssues(a, b...)
	if len(out) == 0 {
		return nil
	}
	return out
}
