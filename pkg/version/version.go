/*
version reports build information for the command line tool. GitTag and
GitBranch are set with -ldflags at build time, otherwise values are read
from the module build information.
*/
package version

import (
	"runtime"
	"runtime/debug"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Info describes the running binary
type Info struct {
	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version" yaml:"version"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
	Tag       string `json:"tag,omitempty" yaml:"tag,omitempty"`
	Branch    string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Revision  string `json:"revision,omitempty" yaml:"revision,omitempty"`
	BuildTime string `json:"build_time,omitempty" yaml:"build_time,omitempty"`
	Modified  bool   `json:"modified,omitempty" yaml:"modified,omitempty"`
	Compiler  string `json:"compiler" yaml:"compiler"`
	Platform  string `json:"platform" yaml:"platform"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	GitTag    string
	GitBranch string
)

const (
	shortRevision = 12
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns build information for the named executable
func New(name string) *Info {
	info := &Info{
		Name:     name,
		Tag:      GitTag,
		Branch:   GitBranch,
		Compiler: runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
	if build, ok := debug.ReadBuildInfo(); ok {
		info.Source = build.Main.Path
		for _, setting := range build.Settings {
			switch setting.Key {
			case "vcs.revision":
				info.Revision = setting.Value
			case "vcs.time":
				info.BuildTime = setting.Value
			case "vcs.modified":
				info.Modified = setting.Value == "true"
			}
		}
	}
	info.Version = info.version()
	return info
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (i Info) String() string {
	return types.Stringify(i)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// version is the tag, branch or short revision, in that order
func (i Info) version() string {
	switch {
	case i.Tag != "":
		return i.Tag
	case i.Branch != "":
		return i.Branch
	case len(i.Revision) >= shortRevision:
		return i.Revision[:shortRevision]
	case i.Revision != "":
		return i.Revision
	default:
		return "dev"
	}
}
