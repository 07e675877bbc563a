package model

// Package is a buildable unit reported by `colcon list`.
type Package struct {
	Name string `json:"name" yaml:"name"`
	// Path is always absolute.
	Path      Path   `json:"path" yaml:"path"`
	BuildType string `json:"buildType" yaml:"buildType"`
}

// Label, Description and Detail mirror the fields a picker shows.
func (p Package) Label() string { return p.Name }

// Description returns the build type.
func (p Package) Description() string { return p.BuildType }

// Detail returns the package path.
func (p Package) Detail() string { return string(p.Path) }
