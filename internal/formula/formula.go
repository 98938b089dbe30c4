package formula

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"sort"

	"github.com/Chaebin-Park/GradleBuildProfiler/pkg/registry"
	"gopkg.in/yaml.v3"
)

type Kind string

const (
	KindSource Kind = "source"
	KindBinary Kind = "binary"
)

//go:embed formulas/*.yaml
var defaultFormulas embed.FS

var versionFromURLRe = regexp.MustCompile(`v?(\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+?)?)(?:\.tar\.gz|\.tgz|\.zip|/|$)`)

type Dependency struct {
	Name      string `yaml:"name"`
	BuildOnly bool   `yaml:"build_only"`
}

type Platform struct {
	OS     string `yaml:"os"`
	Arch   string `yaml:"arch"`
	URL    string `yaml:"url"`
	SHA256 string `yaml:"sha256"`
}

func (p Platform) Key() string {
	return registry.PlatformKey(p.OS, p.Arch)
}

type Install struct {
	// Command is run for source builds. "$prefix" expands to the keg prefix.
	Command []string `yaml:"command,omitempty"`
	// As is the executable name a binary download is installed under.
	As string `yaml:"as,omitempty"`
}

type SmokeTest struct {
	Binary string   `yaml:"binary"`
	Args   []string `yaml:"args,omitempty"`
	Expect string   `yaml:"expect,omitempty"`
}

type Formula struct {
	Kind      Kind         `yaml:"kind"`
	Name      string       `yaml:"name"`
	Class     string       `yaml:"class"`
	Desc      string       `yaml:"desc"`
	Homepage  string       `yaml:"homepage"`
	License   string       `yaml:"license,omitempty"`
	Version   string       `yaml:"version,omitempty"`
	URL       string       `yaml:"url,omitempty"`
	SHA256    string       `yaml:"sha256,omitempty"`
	DependsOn []Dependency `yaml:"depends_on,omitempty"`
	Platforms []Platform   `yaml:"platforms,omitempty"`
	Install   Install      `yaml:"install"`
	Test      SmokeTest    `yaml:"test"`

	// Source is the file the formula was loaded from.
	Source string `yaml:"-"`
}

// ResolvedVersion returns the declared version or, like Homebrew, the
// version embedded in the source URL.
func (f *Formula) ResolvedVersion() string {
	if f.Version != "" {
		return f.Version
	}
	if m := versionFromURLRe.FindStringSubmatch(f.URL); m != nil {
		return m[1]
	}
	return ""
}

// InstalledBinary is the executable name the formula puts into bin.
func (f *Formula) InstalledBinary() string {
	if f.Install.As != "" {
		return f.Install.As
	}
	return f.Test.Binary
}

func (f *Formula) HasDependency(name string) bool {
	for _, d := range f.DependsOn {
		if d.Name == name {
			return true
		}
	}
	return false
}

func Parse(r io.Reader) (*Formula, error) {
	var f Formula
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty formula")
		}
		return nil, fmt.Errorf("failed to parse formula: %w", err)
	}
	switch f.Kind {
	case KindSource, KindBinary:
	case "":
		if len(f.Platforms) > 0 {
			f.Kind = KindBinary
		} else {
			f.Kind = KindSource
		}
	default:
		return nil, fmt.Errorf("unknown formula kind %q", f.Kind)
	}
	if f.Name == "" {
		return nil, fmt.Errorf("formula has no name")
	}
	return &f, nil
}

func Load(file string) (*Formula, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read formula: %w", err)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	f.Source = file
	return f, nil
}

// Defaults returns the formulas shipped with the first release: a source
// build and a prebuilt binary download.
func Defaults() ([]*Formula, error) {
	entries, err := defaultFormulas.ReadDir("formulas")
	if err != nil {
		return nil, err
	}
	ret := make([]*Formula, 0, len(entries))
	for _, e := range entries {
		p := path.Join("formulas", e.Name())
		data, err := defaultFormulas.ReadFile(p)
		if err != nil {
			return nil, err
		}
		f, err := Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		f.Source = p
		ret = append(ret, f)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Source < ret[j].Source })
	return ret, nil
}

// ToRelease converts a binary formula into a release descriptor.
func ToRelease(f *Formula) (*registry.Release, error) {
	if f.Kind != KindBinary {
		return nil, fmt.Errorf("formula %s is a %s formula and has no release assets", f.Name, f.Kind)
	}
	rel := &registry.Release{
		Name:        f.Name,
		Description: f.Desc,
		Homepage:    f.Homepage,
		License:     f.License,
		Version:     f.ResolvedVersion(),
		Binary:      f.InstalledBinary(),
	}
	for _, p := range f.Platforms {
		rel.AddAsset(&registry.Asset{
			FileName: path.Base(p.URL),
			URL:      p.URL,
			OS:       p.OS,
			Arch:     p.Arch,
			Checksum: p.SHA256,
		})
	}
	return rel, nil
}

// Pin copies URLs and checksums of a published release into the formula's
// platform branches.
func Pin(f *Formula, rel *registry.Release) error {
	if f.Kind != KindBinary {
		return fmt.Errorf("formula %s is a %s formula and cannot be pinned to release assets", f.Name, f.Kind)
	}
	for i := range f.Platforms {
		a, err := rel.AssetFor(f.Platforms[i].OS, f.Platforms[i].Arch)
		if err != nil {
			return err
		}
		if registry.IsPlaceholderChecksum(a.Checksum) {
			return fmt.Errorf("release asset %s has no checksum", a.FileName)
		}
		f.Platforms[i].URL = a.URL
		f.Platforms[i].SHA256 = a.Checksum
	}
	f.Version = rel.Version
	return nil
}
