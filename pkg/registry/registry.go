package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// PlaceholderChecksum is the value formula templates ship with before a
// release has been cut.
const PlaceholderChecksum = "YOUR_SHA256_HERE"

var ErrUnsupportedPlatform = errors.New("unsupported platform")

var sha256Re = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

type Release struct {
	Name        string
	Description string
	Homepage    string
	License     string
	Version     string
	// Binary is the executable name the asset is installed as.
	Binary string
	Assets map[string]*Asset
}

type Asset struct {
	FileName string
	URL      string
	OS       string
	Arch     string
	Checksum string
}

func (a *Asset) Platform() string {
	return PlatformKey(a.OS, a.Arch)
}

func PlatformKey(os, arch string) string {
	return fmt.Sprintf("%s/%s", NormalizeOS(os), NormalizeArch(arch))
}

func NormalizeOS(os string) string {
	os = strings.ToLower(os)
	switch os {
	case "macos", "mac", "osx":
		return "darwin"
	}
	return os
}

func NormalizeArch(arch string) string {
	arch = strings.ToLower(arch)
	switch arch {
	case "x86_64", "x64":
		return "amd64"
	case "aarch64":
		return "arm64"
	}
	return arch
}

func (r *Release) AddAsset(a *Asset) {
	if r.Assets == nil {
		r.Assets = make(map[string]*Asset)
	}
	a.OS, a.Arch = NormalizeOS(a.OS), NormalizeArch(a.Arch)
	r.Assets[a.Platform()] = a
}

// AssetFor selects the single asset built for the given platform.
func (r *Release) AssetFor(os, arch string) (*Asset, error) {
	key := PlatformKey(os, arch)
	if a, ok := r.Assets[key]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %s has no asset for %s (available: %s)", ErrUnsupportedPlatform, r.Name, key, strings.Join(r.Platforms(), ", "))
}

func (r *Release) Platforms() []string {
	ret := make([]string, 0, len(r.Assets))
	for k := range r.Assets {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// IsPlaceholderChecksum reports whether s cannot be a real SHA-256 digest.
func IsPlaceholderChecksum(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == PlaceholderChecksum || !sha256Re.MatchString(s)
}

type InstallTarget struct {
	Dir    string
	Binary string
}

func (t InstallTarget) Path() string {
	return filepath.Join(t.Dir, t.Binary)
}
