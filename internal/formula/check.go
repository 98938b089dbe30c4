package formula

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Chaebin-Park/GradleBuildProfiler/pkg/registry"
	"github.com/Masterminds/semver/v3"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

const (
	CodeMissingURL          = "missing-url"
	CodePlaceholderChecksum = "placeholder-checksum"
	CodeMissingDependency   = "missing-dependency"
	CodeMissingInstall      = "missing-install"
	CodeUnsupportedPlatform = "unsupported-platform"
	CodeDuplicatePlatform   = "duplicate-platform"
	CodeSmokeTestMismatch   = "smoke-test-mismatch"
	CodeBinaryNameMismatch  = "binary-name-mismatch"
	CodeInvalidVersion      = "invalid-version"
)

// RequiredPlatforms are the platforms every binary formula must ship an asset for.
var RequiredPlatforms = []string{"darwin/amd64", "darwin/arm64", "linux/amd64"}

// buildDependencies maps an install program to the formula providing it.
var buildDependencies = map[string]string{
	"cargo": "rust",
	"go":    "go",
	"npm":   "node",
	"cmake": "cmake",
	"mvn":   "maven",
}

type Issue struct {
	Formula  string
	Severity Severity
	Code     string
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s [%s] %s", i.Formula, i.Severity, i.Code, i.Message)
}

func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

type checker struct {
	f      *Formula
	issues []Issue
}

func (c *checker) add(sev Severity, code, format string, args ...any) {
	c.issues = append(c.issues, Issue{
		Formula:  c.f.Name,
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (c *checker) checkArtifact(where, url, sha string) {
	if strings.TrimSpace(url) == "" {
		c.add(SeverityError, CodeMissingURL, "%s has no download URL", where)
	}
	if registry.IsPlaceholderChecksum(sha) {
		c.add(SeverityError, CodePlaceholderChecksum, "%s has placeholder checksum %q", where, sha)
	}
}

// Check reports metadata defects of a single formula. Problems are reported,
// never corrected.
func Check(f *Formula) []Issue {
	c := &checker{f: f}

	if v := f.ResolvedVersion(); v == "" {
		c.add(SeverityError, CodeInvalidVersion, "no version declared and none found in the source URL")
	} else if _, err := semver.StrictNewVersion(v); err != nil {
		c.add(SeverityError, CodeInvalidVersion, "version %q is not a semantic version: %v", v, err)
	}

	switch f.Kind {
	case KindSource:
		c.checkArtifact("source archive", f.URL, f.SHA256)
		c.checkSourceInstall()
	case KindBinary:
		c.checkPlatforms()
	}
	c.checkSmokeTest()
	return c.issues
}

func (c *checker) checkSourceInstall() {
	cmd := c.f.Install.Command
	if len(cmd) == 0 {
		c.add(SeverityError, CodeMissingInstall, "source formula has no install command")
		return
	}
	dep, ok := buildDependencies[cmd[0]]
	if ok && !c.f.HasDependency(dep) {
		c.add(SeverityError, CodeMissingDependency, "install runs %q but %q is not declared as a dependency", cmd[0], dep)
	}
}

func (c *checker) checkPlatforms() {
	if c.f.InstalledBinary() == "" {
		c.add(SeverityError, CodeMissingInstall, "binary formula does not name the installed executable")
	}
	seen := make(map[string]bool)
	for _, p := range c.f.Platforms {
		key := p.Key()
		if seen[key] {
			c.add(SeverityError, CodeDuplicatePlatform, "platform %s is declared more than once", key)
			continue
		}
		seen[key] = true
		c.checkArtifact("platform "+key, p.URL, p.SHA256)
	}
	for _, key := range RequiredPlatforms {
		if !seen[key] {
			c.add(SeverityError, CodeUnsupportedPlatform, "no asset declared for %s", key)
		}
	}
}

func (c *checker) checkSmokeTest() {
	expect := c.f.Test.Expect
	if expect == "" {
		return
	}
	for _, name := range []string{c.f.Test.Binary, c.f.Install.As} {
		if name != "" && !strings.Contains(name, expect) {
			c.add(SeverityWarning, CodeSmokeTestMismatch, "smoke test expects %q but the installed binary is %q", expect, name)
			return
		}
	}
}

// CheckAll checks each formula and reports formulas of the same package that
// install differently named executables.
func CheckAll(formulas []*Formula) []Issue {
	issues := make([]Issue, 0)
	binaries := make(map[string]map[string]bool)
	for _, f := range formulas {
		issues = append(issues, Check(f)...)
		if b := f.InstalledBinary(); b != "" {
			if binaries[f.Name] == nil {
				binaries[f.Name] = make(map[string]bool)
			}
			binaries[f.Name][b] = true
		}
	}

	names := make([]string, 0, len(binaries))
	for name := range binaries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if len(binaries[name]) < 2 {
			continue
		}
		found := make([]string, 0, len(binaries[name]))
		for b := range binaries[name] {
			found = append(found, b)
		}
		sort.Strings(found)
		issues = append(issues, Issue{
			Formula:  name,
			Severity: SeverityWarning,
			Code:     CodeBinaryNameMismatch,
			Message:  fmt.Sprintf("formulas install different executables: %s", strings.Join(found, ", ")),
		})
	}
	return issues
}
