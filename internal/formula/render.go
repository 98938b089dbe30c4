package formula

import (
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"

	"github.com/Chaebin-Park/GradleBuildProfiler/pkg/registry"
)

//go:embed formula.rb.tmpl
var formulaTemplate string

var rubyTemplate = template.Must(template.New("formula").Funcs(template.FuncMap{
	"quote":    rubyQuote,
	"rubyArgs": rubyArgs,
	"osGroups": osGroups,
	"cpu":      cpu,
}).Parse(formulaTemplate))

func rubyQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `#{`, `\#{`)
	return `"` + r.Replace(s) + `"`
}

// rubyArgs turns an install command into system() arguments. "$prefix" and
// "$bin" refer to the formula's keg paths rather than literal strings.
func rubyArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		switch a {
		case "$prefix":
			quoted[i] = "prefix"
		case "$bin":
			quoted[i] = "bin"
		default:
			quoted[i] = rubyQuote(a)
		}
	}
	return strings.Join(quoted, ", ")
}

type osGroup struct {
	Name      string
	Platforms []Platform
}

func osGroups(platforms []Platform) []osGroup {
	byOS := make(map[string][]Platform)
	for _, p := range platforms {
		name := registry.NormalizeOS(p.OS)
		if name == "darwin" {
			name = "macos"
		}
		byOS[name] = append(byOS[name], p)
	}
	ret := make([]osGroup, 0, len(byOS))
	for name, ps := range byOS {
		sort.SliceStable(ps, func(i, j int) bool { return cpu(ps[i].Arch) > cpu(ps[j].Arch) })
		ret = append(ret, osGroup{Name: name, Platforms: ps})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name > ret[j].Name })
	return ret
}

func cpu(arch string) string {
	switch registry.NormalizeArch(arch) {
	case "arm64", "arm":
		return "arm"
	default:
		return "intel"
	}
}

// Render writes f as a Homebrew formula.
func Render(w io.Writer, f *Formula) error {
	if f.Class == "" {
		return fmt.Errorf("formula %s has no class name", f.Name)
	}
	return rubyTemplate.Execute(w, f)
}
