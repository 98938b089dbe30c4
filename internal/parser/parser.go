package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Chaebin-Park/GradleBuildProfiler/pkg/profile"
)

// ProfileDir is where `gradle --profile` writes its HTML reports, relative to the project root.
var ProfileDir = filepath.Join("build", "reports", "profile")

var (
	ErrProfileDirNotFound  = errors.New("profile directory not found")
	ErrNoProfiles          = errors.New("no profile files found")
	ErrTotalTimeNotFound   = errors.New("could not find Total Build Time in HTML")
	ErrTaskSectionNotFound = errors.New("could not find Task Execution section")
	ErrNoTasks             = errors.New("could not parse any tasks from HTML profile")
)

const taskSectionHeader = `<h2>Task Execution</h2>`

var (
	totalTimeRe = regexp.MustCompile(`Total Build Time</td>\s*<td class="numeric">([^<]+)</td>`)
	taskRowRe   = regexp.MustCompile(`<td(?:\s+class="indentPath")?>([^<]+)</td>\s*<td class="numeric">([^<]+)</td>\s*<td>([^<]*)</td>`)
	minutesRe   = regexp.MustCompile(`(\d+)m`)
	secondsRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)s`)
)

type profileFile struct {
	path    string
	modTime time.Time
}

// FindLatestProfile returns the most recently modified HTML report in the
// project's profile directory.
func FindLatestProfile(projectDir string) (string, error) {
	dir := filepath.Join(projectDir, ProfileDir)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w at %q. Run './gradlew build --profile' first", ErrProfileDirNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read profile directory %q: %w", dir, err)
	}
	profiles := make([]profileFile, 0)
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != ".html" {
			continue
		}
		pf := profileFile{path: filepath.Join(dir, entry.Name()), modTime: time.Unix(0, 0)}
		// os.Stat follows symlinks, so linked reports count as profiles too
		fi, err := os.Stat(pf.path)
		if err != nil {
			if entry.Type().IsRegular() {
				profiles = append(profiles, pf)
			}
			continue
		}
		if !fi.Mode().IsRegular() {
			continue
		}
		pf.modTime = fi.ModTime()
		profiles = append(profiles, pf)
	}
	if len(profiles) == 0 {
		return "", fmt.Errorf("%w (*.html) in %q", ErrNoProfiles, dir)
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].modTime.Before(profiles[j].modTime)
	})
	return profiles[len(profiles)-1].path, nil
}

func ParseHTMLFile(path string) (*profile.BuildProfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %s: %w", path, err)
	}
	return ParseHTML(string(content))
}

// ParseHTML extracts the total build time and the executed tasks from a
// Gradle HTML profile report.
func ParseHTML(html string) (*profile.BuildProfile, error) {
	totalTime, err := extractTotalTime(html)
	if err != nil {
		return nil, err
	}
	projects, err := extractTasks(html)
	if err != nil {
		return nil, err
	}
	return &profile.BuildProfile{
		BuildProfile: profile.BuildData{
			ElapsedTotal: totalTime,
			Projects:     projects,
		},
	}, nil
}

func extractTotalTime(html string) (uint64, error) {
	m := totalTimeRe.FindStringSubmatch(html)
	if m == nil {
		return 0, ErrTotalTimeNotFound
	}
	return ParseDuration(m[1]), nil
}

func extractTasks(html string) ([]profile.Project, error) {
	start := strings.Index(html, taskSectionHeader)
	if start < 0 {
		return nil, ErrTaskSectionNotFound
	}

	tasksByProject := make(map[string][]profile.Task)
	for _, m := range taskRowRe.FindAllStringSubmatch(html[start:], -1) {
		taskPath := strings.TrimSpace(m[1])
		duration := strings.TrimSpace(m[2])
		result := strings.TrimSpace(m[3])

		// project totals such as ":app" carry no task name
		if strings.Count(taskPath, ":") < 2 {
			continue
		}
		if duration == "0s" || strings.Contains(duration, "(total)") {
			continue
		}
		if result == "" {
			result = "SUCCESS"
		}

		projectName := ":" + strings.Split(taskPath, ":")[1]
		tasksByProject[projectName] = append(tasksByProject[projectName], profile.Task{
			Path:     taskPath,
			Duration: ParseDuration(duration),
			Result:   result,
		})
	}
	if len(tasksByProject) == 0 {
		return nil, ErrNoTasks
	}

	projects := make([]profile.Project, 0, len(tasksByProject))
	for path, tasks := range tasksByProject {
		projects = append(projects, profile.Project{Path: path, Tasks: tasks})
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Path < projects[j].Path
	})
	return projects, nil
}

// ParseDuration converts Gradle's human readable durations ("1m13.54s",
// "0.123s") to milliseconds. Unparseable parts count as zero.
func ParseDuration(s string) uint64 {
	var total uint64
	if m := minutesRe.FindStringSubmatch(s); m != nil {
		if minutes, err := strconv.ParseUint(m[1], 10, 64); err == nil {
			total += minutes * 60 * 1000
		}
	}
	if m := secondsRe.FindStringSubmatch(s); m != nil {
		if seconds, err := strconv.ParseFloat(m[1], 64); err == nil {
			total += uint64(seconds * 1000)
		}
	}
	return total
}
