package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Chaebin-Park/GradleBuildProfiler/pkg/profile"
)

const (
	DefaultTopN               = 10
	DefaultKaptShareThreshold = 20.0
	DefaultSlowKotlinCompile  = 30000
)

const (
	TipParallel           = "Enable Gradle parallel execution: org.gradle.parallel=true"
	TipConfigurationCache = "Enable configuration cache: org.gradle.configuration-cache=true"
)

type Options struct {
	// TopN is the number of slowest tasks to report.
	TopN int
	// KaptShareThreshold is the share of the total build time (in percent) above which kapt is flagged.
	KaptShareThreshold float64
	// SlowKotlinCompile is the duration in milliseconds above which a Kotlin compile task is flagged.
	SlowKotlinCompile uint64
}

func DefaultOptions() Options {
	return Options{
		TopN:               DefaultTopN,
		KaptShareThreshold: DefaultKaptShareThreshold,
		SlowKotlinCompile:  DefaultSlowKotlinCompile,
	}
}

func Analyze(p *profile.BuildProfile) *profile.Analysis {
	return AnalyzeWithOptions(p, DefaultOptions())
}

func AnalyzeWithOptions(p *profile.BuildProfile, opts Options) *profile.Analysis {
	data := &p.BuildProfile
	totalTime := data.ElapsedTotal

	allTasks := data.AllTasks()
	sort.SliceStable(allTasks, func(i, j int) bool {
		return allTasks[i].Duration > allTasks[j].Duration
	})

	n := max(min(opts.TopN, len(allTasks)), 0)
	slowest := make([]profile.TaskSummary, 0, n)
	for _, task := range allTasks[:n] {
		slowest = append(slowest, profile.TaskSummary{
			Name:       task.Path,
			Duration:   task.Duration,
			Percentage: percentage(task.Duration, totalTime),
		})
	}

	projects := make([]profile.ProjectSummary, 0, len(data.Projects))
	for _, project := range data.Projects {
		var sum uint64
		for _, task := range project.Tasks {
			sum += task.Duration
		}
		projects = append(projects, profile.ProjectSummary{
			Name:          project.Path,
			TotalDuration: sum,
			TaskCount:     len(project.Tasks),
		})
	}

	return &profile.Analysis{
		TotalTime:        totalTime,
		SlowestTasks:     slowest,
		ProjectSummary:   projects,
		OptimizationTips: generateTips(allTasks, totalTime, opts),
	}
}

// percentage returns 0 for an empty build instead of NaN or +Inf.
func percentage(part, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func generateTips(tasks []profile.Task, totalTime uint64, opts Options) []string {
	tips := make([]string, 0)

	var kaptTime uint64
	kaptFound := false
	for _, t := range tasks {
		if strings.Contains(t.Path, "kapt") {
			kaptFound = true
			kaptTime += t.Duration
		}
	}
	if kaptFound {
		share := percentage(kaptTime, totalTime)
		if share > opts.KaptShareThreshold {
			tips = append(tips, fmt.Sprintf("Kapt takes %.1f%% of build time. Consider migrating to KSP for ~40%% improvement", share))
		}
	}

	var longest *profile.Task
	for i := range tasks {
		if !strings.Contains(tasks[i].Path, "compileKotlin") {
			continue
		}
		// the last of equally slow tasks wins
		if longest == nil || tasks[i].Duration >= longest.Duration {
			longest = &tasks[i]
		}
	}
	if longest != nil && longest.Duration > opts.SlowKotlinCompile {
		tips = append(tips, fmt.Sprintf("Module '%s' has slow Kotlin compilation. Consider splitting into smaller modules", moduleName(longest.Path)))
	}

	return append(tips, TipParallel, TipConfigurationCache)
}

func moduleName(taskPath string) string {
	parts := strings.Split(taskPath, ":")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[1]
}
