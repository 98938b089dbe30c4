package profile

// BuildProfile mirrors the JSON shape Gradle uses for build profiles.
type BuildProfile struct {
	BuildProfile BuildData `json:"buildProfile"`
}

type BuildData struct {
	// ElapsedTotal is the wall-clock build time in milliseconds.
	ElapsedTotal uint64    `json:"elapsedTotal"`
	Projects     []Project `json:"projects"`
}

type Project struct {
	Path  string `json:"path"`
	Tasks []Task `json:"tasks"`
}

type Task struct {
	Path     string  `json:"path"`
	Duration uint64  `json:"duration"`
	Result   string  `json:"result"`
	Type     *string `json:"type,omitempty"`
}

func (d *BuildData) AllTasks() []Task {
	ret := make([]Task, 0)
	for _, p := range d.Projects {
		ret = append(ret, p.Tasks...)
	}
	return ret
}

type Analysis struct {
	TotalTime        uint64           `json:"totalTime"`
	SlowestTasks     []TaskSummary    `json:"slowestTasks"`
	ProjectSummary   []ProjectSummary `json:"projectSummary"`
	OptimizationTips []string         `json:"optimizationTips"`
}

type TaskSummary struct {
	Name       string  `json:"name"`
	Duration   uint64  `json:"duration"`
	Percentage float64 `json:"percentage"`
}

type ProjectSummary struct {
	Name          string `json:"name"`
	TotalDuration uint64 `json:"totalDuration"`
	TaskCount     int    `json:"taskCount"`
}
