package profile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildProfileJSONFieldNames(t *testing.T) {
	raw := `{"buildProfile":{"elapsedTotal":1500,"projects":[{"path":":app","tasks":[{"path":":app:assemble","duration":1200,"result":"SUCCESS","type":"DefaultTask"}]}]}}`
	var p BuildProfile
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	require.Equal(t, uint64(1500), p.BuildProfile.ElapsedTotal)
	require.Len(t, p.BuildProfile.Projects, 1)
	task := p.BuildProfile.Projects[0].Tasks[0]
	require.Equal(t, ":app:assemble", task.Path)
	require.NotNil(t, task.Type)
	require.Equal(t, "DefaultTask", *task.Type)
}

func TestAllTasks(t *testing.T) {
	d := BuildData{Projects: []Project{
		{Path: ":a", Tasks: []Task{{Path: ":a:x"}, {Path: ":a:y"}}},
		{Path: ":b", Tasks: []Task{{Path: ":b:z"}}},
	}}
	tasks := d.AllTasks()
	require.Len(t, tasks, 3)
	require.Equal(t, ":b:z", tasks[2].Path)
}
