package archive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/canvasctl/internal/client/models"
)

func TestSkipRules(t *testing.T) {
	rules := DefaultSkipRules()

	tests := []struct {
		name     string
		entry    string
		expected bool
	}{
		{name: "plain source file", entry: "src/main.go", expected: false},
		{name: "node_modules anywhere", entry: "project/node_modules/left-pad/index.js", expected: true},
		{name: "git metadata", entry: ".git/HEAD", expected: true},
		{name: "nested git", entry: "sub/.git/config", expected: true},
		{name: "idea settings", entry: ".idea/workspace.xml", expected: true},
		{name: "ds_store", entry: "docs/.DS_Store", expected: true},
		{name: "apple double", entry: "docs/._readme.md", expected: true},
		{name: "venv", entry: "backend/venv/bin/python", expected: true},
		{name: "name merely containing venv", entry: "src/prevent.go", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, rules.Skip(tt.entry))
		})
	}
}

func TestReport_SummaryNoSkips(t *testing.T) {
	rep := NewReport(DefaultSkipRules())
	require.True(t, rep.Add("main.go", 100))
	require.True(t, rep.Add("go.mod", 24))

	require.Equal(t, "2 files | 124 B", rep.Summary())
	require.Equal(t, 2, rep.KeptCount())
	require.Equal(t, 0, rep.SkippedCount())
}

func TestReport_SummarySingular(t *testing.T) {
	rep := NewReport(DefaultSkipRules())
	rep.Add("main.go", 100)
	require.Equal(t, "1 file | 100 B", rep.Summary())
}

func TestReport_SummaryWithSkips(t *testing.T) {
	rep := NewReport(DefaultSkipRules())
	require.True(t, rep.Add("main.go", 900))
	require.False(t, rep.Add("node_modules/x/index.js", 300))

	require.Equal(t, "1/2 files, 1 skipped | 900 B/1.2 kB, 300 B skipped", rep.Summary())
	require.Equal(t, []models.FileInfo{{Name: "main.go", Size: 900}}, rep.Kept())
}

func TestReport_Exclude(t *testing.T) {
	rep := NewReport(DefaultSkipRules())
	rep.Exclude("../../etc/passwd", 10)

	require.Equal(t, 1, rep.SkippedCount())
	require.Empty(t, rep.Kept())
}

func TestReport_Progress(t *testing.T) {
	rep := NewReport(DefaultSkipRules())
	var seen []string
	rep.SetProgress(func(fi models.FileInfo) {
		seen = append(seen, fi.Name)
	})

	rep.Add("a.txt", 1)
	rep.Add(".git/HEAD", 1) // skipped, no callback
	rep.Add("b.txt", 1)

	require.Equal(t, []string{"a.txt", "b.txt"}, seen)
}
