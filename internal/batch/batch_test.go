package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBatchFile writes content to a temp YAML file and returns its path.
func writeBatchFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeBatchFile(t, `
run: nightly-rewrites
jobs:
  - name: users-count
    query: select u from User u order by u.name
    count: true
  - name: users-sort
    query: select u from User u
    sort:
      - property: lastname
      - property: firstname
        direction: desc
        ignoreCase: true
`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nightly-rewrites", f.Run)
	require.Len(t, f.Jobs, 2)

	assert.Equal(t, "users-count", f.Jobs[0].Name)
	assert.True(t, f.Jobs[0].Count)

	require.Len(t, f.Jobs[1].Sort, 2)
	assert.Equal(t, "firstname", f.Jobs[1].Sort[1].Property)
	assert.Equal(t, "desc", f.Jobs[1].Sort[1].Direction)
	assert.True(t, f.Jobs[1].Sort[1].IgnoreCase)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeBatchFile(t, `
jobs:
  - query: select u from User u
    cuont: true
`)
	_, err := Load(path)
	require.Error(t, err, "typoed job keys must fail the load")
}

func TestLoadRejectsEmptyJobs(t *testing.T) {
	path := writeBatchFile(t, "run: empty\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no jobs")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	f := &File{
		Run: "mixed",
		Jobs: []Job{
			{
				Name:  "count-only",
				Query: "select u from User u order by u.name",
				Count: true,
			},
			{
				Query: "select p from Person p",
				Sort:  []SortKey{{Property: "lastname"}, {Property: "age", Direction: "desc"}},
			},
			{
				Name:  "broken",
				Query: "update User u set u.active = false",
				Count: true,
			},
		},
	}

	run := Run(f)
	assert.NotEmpty(t, run.RunID)
	assert.Equal(t, "mixed", run.Run)
	assert.Equal(t, 1, run.Failed)
	require.Len(t, run.Results, 3)

	assert.Equal(t, "count-only", run.Results[0].Name)
	assert.Equal(t, "select count(u) from User u", run.Results[0].Count)
	assert.Empty(t, run.Results[0].Sorted)

	assert.Equal(t, "job-1", run.Results[1].Name, "unnamed jobs default to their index")
	assert.Equal(t, "select p from Person p order by p.lastname asc, p.age desc", run.Results[1].Sorted)

	assert.Equal(t, "broken", run.Results[2].Name)
	assert.NotEmpty(t, run.Results[2].Error)
	assert.Empty(t, run.Results[2].Count)
}

func TestRunUsesExplicitAlias(t *testing.T) {
	f := &File{Jobs: []Job{{
		Query: "select u from User u",
		Alias: "x",
		Sort:  []SortKey{{Property: "name"}},
	}}}

	run := Run(f)
	require.Len(t, run.Results, 1)
	assert.Equal(t, "select u from User u order by x.name asc", run.Results[0].Sorted)
}

func TestRunCountProjectionImpliesCount(t *testing.T) {
	f := &File{Jobs: []Job{{
		Query:           "select p.lastname,p.firstname from Person p",
		CountProjection: "p.lastname",
	}}}

	run := Run(f)
	require.Len(t, run.Results, 1)
	assert.Zero(t, run.Failed)
	assert.Equal(t, "select count(p.lastname) from Person p", run.Results[0].Count)
}

func TestRunIDsAreUnique(t *testing.T) {
	f := &File{Jobs: []Job{{Query: "select u from User u", Count: true}}}
	assert.NotEqual(t, Run(f).RunID, Run(f).RunID)
}
