package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliasCommand(t *testing.T) {
	out, err := execute("alias", "select u from User u")
	require.NoError(t, err)
	assert.Equal(t, "u\n", out)
}

func TestAliasCommandJSONWithJoins(t *testing.T) {
	out, err := execute("--format", "json", "alias", "--joins",
		"select u from User u left join u.roles r join u.accounts a")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "u", data["alias"])
	assert.Equal(t, []interface{}{"r", "a"}, data["joins"])
}

func TestAliasCommandRewriteFailure(t *testing.T) {
	out, err := execute("--format", "json", "alias", "update User u set u.active = false")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeUnsupportedStatement, resp.Error.Code)
}

func TestProjectionCommand(t *testing.T) {
	out, err := execute("projection", "select distinct u.name, u.age from User u")
	require.NoError(t, err)
	assert.Equal(t, "u.name, u.age\n", out)
}

func TestProjectionCommandConstructor(t *testing.T) {
	out, err := execute("projection", "select new com.example.Dto(u.name) from User u")
	require.NoError(t, err)
	assert.Equal(t, "new com.example.Dto(u.name) (constructor)\n", out)
}

func TestCountCommand(t *testing.T) {
	out, err := execute("count", "select u from User u order by u.name")
	require.NoError(t, err)
	assert.Equal(t, "select count(u) from User u\n", out)
}

func TestCountCommandCustomProjection(t *testing.T) {
	out, err := execute("count", "--projection", "p.lastname",
		"select p.lastname,p.firstname from Person p")
	require.NoError(t, err)
	assert.Equal(t, "select count(p.lastname) from Person p\n", out)
}

func TestSortCommand(t *testing.T) {
	out, err := execute("sort", "--by", "lastname", "--by", "firstname:desc",
		"select p from Person p")
	require.NoError(t, err)
	assert.Equal(t, "select p from Person p order by p.lastname asc, p.firstname desc\n", out)
}

func TestSortCommandExplicitAlias(t *testing.T) {
	out, err := execute("sort", "--by", "name", "--alias", "x", "select u from User u")
	require.NoError(t, err)
	assert.Equal(t, "select u from User u order by x.name asc\n", out)
}

func TestSortCommandIgnoreCase(t *testing.T) {
	out, err := execute("sort", "--by", "name", "--ignore-case", "select u from User u")
	require.NoError(t, err)
	assert.Equal(t, "select u from User u order by lower(u.name) asc\n", out)
}

func TestSortCommandRejectsBadDirection(t *testing.T) {
	_, err := execute("sort", "--by", "name:down", "select u from User u")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSortCommandUnsafe(t *testing.T) {
	out, err := execute("sort", "--by", "sum(foo):desc", "--unsafe", "select p from Person p")
	require.NoError(t, err)
	assert.Equal(t, "select p from Person p order by sum(foo) desc\n", out)
}

func TestParseSortKeys(t *testing.T) {
	sort, err := parseSortKeys([]string{"a", "b:desc", "c:asc"}, false, false)
	require.NoError(t, err)
	require.Len(t, sort, 3)
	assert.Equal(t, "a", sort[0].Property)
	assert.Equal(t, "asc", sort[0].DirectionKeyword())
	assert.Equal(t, "b", sort[1].Property)
	assert.Equal(t, "desc", sort[1].DirectionKeyword())
	assert.Equal(t, "c", sort[2].Property)
}

func TestBatchCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jobs:
  - name: users
    query: select u from User u order by u.name
    count: true
`), 0644))

	out, err := execute("batch", path)
	require.NoError(t, err)
	assert.Contains(t, out, "users: count: select count(u) from User u")
}

func TestBatchCommandFailedJobsExitNonZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jobs:
  - name: bad
    query: update User u set u.active = false
    count: true
`), 0644))

	out, err := execute("batch", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "bad: error:")
}

func TestBatchCommandMissingFile(t *testing.T) {
	_, err := execute("batch", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPreviewCommandFlagExclusivity(t *testing.T) {
	_, err := execute("preview", "--db", "x.db", "--count", "--by", "name",
		"select u.* from users u")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPreviewCommandRequiresDatabase(t *testing.T) {
	_, err := execute("preview", "select u.* from users u")
	require.Error(t, err)
}
