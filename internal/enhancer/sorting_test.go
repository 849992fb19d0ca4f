package enhancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySortingAppends(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		sort   Sort
		alias  string
		sorted string
	}{
		{
			name:   "single key qualified with default alias",
			query:  "select u from User u",
			sort:   By("name"),
			alias:  "u",
			sorted: "select u from User u order by u.name asc",
		},
		{
			name:   "descending key",
			query:  "select u from User u",
			sort:   Sort{Desc("age")},
			alias:  "u",
			sorted: "select u from User u order by u.age desc",
		},
		{
			name:   "multiple keys keep their order",
			query:  "select u from User u",
			sort:   Sort{Asc("lastname"), Desc("firstname")},
			alias:  "u",
			sorted: "select u from User u order by u.lastname asc, u.firstname desc",
		},
		{
			name:   "dotted path still qualified",
			query:  "select u from User u",
			sort:   By("address.city"),
			alias:  "u",
			sorted: "select u from User u order by u.address.city asc",
		},
		{
			name:   "empty default alias leaves key bare",
			query:  "select count(u) from User",
			sort:   By("name"),
			alias:  "",
			sorted: "select count(u) from User order by name asc",
		},
		{
			name:   "selection alias not qualified",
			query:  "select u.age as years from User u",
			sort:   By("years"),
			alias:  "u",
			sorted: "select u.age as years from User u order by years asc",
		},
		{
			name:   "selection alias match ignores case",
			query:  "select u.age as YEARS from User u",
			sort:   By("years"),
			alias:  "u",
			sorted: "select u.age as YEARS from User u order by years asc",
		},
		{
			name:   "partition reference not qualified",
			query:  "select dense_rank() over (partition by age) from user u",
			sort:   Sort{Desc("age")},
			alias:  "u",
			sorted: "select dense_rank() over (partition by age) from user u order by age desc",
		},
		{
			name:   "non partition key next to window still qualified",
			query:  "select dense_rank() over (partition by age) from user u",
			sort:   Sort{Desc("name")},
			alias:  "u",
			sorted: "select dense_rank() over (partition by age) from user u order by u.name desc",
		},
		{
			name:   "join alias path not qualified",
			query:  "select u from User u left join u.roles r",
			sort:   By("r.name"),
			alias:  "u",
			sorted: "select u from User u left join u.roles r order by r.name asc",
		},
		{
			name:   "primary alias path not requalified",
			query:  "select u from User u",
			sort:   By("u.name"),
			alias:  "u",
			sorted: "select u from User u order by u.name asc",
		},
		{
			name:   "join alias path with empty default alias",
			query:  "select p from Person p left join p.address address",
			sort:   By("address.city"),
			alias:  "",
			sorted: "select p from Person p left join p.address address order by address.city asc",
		},
		{
			name:   "unsafe expression emitted verbatim",
			query:  "select p from Person p",
			sort:   Sort{Unsafe("sum(foo)")},
			alias:  "p",
			sorted: "select p from Person p order by sum(foo) asc",
		},
		{
			name:   "unsafe descending expression",
			query:  "select p from Person p",
			sort:   Sort{{Property: "avg(age)", Direction: Descending, Unsafe: true}},
			alias:  "p",
			sorted: "select p from Person p order by avg(age) desc",
		},
		{
			name:   "ignore case wraps after qualification",
			query:  "select u from User u",
			sort:   Sort{Asc("name").WithIgnoreCase()},
			alias:  "u",
			sorted: "select u from User u order by lower(u.name) asc",
		},
		{
			name:   "ignore case on selection alias",
			query:  "select u.name as name from User u",
			sort:   Sort{Asc("name").WithIgnoreCase()},
			alias:  "u",
			sorted: "select u.name as name from User u order by lower(name) asc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(NewQuery(tt.query, false))
			sorted, err := e.ApplySorting(tt.sort, tt.alias)
			require.NoError(t, err)
			assert.Equal(t, tt.sorted, sorted)
		})
	}
}

func TestApplySortingExtendsExistingOrderBy(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		sort   Sort
		sorted string
	}{
		{
			name:   "existing clause extended in place",
			query:  "select u from User u order by u.name",
			sort:   Sort{Desc("age")},
			sorted: "select u from User u order by u.name, u.age desc",
		},
		{
			name:   "existing direction preserved",
			query:  "select u from User u order by u.name desc",
			sort:   By("age"),
			sorted: "select u from User u order by u.name desc, u.age asc",
		},
		{
			name:   "trailing text kept after insertion",
			query:  "select u from User u order by u.name limit 10",
			sort:   Sort{Desc("age")},
			sorted: "select u from User u order by u.name, u.age desc limit 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(NewQuery(tt.query, false))
			sorted, err := e.ApplySorting(tt.sort, "u")
			require.NoError(t, err)
			assert.Equal(t, tt.sorted, sorted)
		})
	}
}

func TestApplySortingEmptySortIsIdentity(t *testing.T) {
	src := "this is not even a query"
	e := New(NewQuery(src, false))
	sorted, err := e.ApplySorting(nil, "u")
	require.NoError(t, err, "empty sort must not touch or parse the text")
	assert.Equal(t, src, sorted)
}

func TestApplySortingKeepsStructuralDetectionStable(t *testing.T) {
	src := "select u from User u left join u.roles r"

	sorted, err := New(NewQuery(src, false)).ApplySorting(By("name"), "u")
	require.NoError(t, err)

	e := New(NewQuery(sorted, false))
	alias, err := e.DetectAlias()
	require.NoError(t, err)
	assert.Equal(t, "u", alias)

	joins, err := e.JoinAliases()
	require.NoError(t, err)
	assert.Equal(t, []string{"r"}, joins)
}

func TestApplySortingRejectsRawExpressions(t *testing.T) {
	e := New(NewQuery("select p from Person p", false))
	for _, prop := range []string{"sum(foo)", "age, name", "age\nname", "lower(name)"} {
		_, err := e.ApplySorting(Sort{{Property: prop}}, "p")
		require.Error(t, err, prop)
		assert.True(t, IsUnsupportedSort(err), prop)
	}
}

func TestApplySortingRejectsDML(t *testing.T) {
	e := New(NewQuery("update User u set u.active = false", false))
	_, err := e.ApplySorting(By("name"), "u")
	require.Error(t, err)
	assert.True(t, IsUnsupportedStatement(err))
}
