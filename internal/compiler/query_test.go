package compiler

import (
	"errors"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/yql/internal/yql"
)

// compileNamed compiles src and returns the query at query.<name>.
func compileNamed(t *testing.T, src, name string) (*Definition, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return CompileQuery(v.LookupPath(cue.ParsePath("query." + name)))
}

func TestCompileQuerySelect(t *testing.T) {
	def, err := compileNamed(t, `
		query: recent: {
			select: {
				from:    "t"
				columns: ["a", "b"]
			}
		}
	`, "recent")
	require.NoError(t, err)

	assert.Equal(t, "recent", def.Name)
	assert.Equal(t, yql.KindSelect, def.Query.Kind())
	assert.Equal(t, "select a,b\nfrom t\n", yql.MustBuild(def.Query))
}

func TestCompileQueryFullSelect(t *testing.T) {
	def, err := compileNamed(t, `
		query: quotes: {
			select: {
				from:    "yahoo.finance.quotes"
				columns: ["symbol", "Ask", "Bid"]
			}
			where: and: [
				{column: "symbol", among: ["'YHOO'", "'AAPL'"]},
				{column: "Ask", op: "<", value: 300},
				{or: [
					{column: "Change", op: ">", value: 3.5},
					{column: "Volume", op: ">", value: 0.2},
				]},
			]
			group_by: ["symbol"]
			order_by: [{column: "Ask", order: "desc"}]
		}
	`, "quotes")
	require.NoError(t, err)

	want := "select symbol,Ask,Bid\n" +
		"from yahoo.finance.quotes\n" +
		"where symbol in ('YHOO','AAPL') and Ask<300 and (Change>3.5 or Volume>0.2)\n" +
		"group by symbol\n" +
		"order by Ask desc\n"
	assert.Equal(t, want, yql.MustBuild(def.Query))
	assert.Equal(t, yql.KindOrderBy, def.Query.Kind())
	assert.Equal(t, yql.KindSelect, yql.Base(def.Query))
}

func TestCompileQueryStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "insert",
			src:  `query: q: insert: {into: "t", values: [1, "'two'", null]}`,
			want: "insert into t\nvalues (1,'two',null)\n",
		},
		{
			name: "insert verbose",
			src:  `query: q: insert: {into: "t", columns: ["a", "b"], values: [1, "'two'"]}`,
			want: "insert into t (a,b)\nvalues (1,'two')\n",
		},
		{
			name: "insert verbose empty",
			src:  `query: q: insert: {into: "t", columns: [], values: []}`,
			want: "insert into t ()\nvalues ()\n",
		},
		{
			name: "update",
			src: `query: q: {
				update: {table: "t", set: [{column: "a", value: 1}, {column: "b", value: null}]}
				where: not: {column: "c", between: [1, 10]}
			}`,
			want: "update t\nset a=1,b=null\nwhere not c between 1 and 10\n",
		},
		{
			name: "delete",
			src: `query: q: {
				delete: from: "t"
				where: {column: "id", op: "=", value: 7}
			}`,
			want: "delete from t\nwhere id=7\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := compileNamed(t, tt.src, "q")
			require.NoError(t, err)
			got, err := yql.Build(def.Query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileQueryClauseOrder(t *testing.T) {
	def, err := compileNamed(t, `
		query: q: {
			order_by: [{column: "a"}, {column: "b", order: "descending"}]
			group_by: ["a"]
			select: {from: "t", columns: ["a", "b"]}
		}
	`, "q")
	require.NoError(t, err)

	assert.Equal(t,
		"select a,b\nfrom t\ngroup by a\norder by a asc\norder by b desc\n",
		yql.MustBuild(def.Query))
}

func TestCompileQueryInvalidTokensCompile(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad table", `query: q: select: {from: "my table", columns: ["a"]}`},
		{"bad column", `query: q: select: {from: "t", columns: ["a b"]}`},
		{"bad literal", `query: q: {delete: from: "t", where: {column: "a", op: "=", value: "abc"}}`},
		{"null ordering", `query: q: {delete: from: "t", where: {column: "a", op: "<", value: null}}`},
		{"no columns", `query: q: select: {from: "t", columns: []}`},
		{"mismatched insert", `query: q: insert: {into: "t", columns: ["a"], values: [1, 2]}`},
		{"group by on update", `query: q: {update: {table: "t", set: [{column: "a", value: 1}]}, group_by: ["a"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := compileNamed(t, tt.src, "q")
			require.NoError(t, err)
			assert.False(t, def.Query.IsValid())
			_, err = yql.Build(def.Query)
			assert.ErrorIs(t, err, yql.ErrInvalidFragment)
		})
	}
}

func TestCompileQueryStructuralErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantCode string
		wantMsg  string
	}{
		{"no statement", `query: q: {where: {column: "a", op: "=", value: 1}}`, ErrMissingStatement, "one of select"},
		{"two statements", `query: q: {select: {from: "t", columns: ["a"]}, delete: from: "t"}`, ErrMultipleStatements, "only one statement"},
		{"unknown field", `query: q: {delete: from: "t", limit: 3}`, ErrUnknownField, `"limit"`},
		{"missing from", `query: q: select: columns: ["a"]`, ErrMissingField, "from is required"},
		{"missing columns", `query: q: select: from: "t"`, ErrMissingField, "columns is required"},
		{"missing values", `query: q: insert: into: "t"`, ErrMissingField, "values is required"},
		{"missing set", `query: q: update: table: "t"`, ErrMissingField, "set is required"},
		{"table not string", `query: q: delete: from: 3`, ErrWrongKind, "expected string"},
		{"columns not list", `query: q: select: {from: "t", columns: "a"}`, ErrWrongKind, "expected list"},
		{"unknown op", `query: q: {delete: from: "t", where: {column: "a", op: "==", value: 1}}`, ErrUnknownOperator, `"=="`},
		{"bool value", `query: q: {delete: from: "t", where: {column: "a", op: "=", value: true}}`, ErrWrongKind, "string, number or null"},
		{"empty condition", `query: q: {delete: from: "t", where: {column: "a"}}`, ErrInvalidCondition, "condition needs"},
		{"empty and", `query: q: {delete: from: "t", where: and: []}`, ErrInvalidCondition, "at least one"},
		{"between arity", `query: q: {delete: from: "t", where: {column: "a", between: [1]}}`, ErrWrongKind, "[lower, upper]"},
		{"bad order", `query: q: {select: {from: "t", columns: ["a"]}, order_by: [{column: "a", order: "up"}]}`, ErrUnknownOrder, `"up"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileNamed(t, tt.src, "q")
			require.Error(t, err)

			var compileErr *CompileError
			require.True(t, errors.As(err, &compileErr), "want *CompileError, got %T", err)
			assert.Equal(t, tt.wantCode, compileErr.Code)
			assert.Contains(t, compileErr.Message, tt.wantMsg)
		})
	}
}

func TestCompileQueryErrorHasPosition(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`query: q: {
	delete: from: "t"
	where: {column: "a", op: "~", value: 1}
}`, cue.Filename("queries.cue"))
	require.NoError(t, v.Err())

	_, err := CompileQuery(v.LookupPath(cue.ParsePath("query.q")))
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.True(t, compileErr.Pos.IsValid())
	assert.Equal(t, 3, compileErr.Pos.Line())
	assert.Contains(t, err.Error(), "queries.cue:3:")
	assert.Contains(t, err.Error(), "where.op")
}

func TestCompileAll(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		query: zeta: delete: from: "t"
		query: alpha: select: {from: "t", columns: ["*"]}
		query: broken: select: {from: "t"}
	`)
	require.NoError(t, v.Err())

	defs, errs := CompileAll(v)

	require.Len(t, defs, 2)
	assert.Equal(t, "alpha", defs[0].Name)
	assert.Equal(t, "zeta", defs[1].Name)
	assert.Equal(t, "select *\nfrom t\n", yql.MustBuild(defs[0].Query))

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "query broken")
	var compileErr *CompileError
	assert.ErrorAs(t, errs[0], &compileErr)
	var queryErr *QueryError
	require.ErrorAs(t, errs[0], &queryErr)
	assert.Equal(t, "broken", queryErr.Query)
}

func TestCompileAllNoQueries(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`other: 1`)

	defs, errs := CompileAll(v)
	assert.Empty(t, defs)
	assert.Empty(t, errs)
}
