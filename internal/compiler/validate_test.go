package compiler

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		query: good: select: {from: "t", columns: ["a"]}
		query: bad: {
			select: {from: "my table", columns: ["a", "b c"]}
			where: {column: "x", op: ">", value: null}
		}
	`)
	defs, errs := CompileAll(v)
	require.Empty(t, errs)
	require.Len(t, defs, 2)

	// sorted: bad, good
	assert.Empty(t, Validate(defs[1]))

	verrs := Validate(defs[0])
	require.Len(t, verrs, 3)
	for _, e := range verrs {
		assert.Equal(t, "bad", e.Query)
		assert.Equal(t, ErrInvalidQuery, e.Code)
	}
	assert.Equal(t, "where.inner.table", verrs[0].Path)
	assert.Contains(t, verrs[0].Message, "invalid table name")
	assert.Equal(t, "where.inner.columns[1]", verrs[1].Path)
	assert.Equal(t, "where.expr", verrs[2].Path)
	assert.Contains(t, verrs[2].Error(), "[E110] bad: where.expr:")
}

func TestValidateAll(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		query: a: delete: from: "bad name"
		query: b: delete: from: "ok"
		query: c: update: {table: "t", set: [{column: "*", value: 1}]}
	`)
	defs, errs := CompileAll(v)
	require.Empty(t, errs)

	verrs := ValidateAll(defs)
	require.Len(t, verrs, 2)
	assert.Equal(t, "a", verrs[0].Query)
	assert.Equal(t, "c", verrs[1].Query)
	assert.Equal(t, "update.set[0].column", verrs[1].Path)
	assert.Equal(t, "delete.table", verrs[0].Path)
}
