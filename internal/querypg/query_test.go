package querypg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_PushSQLAndParams(t *testing.T) {
	q := New()
	q.PushSQL("select * from ")
	q.PushIdent("account")
	q.PushSQL(" where id = ")
	q.PushParam("alice")
	q.PushSQL(" and vid > ")
	q.PushParam(int64(7))

	assert.Equal(t, `select * from "account" where id = $1 and vid > $2`, q.SQL())
	assert.Equal(t, []any{"alice", int64(7)}, q.Params())
	assert.True(t, q.Cacheable())
}

func TestQuery_PushIdentQuoting(t *testing.T) {
	q := New()
	q.PushIdent(`odd"name`)

	assert.Equal(t, `"odd""name"`, q.SQL())
}

func TestQuery_MarkUncacheable(t *testing.T) {
	q := New()
	q.MarkUncacheable()

	assert.False(t, q.Cacheable())
}

func TestQuery_EmptyParams(t *testing.T) {
	q := New()
	q.PushSQL("select 1")

	assert.Empty(t, q.Params())
}
