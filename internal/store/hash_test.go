package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryIDDeterministic(t *testing.T) {
	a := QueryID("recent", "select a\nfrom t\n")
	b := QueryID("recent", "select a\nfrom t\n")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestQueryIDSeparatesNameAndText(t *testing.T) {
	assert.NotEqual(t, QueryID("ab", "c"), QueryID("a", "bc"))
	assert.NotEqual(t, QueryID("q", "select a\nfrom t\n"), QueryID("r", "select a\nfrom t\n"))
}

func TestHashWithDomainSeparatesDomains(t *testing.T) {
	data := []byte("select a\nfrom t\n")
	assert.NotEqual(t, hashWithDomain("yql/query/v1", data), hashWithDomain("yql/query/v2", data))
}
