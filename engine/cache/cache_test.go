package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nsql-lang/nsql/engine/codec"
	"github.com/nsql-lang/nsql/mapping"
)

func TestKey(t *testing.T) {
	s := New(nil, "")

	k1 := s.Key("ASK users FOR name")
	k2 := s.Key("ASK users FOR name")
	k3 := s.Key("ASK users FOR email")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.True(t, strings.HasPrefix(k1, DefaultPrefix+":"))

	// prefix + ":" + 32 hex chars of the truncated digest
	assert.Len(t, k1, len(DefaultPrefix)+1+32)
}

func TestKeyCustomPrefix(t *testing.T) {
	s := New(nil, "myapp:queries")
	assert.True(t, strings.HasPrefix(s.Key("GET x FROM y"), "myapp:queries:"))
}

func TestCacheable(t *testing.T) {
	assert.False(t, Cacheable(nil))
	assert.False(t, Cacheable(&codec.ExecutionMetadata{Hints: mapping.HintParallel}))
	assert.True(t, Cacheable(&codec.ExecutionMetadata{Hints: mapping.HintCacheResult}))
	assert.True(t, Cacheable(&codec.ExecutionMetadata{
		Hints: mapping.HintCacheResult | mapping.HintReadOnly,
	}))
}

func TestTTL(t *testing.T) {
	assert.Equal(t, 5*time.Second,
		TTL(&codec.ExecutionMetadata{TimeoutMS: 5000}))

	fallback := time.Duration(codec.DefaultMetadata().TimeoutMS) * time.Millisecond
	assert.Equal(t, fallback, TTL(nil))
	assert.Equal(t, fallback, TTL(&codec.ExecutionMetadata{}))
}
