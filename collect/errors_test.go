package collect

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/shard"
	"github.com/shardlite/shardlite/types"
)

func TestErrorPredicates(t *testing.T) {
	refErr := NewUnknownReference(metadata.NewReferenceIdent(metadata.NewTableIdent("a", "b"), "c"))
	assert.True(t, IsUnknownReference(refErr))
	assert.False(t, IsUnknownFunction(refErr))
	assert.False(t, IsRetryable(refErr))

	fnErr := NewUnknownFunction(metadata.NewFunctionIdent("nope", types.TypeLong))
	assert.True(t, IsUnknownFunction(fnErr))
	assert.Contains(t, fnErr.Error(), "nope(long)")

	routingErr := NewRoutingMismatch("node-1", "plan")
	assert.True(t, IsRoutingMismatch(routingErr))
	assert.Contains(t, routingErr.Error(), "unsupported routing")

	shardErr := NewShardUnavailable(shard.NewID("t", 3), nil)
	assert.True(t, IsShardUnavailable(shardErr))
	assert.True(t, IsRetryable(shardErr))
}

func TestErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("disk gone")
	err := NewShardUnavailable(shard.NewID("t", 0), cause)

	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsShardUnavailable(wrapped))

	var ce *Error
	assert.True(t, errors.As(wrapped, &ce))
	assert.Equal(t, ErrCodeShardUnavailable, ce.Code)
}
