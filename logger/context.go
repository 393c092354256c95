package logger

import (
	"context"
)

// ContextKey is used for context values
type ContextKey string

const (
	// QueryIDKey is the context key for the collect call id
	QueryIDKey ContextKey = "query_id"
	// NodeIDKey is the context key for the local node id
	NodeIDKey ContextKey = "node_id"
	// ShardKey is the context key for the shard being evaluated
	ShardKey ContextKey = "shard"
)

// WithContextValue adds a value to the context for logging
func WithContextValue(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}

// ExtractContextValues extracts logging-relevant values from context
func ExtractContextValues(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	var args []any

	if queryID, ok := ctx.Value(QueryIDKey).(string); ok {
		args = append(args, "query_id", queryID)
	}

	if nodeID, ok := ctx.Value(NodeIDKey).(string); ok {
		args = append(args, "node_id", nodeID)
	}

	if shard, ok := ctx.Value(ShardKey).(string); ok {
		args = append(args, "shard", shard)
	}

	return args
}
