// Package api exposes a small HTTP surface over the local collect engine:
// debug listings of the registered references, functions and open shards,
// plus an endpoint that runs a column-projection collect locally.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shardlite/shardlite/collect"
	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/plan"
	"github.com/shardlite/shardlite/shard"
	"github.com/shardlite/shardlite/symbol"
)

// Handler serves the debug and collect endpoints
type Handler struct {
	nodeID    string
	operation *collect.LocalCollectOperation
	registry  *metadata.Registry
	functions *metadata.Functions
	shards    *shard.Manager
}

// NewHandler creates the Handler
func NewHandler(
	nodeID string,
	operation *collect.LocalCollectOperation,
	registry *metadata.Registry,
	functions *metadata.Functions,
	shards *shard.Manager,
) *Handler {
	return &Handler{
		nodeID:    nodeID,
		operation: operation,
		registry:  registry,
		functions: functions,
		shards:    shards,
	}
}

// RegisterRoutes mounts the handler's routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/debug", func(r chi.Router) {
		r.Get("/references", h.ListReferences)
		r.Get("/functions", h.ListFunctions)
		r.Get("/shards", h.ListShards)
	})
	r.Post("/collect", h.Collect)
}

// ColumnRef names one output column
type ColumnRef struct {
	Schema string `json:"schema"`
	Table  string `json:"table"`
	Column string `json:"column"`
}

// CollectRequest describes a local column-projection collect
type CollectRequest struct {
	Name    string      `json:"name,omitempty"`
	Table   string      `json:"table"`
	Shards  []int       `json:"shards,omitempty"`
	Outputs []ColumnRef `json:"outputs"`
	Limit   *int        `json:"limit,omitempty"`
	Offset  int         `json:"offset,omitempty"`
	OrderBy []int       `json:"order_by,omitempty"`
	Reverse []bool      `json:"reverse,omitempty"`
}

// CollectResponse carries the resulting matrix
type CollectResponse struct {
	QueryID string  `json:"query_id"`
	Rows    [][]any `json:"rows"`
	Count   int     `json:"count"`
}

// ErrorResponse is the error body of every endpoint
type ErrorResponse struct {
	Error string `json:"error"`
}

// ShardStatus describes one open shard
type ShardStatus struct {
	Table   string `json:"table"`
	Num     int    `json:"num"`
	NumDocs int64  `json:"num_docs"`
	Size    int64  `json:"size"`
}

// ListReferences returns the idents registered in the process-wide registry
func (h *Handler) ListReferences(w http.ResponseWriter, r *http.Request) {
	idents := h.registry.Idents()
	out := make([]string, len(idents))
	for i, ident := range idents {
		out[i] = ident.String()
	}
	writeJSON(w, http.StatusOK, out)
}

// ListFunctions returns the registered function overload keys
func (h *Handler) ListFunctions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.functions.Keys())
}

// ListShards returns the open shards with their document counts
func (h *Handler) ListShards(w http.ResponseWriter, r *http.Request) {
	ids := h.shards.IDs()
	out := make([]ShardStatus, 0, len(ids))
	for _, id := range ids {
		s, ok := h.shards.Get(id)
		if !ok {
			continue
		}
		out = append(out, ShardStatus{
			Table:   id.Table,
			Num:     id.Num,
			NumDocs: s.Store().DocCount(),
			Size:    s.Store().SizeBytes(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Collect builds a collect node from the request and runs it locally
func (h *Handler) Collect(w http.ResponseWriter, r *http.Request) {
	var req CollectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Table == "" {
		writeError(w, http.StatusBadRequest, "table is required")
		return
	}
	if len(req.Outputs) == 0 {
		writeError(w, http.StatusBadRequest, "at least one output is required")
		return
	}

	node, err := h.buildNode(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.operation.Collect(r.Context(), node)
	if err != nil {
		writeError(w, collectStatus(err), err.Error())
		return
	}
	rows, err := res.Wait(r.Context())
	if err != nil {
		writeError(w, collectStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CollectResponse{
		QueryID: res.ID().String(),
		Rows:    rows,
		Count:   len(rows),
	})
}

func (h *Handler) buildNode(req *CollectRequest) (*plan.CollectNode, error) {
	var routing *plan.Routing
	if len(req.Shards) > 0 {
		routing = plan.NewShardRouting(h.nodeID, req.Table, req.Shards...)
	} else {
		routing = plan.NewTableRouting(h.nodeID, req.Table)
	}

	name := req.Name
	if name == "" {
		name = "api-collect"
	}
	node := plan.NewCollectNode(name, routing)

	for _, col := range req.Outputs {
		ref, err := h.resolveColumn(col, req.Table, req.Shards)
		if err != nil {
			return nil, err
		}
		node.Outputs = append(node.Outputs, ref)
	}

	if req.Limit != nil {
		node.Limit = *req.Limit
	}
	node.Offset = req.Offset
	node.OrderBy = req.OrderBy
	node.Reverse = req.Reverse
	return node, nil
}

// resolveColumn finds the reference info for a named column in the
// process-wide registry, falling back to the registries of the routed
// shards for shard-scoped columns. The shard lookup keys on the scanned
// table: the column's own table names its logical home (sys.shards), not
// where the data lives.
func (h *Handler) resolveColumn(col ColumnRef, scanTable string, shardNums []int) (symbol.Symbol, error) {
	ident := metadata.NewReferenceIdent(metadata.NewTableIdent(col.Schema, col.Table), col.Column)

	if impl := h.registry.GetImplementation(ident); impl != nil {
		return symbol.NewReference(impl.Info()), nil
	}
	for _, num := range shardNums {
		s, ok := h.shards.Get(shard.NewID(scanTable, num))
		if !ok {
			continue
		}
		if impl := s.Resolver().GetImplementation(ident); impl != nil {
			return symbol.NewReference(impl.Info()), nil
		}
	}
	return nil, &unknownColumnError{ident: ident}
}

type unknownColumnError struct {
	ident metadata.ReferenceIdent
}

func (e *unknownColumnError) Error() string {
	return "unknown column " + e.ident.String()
}

func collectStatus(err error) int {
	switch {
	case collect.IsShardUnavailable(err):
		return http.StatusServiceUnavailable
	case collect.IsRoutingMismatch(err):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
