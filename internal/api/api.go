// Package api implements the relay's read-side HTTP surface: querying a
// single transaction by id, listing by status, paging through a
// receiver's transaction history, and scanning the full keyspace.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/nearft/relay/internal/apperr"
	"github.com/nearft/relay/internal/keypool"
	"github.com/nearft/relay/internal/model"
	"github.com/nearft/relay/internal/store"
)

// API holds the query endpoints' dependencies.
type API struct {
	store store.Store
	pool  *keypool.Pool
	log   *zap.SugaredLogger
}

// New constructs an API.
func New(st store.Store, pool *keypool.Pool, log *zap.SugaredLogger) *API {
	return &API{store: st, pool: pool, log: log}
}

// GetTransaction handles GET /transaction/:id.
func (a *API) GetTransaction(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	rec, err := a.store.Get(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if apperr.Is(err, apperr.StoreMissing) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// ListByStatus handles GET /transactions/status/:status?page=1&page_size=20.
// An unrecognized status word is rejected with 400 rather than silently
// falling back to a default status.
func (a *API) ListByStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	status := model.TransactionStatus(ps.ByName("status"))
	if !isKnownStatus(status) {
		writeError(w, http.StatusBadRequest, "unknown status: "+string(status))
		return
	}

	q := r.URL.Query()
	page := model.Pagination{
		Page:     atoiDefault(q.Get("page"), 1),
		PageSize: atoiDefault(q.Get("page_size"), 50),
	}

	recs, err := a.store.ListByStatus(r.Context(), status, page)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.PaginatedTransactionResponse{Records: recs})
}

func isKnownStatus(status model.TransactionStatus) bool {
	switch status {
	case model.StatusQueued, model.StatusSuccess, model.StatusFailure:
		return true
	default:
		return false
	}
}

// ListBySender handles GET /transactions/:receiver_id?cursor=&count=.
func (a *API) ListBySender(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	receiverID := ps.ByName("receiver_id")
	q := r.URL.Query()

	scan := model.ScanPagination{
		Cursor: q.Get("cursor"),
		Count:  int64(atoiDefault(q.Get("count"), 50)),
	}

	recs, nextCursor, err := a.store.ListBySender(r.Context(), receiverID, scan)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.PaginatedTransactionResponse{NextCursor: nextCursor, Records: recs})
}

// Scan handles GET /transactions?cursor=&count=, a full-keyspace listing
// independent of status or receiver.
func (a *API) Scan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()

	scan := model.ScanPagination{
		Cursor: q.Get("cursor"),
		Count:  int64(atoiDefault(q.Get("count"), 50)),
	}

	recs, nextCursor, err := a.store.Scan(r.Context(), scan)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.PaginatedTransactionResponse{NextCursor: nextCursor, Records: recs})
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status      string `json:"status"`
	KeyPoolSize int    `json:"key_pool_size"`
}

// Health handles GET /health.
func (a *API) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", KeyPoolSize: a.pool.Len()})
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
