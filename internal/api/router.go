package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the full HTTP surface: admission, query endpoints,
// health, and Prometheus metrics. transferHandler is the admission
// endpoint built by the ingress package, wired in here rather than
// imported, since ingress must not depend on api and api must not depend
// on ingress.
//
// Query routes:
//   - GET /transaction/:id               a single record by id
//   - GET /transactions                  cursor scan of every record
//   - GET /transactions/status/:status   records filtered by status
//   - GET /transactions/:receiver_id     records sent to one receiver
//
// httprouter does not accept a literal path segment and a named parameter
// at the same depth, so the status route is registered as
// /transactions/:receiver_id/:status and served only when the first
// segment is the literal "status"; any other two-segment path under
// /transactions answers 404.
func NewRouter(a *API, transferHandler httprouter.Handle, reg *prometheus.Registry) *httprouter.Router {
	r := httprouter.New()

	r.POST("/transfer", transferHandler)
	r.GET("/transaction/:id", a.GetTransaction)
	r.GET("/transactions", a.Scan)
	r.GET("/transactions/:receiver_id", a.ListBySender)
	r.GET("/transactions/:receiver_id/:status", func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		if ps.ByName("receiver_id") != "status" {
			http.NotFound(w, req)
			return
		}
		a.ListByStatus(w, req, ps)
	})
	r.GET("/health", a.Health)
	r.Handler("GET", "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return r
}
