package ingress

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/nearft/relay/internal/apperr"
	"github.com/nearft/relay/internal/model"
)

// Handler returns the httprouter handle for POST /transfer.
func (ing *Ingress) Handler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req model.TransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}

		resp, err := ing.Submit(r.Context(), req)
		if err != nil {
			status := http.StatusInternalServerError
			if apperr.Is(err, apperr.InvalidInput) {
				status = http.StatusBadRequest
			}

			body := model.TransferResponse{Success: false, Message: err.Error()}
			if resp != nil {
				body.TransactionID = resp.TransactionID
			}
			writeJSON(w, status, body)
			return
		}

		writeJSON(w, http.StatusAccepted, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.TransferResponse{Success: false, Message: message})
}
