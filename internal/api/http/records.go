package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/healthbridge/healthbridge/internal/api/respond"
	"github.com/healthbridge/healthbridge/internal/model"
	"github.com/healthbridge/healthbridge/internal/services"
)

// RecordHandler handles record-related HTTP requests (thin transport layer).
type RecordHandler struct {
	ingest       *services.IngestService
	maxBatchSize int
}

// NewRecordHandler creates a new record handler.
func NewRecordHandler(ingest *services.IngestService, maxBatchSize int) *RecordHandler {
	return &RecordHandler{ingest: ingest, maxBatchSize: maxBatchSize}
}

// BatchWrite handles POST /v1/records/batch. Partial success is a 200 with
// mixed per-item statuses; only a malformed body or an oversized batch is a
// 400, and only a store-level error is a 500.
func (h *RecordHandler) BatchWrite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Records []model.Envelope `json:"records"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if len(req.Records) == 0 {
		respond.WriteBadRequest(w, "records is required")
		return
	}
	if h.maxBatchSize > 0 && len(req.Records) > h.maxBatchSize {
		respond.WriteBadRequest(w, "batch exceeds maximum size")
		return
	}

	result, err := h.ingest.WriteBatch(r.Context(), req.Records)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}

	respond.WriteJSON(w, http.StatusOK, result)
}

// ListRecords handles GET /v1/records?type=&limit=.
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := model.ListRecordsRequest{Type: query.Get("type")}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			req.Limit = limit
		}
	}

	records, err := h.ingest.ListRecords(r.Context(), req)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}

	if records == nil {
		records = []*model.StoredRecord{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// CheckType handles GET /v1/types/{typeId}. The reason string is diagnostic
// only; callers must not branch on its contents.
func (h *RecordHandler) CheckType(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	typeID := vars["typeId"]
	if typeID == "" {
		respond.WriteBadRequest(w, "typeId is required")
		return
	}
	respond.WriteJSON(w, http.StatusOK, h.ingest.CheckType(typeID))
}

// ListTypes handles GET /v1/types.
func (h *RecordHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types := h.ingest.Types()
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"types": types,
		"count": len(types),
	})
}
