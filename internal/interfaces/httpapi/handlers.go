package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kingjoe/internal/bootstrap/logging"
	"kingjoe/internal/errs"
	"kingjoe/internal/usecase/inspection"
)

type handler struct {
	svc LifecycleService
}

type createInspectionRequest struct {
	OrderCode string `json:"order_code"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type updateStatusResponse struct {
	ModificationTimestamp string `json:"modification_timestamp"`
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) getInspection(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.GetOrder(r.Context(), chi.URLParam(r, "order"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewOrderResponse(order))
}

func (h *handler) getProductionOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.GetProductionOrder(r.Context(), chi.URLParam(r, "order"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewOrderResponse(order))
}

func (h *handler) createInspection(w http.ResponseWriter, r *http.Request) {
	var req createInspectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	order, err := h.svc.CreateInspection(r.Context(), inspection.CreateInspectionInput{
		OrderCode: req.OrderCode,
		UserID:    UserIDFromContext(r.Context()),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, NewOrderResponse(order))
}

func (h *handler) deleteInspection(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.DeleteInspection(r.Context(), chi.URLParam(r, "order"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewOrderResponse(order))
}

func (h *handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	stamp, err := h.svc.UpdateStatus(r.Context(), inspection.UpdateStatusInput{
		OrderCode: chi.URLParam(r, "order"),
		Status:    req.Status,
		UserID:    UserIDFromContext(r.Context()),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updateStatusResponse{ModificationTimestamp: stamp})
}

var errInvalidBody = errs.New(errs.Validation, "request body must be a JSON object")

// decodeBody treats an empty body as an empty object so the usecase
// reports the missing field.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errs.Wrapf(errInvalidBody, "decode: %v", err)
}

func statusOf(err error) int {
	switch errs.KindOf(err) {
	case errs.NotFound:
		return http.StatusNotFound
	case errs.Validation:
		return http.StatusBadRequest
	case errs.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	attrs := []slog.Attr{
		slog.Int("status", status),
		slog.Any("err", errs.Loggable(err)),
	}
	if status >= http.StatusInternalServerError {
		logging.Error(r.Context(), "request failed", attrs...)
	} else {
		logging.Info(r.Context(), "request rejected", attrs...)
	}
	writeDetail(w, status, err.Error())
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func writeDetail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, detailResponse{Detail: message})
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
