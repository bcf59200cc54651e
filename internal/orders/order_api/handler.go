package order_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cinema-api/internal/errs"
	"cinema-api/internal/logger"
	"cinema-api/internal/models"
)

type OrderService interface {
	PlaceOrder(req models.OrderRequest) (*models.OrderResponse, error)
	GetOrder(id int64) (*models.OrderResponse, error)
}

type Handler struct {
	OrderService OrderService
	Logger       *logger.Logger
}

func NewHandler(service OrderService, log *logger.Logger) *Handler {
	return &Handler{OrderService: service, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.PlaceOrder)
		r.Get("/{orderId}", h.GetOrder)
	})
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warn("API", fmt.Sprintf("PlaceOrder: bad body: %v", err))
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	response, err := h.OrderService.PlaceOrder(req)
	if err != nil {
		var verr *errs.ValidationError
		if errors.As(err, &verr) {
			h.Logger.Warn("API", fmt.Sprintf("PlaceOrder: %v", verr))
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": verr.Fields})
			return
		}
		h.Logger.Error("API", fmt.Sprintf("PlaceOrder: %v", err))
		writeError(w, http.StatusInternalServerError, "failed to place order")
		return
	}

	h.Logger.Info("API", fmt.Sprintf("PlaceOrder: order %s created", response.Reference))
	writeJSON(w, http.StatusCreated, response)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}

	response, err := h.OrderService.GetOrder(id)
	if err != nil {
		if errors.Is(err, errs.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		h.Logger.Error("API", fmt.Sprintf("GetOrder: %v", err))
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
