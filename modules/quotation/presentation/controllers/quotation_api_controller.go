package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/almashriq/backoffice/modules/quotation/domain/aggregates/quotation"
	"github.com/almashriq/backoffice/modules/quotation/presentation/controllers/dtos"
	"github.com/almashriq/backoffice/modules/quotation/services"
	"github.com/almashriq/backoffice/pkg/application"
)

const defaultPageSize = 50

type QuotationAPIController struct {
	app        application.Application
	quotations *services.QuotationService
	basePath   string
}

func NewQuotationAPIController(app application.Application) application.Controller {
	return &QuotationAPIController{
		app:        app,
		quotations: app.Service(services.QuotationService{}).(*services.QuotationService),
		basePath:   "/quotations/api",
	}
}

func (c *QuotationAPIController) Key() string {
	return c.basePath
}

func (c *QuotationAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)
}

func (c *QuotationAPIController) List(w http.ResponseWriter, r *http.Request) {
	params := &quotation.FindParams{
		Q:      r.URL.Query().Get("q"),
		Limit:  queryInt(r, "limit", defaultPageSize),
		Offset: queryInt(r, "offset", 0),
	}

	quotations, total, err := c.quotations.GetPaginated(r.Context(), params)
	if err != nil {
		c.app.Logger().WithError(err).Error("quotation list failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	c.writeJSON(w, http.StatusOK, dtos.NewQuotationListResponse(quotations, total))
}

func (c *QuotationAPIController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid quotation id", http.StatusBadRequest)
		return
	}

	q, err := c.quotations.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, quotation.ErrNotFound) {
			http.Error(w, "quotation not found", http.StatusNotFound)
			return
		}
		c.app.Logger().WithError(err).Error("quotation get failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	c.writeJSON(w, http.StatusOK, dtos.NewQuotationResponse(q))
}

func (c *QuotationAPIController) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		c.app.Logger().WithError(err).Error("encode response")
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
