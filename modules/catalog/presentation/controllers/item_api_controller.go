package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/almashriq/backoffice/modules/catalog/domain/aggregates/item"
	"github.com/almashriq/backoffice/modules/catalog/presentation/controllers/dtos"
	"github.com/almashriq/backoffice/modules/catalog/services"
	"github.com/almashriq/backoffice/pkg/application"
)

const defaultPageSize = 50

type ItemAPIController struct {
	app      application.Application
	items    *services.ItemService
	basePath string
}

func NewItemAPIController(app application.Application) application.Controller {
	return &ItemAPIController{
		app:      app,
		items:    app.Service(services.ItemService{}).(*services.ItemService),
		basePath: "/catalog/api/items",
	}
}

func (c *ItemAPIController) Key() string {
	return c.basePath
}

func (c *ItemAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)
}

func (c *ItemAPIController) List(w http.ResponseWriter, r *http.Request) {
	params := &item.FindParams{
		Q:      r.URL.Query().Get("q"),
		Limit:  queryInt(r, "limit", defaultPageSize),
		Offset: queryInt(r, "offset", 0),
	}

	items, total, err := c.items.GetPaginated(r.Context(), params)
	if err != nil {
		c.app.Logger().WithError(err).Error("catalog list failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	c.writeJSON(w, http.StatusOK, dtos.NewItemListResponse(items, total))
}

func (c *ItemAPIController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	itm, err := c.items.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		c.app.Logger().WithError(err).Error("catalog get failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	c.writeJSON(w, http.StatusOK, dtos.NewItemResponse(itm))
}

func (c *ItemAPIController) writeJSON(w http.ResponseWriter, status int, payload any) {
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
