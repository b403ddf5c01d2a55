package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/almashriq/backoffice/modules/sheetimport/domain/importing"
	"github.com/almashriq/backoffice/modules/sheetimport/infrastructure/excel"
	"github.com/almashriq/backoffice/modules/sheetimport/presentation/controllers/dtos"
	"github.com/almashriq/backoffice/modules/sheetimport/services"
	"github.com/almashriq/backoffice/pkg/application"
	"github.com/almashriq/backoffice/pkg/configuration"
)

type ImportAPIController struct {
	app      application.Application
	imports  *services.ImportService
	basePath string
}

func NewImportAPIController(app application.Application) application.Controller {
	return &ImportAPIController{
		app:      app,
		imports:  app.Service(services.ImportService{}).(*services.ImportService),
		basePath: "/quotations/import/api",
	}
}

func (c *ImportAPIController) Key() string {
	return c.basePath
}

func (c *ImportAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/sessions", c.Analyze).Methods(http.MethodPost)
	router.HandleFunc("/sessions/auto", c.AutoImport).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}/preview", c.Preview).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}/confirm", c.Confirm).Methods(http.MethodPost)
}

func (c *ImportAPIController) Analyze(w http.ResponseWriter, r *http.Request) {
	header, rows, ok := c.readUpload(w, r)
	if !ok {
		return
	}

	result, err := c.imports.Analyze(r.Context(), header, rows)
	if err != nil {
		c.writeImportError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (c *ImportAPIController) AutoImport(w http.ResponseWriter, r *http.Request) {
	header, rows, ok := c.readUpload(w, r)
	if !ok {
		return
	}

	result, err := c.imports.AutoImport(r.Context(), header, rows)
	if err != nil {
		c.writeImportError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (c *ImportAPIController) Preview(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := c.sessionID(w, r)
	if !ok {
		return
	}

	var dto dtos.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "IMPORT_INVALID_JSON", "invalid json")
		return
	}
	if err := dto.Validate(); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "IMPORT_INVALID_BODY", err.Error())
		return
	}

	result, err := c.imports.MapAndPreview(r.Context(), sessionID, dto.ToMapping())
	if err != nil {
		c.writeImportError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (c *ImportAPIController) Confirm(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := c.sessionID(w, r)
	if !ok {
		return
	}

	var dto dtos.ConfirmRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			writeAPIError(w, r, http.StatusBadRequest, "IMPORT_INVALID_JSON", "invalid json")
			return
		}
		if err := dto.Validate(); err != nil {
			writeAPIError(w, r, http.StatusBadRequest, "IMPORT_INVALID_BODY", err.Error())
			return
		}
	}

	result, err := c.imports.Confirm(r.Context(), sessionID, dto.ApprovedRows)
	if err != nil {
		c.writeImportError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (c *ImportAPIController) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "IMPORT_INVALID_SESSION_ID", "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

func (c *ImportAPIController) readUpload(w http.ResponseWriter, r *http.Request) ([]string, []importing.SheetRow, bool) {
	conf := configuration.Use()
	if err := r.ParseMultipartForm(conf.MaxUploadSize); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "IMPORT_INVALID_UPLOAD", "invalid multipart upload")
		return nil, nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "IMPORT_MISSING_FILE", "missing file field")
		return nil, nil, false
	}
	defer func() { _ = file.Close() }()

	header, rows, err := excel.ReadWorkbook(file, conf.Import.MaxRows)
	if err != nil {
		if errors.Is(err, excel.ErrTooLarge) {
			writeAPIError(w, r, http.StatusRequestEntityTooLarge, "IMPORT_TOO_LARGE", err.Error())
			return nil, nil, false
		}
		writeAPIError(w, r, http.StatusBadRequest, "IMPORT_UNREADABLE", "could not read workbook")
		return nil, nil, false
	}
	return header, rows, true
}

func (c *ImportAPIController) writeImportError(w http.ResponseWriter, r *http.Request, err error) {
	var mappingErr *services.MappingValidationError

	switch {
	case errors.As(err, &mappingErr):
		writeAPIError(w, r, http.StatusUnprocessableEntity, "IMPORT_MAPPING_INVALID", "column mapping is invalid", mappingErr.Problems...)
	case errors.Is(err, importing.ErrEmptyHeader), errors.Is(err, importing.ErrEmptySheet):
		writeAPIError(w, r, http.StatusBadRequest, "IMPORT_STRUCTURAL", err.Error())
	case errors.Is(err, services.ErrSessionNotFound):
		writeAPIError(w, r, http.StatusNotFound, "IMPORT_SESSION_NOT_FOUND", "import session not found or expired")
	case errors.Is(err, importing.ErrAlreadyConfirmed):
		writeAPIError(w, r, http.StatusConflict, "IMPORT_ALREADY_CONFIRMED", "this batch was already committed")
	case errors.Is(err, importing.ErrNotPreviewed):
		writeAPIError(w, r, http.StatusConflict, "IMPORT_NOT_PREVIEWED", "preview the batch before confirming")
	default:
		c.app.Logger().WithError(err).Error("import request failed")
		writeAPIError(w, r, http.StatusInternalServerError, "IMPORT_INTERNAL", "internal error")
	}
}
