package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/almashriq/backoffice/modules/catalog/domain/aggregates/item"
	"github.com/almashriq/backoffice/modules/quotation/domain/aggregates/quotation"
	"github.com/almashriq/backoffice/modules/sheetimport/domain/importing"
	"github.com/almashriq/backoffice/modules/sheetimport/infrastructure/scoring"
	"github.com/almashriq/backoffice/modules/sheetimport/presentation/controllers"
	"github.com/almashriq/backoffice/modules/sheetimport/presentation/controllers/dtos"
	"github.com/almashriq/backoffice/modules/sheetimport/services"
	"github.com/almashriq/backoffice/pkg/application"
	"github.com/almashriq/backoffice/pkg/eventbus"
)

type emptyItemRepository struct{}

func (emptyItemRepository) Count(context.Context) (int64, error)        { return 0, nil }
func (emptyItemRepository) GetAll(context.Context) ([]item.Item, error) { return nil, nil }
func (emptyItemRepository) GetPaginated(context.Context, *item.FindParams) ([]item.Item, int64, error) {
	return nil, 0, nil
}
func (emptyItemRepository) GetByID(context.Context, uuid.UUID) (item.Item, error) {
	return item.Item{}, item.ErrNotFound
}
func (emptyItemRepository) GetByPartNumber(context.Context, string) (item.Item, error) {
	return item.Item{}, item.ErrNotFound
}
func (emptyItemRepository) Create(_ context.Context, itm item.Item) (item.Item, error) {
	return itm, nil
}

type emptyQuotationRepository struct{}

func (emptyQuotationRepository) GetPaginated(context.Context, *quotation.FindParams) ([]quotation.Quotation, int64, error) {
	return nil, 0, nil
}
func (emptyQuotationRepository) GetByID(context.Context, uuid.UUID) (quotation.Quotation, error) {
	return quotation.Quotation{}, quotation.ErrNotFound
}
func (emptyQuotationRepository) Create(_ context.Context, q quotation.Quotation) (quotation.Quotation, error) {
	return q, nil
}

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(log),
		Logger:   log,
	})
	app.RegisterServices(services.NewImportService(services.ImportServiceOptions{
		Items:      emptyItemRepository{},
		Quotations: emptyQuotationRepository{},
		Scorer:     scoring.NewLocal(),
		Store:      services.NewSessionStore(30 * time.Minute),
		Publisher:  app.EventPublisher(),
		Logger:     log,
		Transform:  importing.TransformConfig{PlaceholderClient: "unspecified"},
		Reconcile: importing.ReconcilerConfig{
			DuplicateCutoff: 0.72,
			AmbiguousCutoff: 0.85,
			MaxCandidates:   10,
		},
	}))

	router := mux.NewRouter()
	controllers.NewImportAPIController(app).Register(router)
	return router
}

func uploadRequest(t *testing.T, target string, rows [][]interface{}) *http.Request {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "upload.xlsx")
	require.NoError(t, err)
	require.NoError(t, f.Write(part))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

var uploadRows = [][]interface{}{
	{"Client", "Description", "Qty"},
	{"Aramco", "Water pump 2HP", 3},
}

func TestImportAPI_AnalyzeUpload(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/quotations/import/api/sessions", uploadRows))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result services.AnalyzeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEqual(t, uuid.Nil, result.SessionID)
	assert.Equal(t, "Client", result.ProposedMapping["clientName"])
	assert.NotEmpty(t, result.DetectedColumns)
	assert.NotEmpty(t, result.Fields)
}

func TestImportAPI_AnalyzeMissingFile(t *testing.T) {
	router := newTestRouter(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("note", "no file here"))
	require.NoError(t, writer.Close())
	req := httptest.NewRequest(http.MethodPost, "/quotations/import/api/sessions", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var apiErr dtos.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "IMPORT_MISSING_FILE", apiErr.Code)
	assert.NotEmpty(t, apiErr.Meta["request_id"])
}

func TestImportAPI_PreviewAndConfirm(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/quotations/import/api/sessions", [][]interface{}{
		{"Client", "Description", "Qty"},
		// blank description keeps the row out of the commit
		{"Aramco", "", 3},
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var analyzed services.AnalyzeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analyzed))

	previewURL := fmt.Sprintf("/quotations/import/api/sessions/%s/preview", analyzed.SessionID)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(t, previewURL, dtos.PreviewRequest{Mapping: analyzed.ProposedMapping}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var preview services.PreviewResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preview))
	assert.Equal(t, 1, preview.Summary.InvalidCount)

	confirmURL := fmt.Sprintf("/quotations/import/api/sessions/%s/confirm", analyzed.SessionID)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, confirmURL, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var confirmed services.ConfirmResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &confirmed))
	assert.Equal(t, 0, confirmed.InsertedCount)
	assert.Equal(t, 1, confirmed.SkippedCount)

	// a second confirm of the same session is rejected
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, confirmURL, nil))
	require.Equal(t, http.StatusConflict, rec.Code)
	var apiErr dtos.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "IMPORT_ALREADY_CONFIRMED", apiErr.Code)
}

func TestImportAPI_PreviewUnknownSession(t *testing.T) {
	router := newTestRouter(t)

	url := fmt.Sprintf("/quotations/import/api/sessions/%s/preview", uuid.New())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(t, url, dtos.PreviewRequest{Mapping: map[string]string{"clientName": "Client"}}))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var apiErr dtos.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "IMPORT_SESSION_NOT_FOUND", apiErr.Code)
}

func TestImportAPI_PreviewInvalidMapping(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/quotations/import/api/sessions", uploadRows))
	require.Equal(t, http.StatusOK, rec.Code)
	var analyzed services.AnalyzeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analyzed))

	url := fmt.Sprintf("/quotations/import/api/sessions/%s/preview", analyzed.SessionID)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(t, url, dtos.PreviewRequest{Mapping: map[string]string{"clientName": "Client"}}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var apiErr dtos.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "IMPORT_MAPPING_INVALID", apiErr.Code)
	assert.NotEmpty(t, apiErr.Details)
}

func TestImportAPI_InvalidSessionID(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(t, "/quotations/import/api/sessions/not-a-uuid/preview", dtos.PreviewRequest{
		Mapping: map[string]string{"clientName": "Client"},
	}))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var apiErr dtos.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "IMPORT_INVALID_SESSION_ID", apiErr.Code)
}
