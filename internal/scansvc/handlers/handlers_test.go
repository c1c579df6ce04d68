package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avvvet/cardscanner-services/internal/scansvc/analyzer"
	"github.com/avvvet/cardscanner-services/internal/scansvc/broker"
	"github.com/avvvet/cardscanner-services/internal/scansvc/service"
	"github.com/avvvet/cardscanner-services/internal/scansvc/store"
	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")

// stubModel answers by front filename: "garbage" files get a non-JSON reply,
// "down" files get a model error.
type stubModel struct{}

func (stubModel) Generate(ctx context.Context, prompt string, images []analyzer.Image) (string, error) {
	name := strings.TrimSuffix(images[0].Filename, ".jpg")
	switch name {
	case "garbage":
		return "I could not identify this card.", nil
	case "down":
		return "", errors.New("model unavailable")
	}
	return fmt.Sprintf("```json\n{\"Player\": %q, \"Year\": \"1989\", \"Estimated_Raw_Value\": \"$15 - $25\"}\n```", name), nil
}

type formFile struct {
	field, name string
	data        []byte
}

func multipartBody(t *testing.T, files []formFile, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newTestHandler() (*Handler, *chi.Mux, *store.InventoryStore) {
	st := store.NewInventoryStore()
	b := broker.NewBroker(nil, "test")
	scanSvc := service.NewScanService(analyzer.NewAnalyzer(stubModel{}), st, b, 1<<20, 2)
	invSvc := service.NewInventoryService(st, b)

	h := NewHandler(scanSvc, invSvc, 1<<20, "scan")
	r := chi.NewRouter()
	return h, r, st
}

func serve(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, Response) {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var rsp Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &rsp)
	}
	return rec, rsp
}

func postScan(t *testing.T, r http.Handler, files []formFile, fields map[string]string) (*httptest.ResponseRecorder, Response) {
	body, ct := multipartBody(t, files, fields)
	req := httptest.NewRequest(http.MethodPost, "/v1/scans", body)
	req.Header.Set("Content-Type", ct)
	return serve(r, req)
}

func TestHealthHandler(t *testing.T) {
	h, r, _ := newTestHandler()
	h.SetRoutes(r)

	rec, rsp := serve(r, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "scan service is running", rsp.Message)
}

func TestScanHandler_Created(t *testing.T) {
	h, r, st := newTestHandler()
	h.SetRoutes(r)

	rec, rsp := postScan(t, r,
		[]formFile{{"front", "griffey.jpg", jpegBytes}, {"back", "griffey_back.jpg", jpegBytes}},
		map[string]string{"hint": "Upper Deck", "location": "Binder 2"},
	)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data, ok := rsp.Data.(map[string]interface{})
	require.True(t, ok)
	record := data["record"].(map[string]interface{})
	assert.Equal(t, "griffey", record["Player"])
	assert.Equal(t, "Binder 2", record["Archive_Location"])
	assert.Equal(t, 1, st.Len())
}

func TestScanHandler_Errors(t *testing.T) {
	h, r, st := newTestHandler()
	h.SetRoutes(r)

	tests := []struct {
		name  string
		files []formFile
		code  int
	}{
		{"missing front", []formFile{{"back", "b.jpg", jpegBytes}}, http.StatusBadRequest},
		{"unsupported type", []formFile{{"front", "card.gif", []byte("GIF89a")}}, http.StatusBadRequest},
		{"unreadable reply", []formFile{{"front", "garbage.jpg", jpegBytes}}, http.StatusBadGateway},
		{"model down", []formFile{{"front", "down.jpg", jpegBytes}}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, rsp := postScan(t, r, tt.files, nil)
			assert.Equal(t, tt.code, rec.Code)
			assert.NotEmpty(t, rsp.Error)
		})
	}

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/scans", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec, _ := serve(r, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	assert.Equal(t, 0, st.Len())
}

func TestScanHandler_TooLarge(t *testing.T) {
	h, r, st := newTestHandler()
	h.SetRoutes(r)

	// one file just over the per-image limit, body still under the request limit
	big := append(append([]byte{}, jpegBytes...), make([]byte, 1<<20)...)
	rec, rsp := postScan(t, r, []formFile{{"front", "big.jpg", big}}, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.NotEmpty(t, rsp.Error)

	// body over the request limit of two images plus form overhead
	huge := append(append([]byte{}, jpegBytes...), make([]byte, 4<<20)...)
	rec, _ = postScan(t, r, []formFile{{"front", "huge.jpg", huge}}, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	assert.Equal(t, 0, st.Len())
}

func TestBatchScanHandler(t *testing.T) {
	h, r, st := newTestHandler()
	h.SetRoutes(r)

	body, ct := multipartBody(t, []formFile{
		{"images", "a.jpg", jpegBytes},
		{"images", "down.jpg", jpegBytes},
		{"images", "c.jpg", jpegBytes},
	}, map[string]string{"pairing": "singles"})
	req := httptest.NewRequest(http.MethodPost, "/v1/scans/batch", body)
	req.Header.Set("Content-Type", ct)

	rec, rsp := serve(r, req)
	require.Equal(t, http.StatusMultiStatus, rec.Code, rec.Body.String())

	data := rsp.Data.(map[string]interface{})
	assert.Len(t, data["scans"], 2)
	assert.Len(t, data["failures"], 1)
	assert.Equal(t, 2, st.Len())

	tooMany := make([]formFile, maxBatchImages+1)
	for i := range tooMany {
		tooMany[i] = formFile{"images", fmt.Sprintf("card%d.jpg", i), jpegBytes}
	}
	body, ct = multipartBody(t, tooMany, nil)
	req = httptest.NewRequest(http.MethodPost, "/v1/scans/batch", body)
	req.Header.Set("Content-Type", ct)
	rec, rsp = serve(r, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rsp.Error, "at most 24 images")
	assert.Equal(t, 2, st.Len())

	body, ct = multipartBody(t, nil, map[string]string{"pairing": "singles"})
	req = httptest.NewRequest(http.MethodPost, "/v1/scans/batch", body)
	req.Header.Set("Content-Type", ct)
	rec, _ = serve(r, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInventoryHandlers(t *testing.T) {
	h, r, st := newTestHandler()
	h.SetRoutes(r)

	for _, name := range []string{"bonds.jpg", "jeter.jpg"} {
		rec, _ := postScan(t, r, []formFile{{"front", name, jpegBytes}}, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	scans := st.List()
	require.Len(t, scans, 2)

	rec, rsp := serve(r, httptest.NewRequest(http.MethodGet, "/v1/inventory", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rsp.Data, 2)

	rec, rsp = serve(r, httptest.NewRequest(http.MethodGet, "/v1/inventory/"+scans[1].ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, scans[1].ID, rsp.Data.(map[string]interface{})["id"])

	rec, _ = serve(r, httptest.NewRequest(http.MethodGet, "/v1/inventory/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, rsp = serve(r, httptest.NewRequest(http.MethodGet, "/v1/inventory/summary", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	summary := rsp.Data.(map[string]interface{})
	assert.EqualValues(t, 2, summary["count"])
	assert.Equal(t, "40", summary["total_mid"])

	rec, _ = serve(r, httptest.NewRequest(http.MethodDelete, "/v1/inventory/"+scans[0].ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, st.Len())

	rec, _ = serve(r, httptest.NewRequest(http.MethodDelete, "/v1/inventory/"+scans[0].ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, rsp = serve(r, httptest.NewRequest(http.MethodDelete, "/v1/inventory", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, rsp.Data.(map[string]interface{})["removed"])
	assert.Equal(t, 0, st.Len())
}

func TestExportImportHandlers(t *testing.T) {
	h, r, st := newTestHandler()
	h.SetRoutes(r)

	rec, _ := postScan(t, r, []formFile{{"front", "ripken.jpg", jpegBytes}}, map[string]string{"location": "Box 1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = serve(r, httptest.NewRequest(http.MethodGet, "/v1/inventory/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "inventory.csv")
	exported := rec.Body.Bytes()
	assert.True(t, strings.HasPrefix(string(exported), "Player,Team,Year,Set,Card_Number,"))
	assert.Contains(t, string(exported), "ripken")

	importCSV := func(mode string, data []byte) (*httptest.ResponseRecorder, Response) {
		body, ct := multipartBody(t, []formFile{{"file", "inventory.csv", data}}, nil)
		req := httptest.NewRequest(http.MethodPost, "/v1/inventory/import?mode="+mode, body)
		req.Header.Set("Content-Type", ct)
		return serve(r, req)
	}

	rec, rsp := importCSV("append", exported)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, rsp.Data.(map[string]interface{})["imported"])
	assert.Equal(t, 2, st.Len())

	rec, _ = importCSV("replace", exported)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, st.Len())
	assert.Equal(t, "Box 1", st.List()[0].Record.ArchiveLocation)

	rec, _ = importCSV("merge", exported)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = importCSV("replace", []byte("foo,bar\n1,2\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, st.Len())
}

func TestPageHandlers(t *testing.T) {
	h, r, st := newTestHandler()
	h.SetRoutes(r)

	rec, _ := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No cards scanned yet.")

	body, ct := multipartBody(t, []formFile{{"front", "mantle.jpg", jpegBytes}}, map[string]string{"hint": "Topps"})
	req := httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", ct)
	rec, _ = serve(r, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec, _ = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	page := rec.Body.String()
	assert.Contains(t, page, "1989 mantle")
	assert.Contains(t, page, "$15 - $25 (mid $20.00)")

	body, ct = multipartBody(t, []formFile{{"front", "garbage.jpg", jpegBytes}}, nil)
	req = httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", ct)
	rec, _ = serve(r, req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Analysis failed")

	body, ct = multipartBody(t, []formFile{{"front", "down.jpg", jpegBytes}}, nil)
	req = httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", ct)
	rec, _ = serve(r, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Analysis failed: Internal Server Error")
	assert.NotContains(t, rec.Body.String(), "model unavailable")

	rec, _ = serve(r, httptest.NewRequest(http.MethodPost, "/clear", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 0, st.Len())
}

func TestAuth(t *testing.T) {
	h, r, st := newTestHandler()
	h.InitAuth("test-secret")
	h.SetRoutes(r)

	_, err := h.inventoryService.Import(strings.NewReader("Player\nPrivate Player\n"), service.ImportReplace)
	require.NoError(t, err)

	rec, _ := serve(r, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = serve(r, httptest.NewRequest(http.MethodGet, "/v1/inventory", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, token, err := h.tokenAuth.Encode(map[string]interface{}{"service": "test"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/inventory", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec, _ = serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/inventory", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	rec, _ = serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// the page and its form posts are behind the same token
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/"},
		{http.MethodGet, "/export"},
		{http.MethodPost, "/clear"},
		{http.MethodPost, "/scan"},
		{http.MethodPost, "/import"},
	} {
		rec, _ = serve(r, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
		assert.NotContains(t, rec.Body.String(), "Private Player", tc.path)
	}
	assert.Equal(t, 1, st.Len())

	req = httptest.NewRequest(http.MethodGet, "/export", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	rec, _ = serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Private Player")

	req = httptest.NewRequest(http.MethodPost, "/clear", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	rec, _ = serve(r, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 0, st.Len())
}
