package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nhiennh/supply-chain-analytics/internal/cache"
	"github.com/nhiennh/supply-chain-analytics/internal/currency"
	"github.com/nhiennh/supply-chain-analytics/internal/dataset"
	"github.com/nhiennh/supply-chain-analytics/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newUploadRouter(t *testing.T) *gin.Engine {
	t.Helper()
	dir := t.TempDir()
	loader := dataset.NewLoader(dir, currency.NewConverter(5200), 0)
	provider := service.NewDatasetProvider(loader)
	upload := service.NewUploadService(dir, provider, cache.NewMemoryCache(), nil)
	return NewRouter(&Services{Upload: upload}, nil)
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	router := NewRouter(nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestUploadAcceptsCSV(t *testing.T) {
	router := newUploadRouter(t)

	body, contentType := multipartUpload(t, "df_Orders.csv", "order_id\no1\n")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestUploadRejectsNonCSV(t *testing.T) {
	router := newUploadRouter(t)

	body, contentType := multipartUpload(t, "notes.txt", "hello")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body = %s", rec.Code, rec.Body.String())
	}
}

func TestUploadRequiresFormFile(t *testing.T) {
	router := newUploadRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", strings.NewReader("raw"))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, allowAll := normalizeAllowedOrigins([]string{"http://a.test, http://b.test", " "})
	if allowAll {
		t.Error("allowAll set without a wildcard")
	}
	want := []string{"http://a.test", "http://b.test"}
	if !reflect.DeepEqual(origins, want) {
		t.Errorf("origins = %v, want %v", origins, want)
	}

	if _, allowAll := normalizeAllowedOrigins([]string{"*"}); !allowAll {
		t.Error("wildcard origin must enable allowAll")
	}
}
