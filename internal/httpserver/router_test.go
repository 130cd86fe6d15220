package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Ayoublby/full-store/internal/domain"
	"github.com/Ayoublby/full-store/internal/imagestore"
	productrepo "github.com/Ayoublby/full-store/internal/repository/product"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Total   *int            `json:"total"`
	Error   string          `json:"error"`
}

func newTestRouter(t *testing.T) (*gin.Engine, productrepo.Repository, *imagestore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	images, err := imagestore.New(filepath.Join(dir, "uploaded"), zerolog.Nop())
	if err != nil {
		t.Fatalf("new image store: %v", err)
	}
	repo, err := productrepo.NewFile(
		filepath.Join(dir, "products.json"),
		filepath.Join(dir, "products-data.js"),
		images,
		zerolog.Nop(),
	)
	if err != nil {
		t.Fatalf("new product repo: %v", err)
	}

	router := buildRouter(zerolog.Nop(), Deps{Products: repo, Images: images})
	return router, repo, images
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, resp
}

func seedProduct(t *testing.T, repo productrepo.Repository, p domain.Product) *domain.Product {
	t.Helper()
	created, err := repo.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return created
}

func TestListProducts(t *testing.T) {
	router, repo, _ := newTestRouter(t)
	seedProduct(t, repo, domain.Product{Name: "Charger", Price: 70, Category: domain.CategoryElectronics})
	seedProduct(t, repo, domain.Product{Name: "Wrench", Price: 35, Category: domain.CategoryTools})

	rec, resp := doJSON(t, router, http.MethodGet, "/api/products", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !resp.Success || resp.Total == nil || *resp.Total != 2 {
		t.Fatalf("unexpected envelope %+v", resp)
	}
	var products []domain.Product
	if err := json.Unmarshal(resp.Data, &products); err != nil {
		t.Fatalf("unmarshal products: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
}

func TestGetProduct(t *testing.T) {
	router, repo, _ := newTestRouter(t)
	created := seedProduct(t, repo, domain.Product{Name: "Charger", Price: 70, Category: domain.CategoryElectronics})

	rec, resp := doJSON(t, router, http.MethodGet, "/api/products/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got domain.Product
	if err := json.Unmarshal(resp.Data, &got); err != nil {
		t.Fatalf("unmarshal product: %v", err)
	}
	if got.ID != created.ID || got.Name != "Charger" {
		t.Fatalf("unexpected product %+v", got)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/products/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp.Success || resp.Message != "product not found" {
		t.Fatalf("unexpected envelope %+v", resp)
	}
}

func TestCreateProduct(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec, resp := doJSON(t, router, http.MethodPost, "/api/products", map[string]interface{}{
		"name":     "Drill",
		"price":    120.0,
		"category": "tools",
		"inStock":  true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !resp.Success || resp.Message != "product added" {
		t.Fatalf("unexpected envelope %+v", resp)
	}
	var created domain.Product
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("unmarshal product: %v", err)
	}
	if !strings.HasPrefix(created.ID, "product-") {
		t.Fatalf("expected generated id, got %q", created.ID)
	}
	if created.AddedDate == nil {
		t.Fatalf("expected addedDate to be stamped")
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	router, _, _ := newTestRouter(t)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing name", map[string]interface{}{"price": 10.0, "category": "tools"}},
		{"blank name", map[string]interface{}{"name": "   ", "price": 10.0}},
		{"negative price", map[string]interface{}{"name": "Drill", "price": -1.0}},
		{"unknown category", map[string]interface{}{"name": "Drill", "price": 10.0, "category": "furniture"}},
	}
	for _, tc := range cases {
		rec, resp := doJSON(t, router, http.MethodPost, "/api/products", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
		if resp.Success {
			t.Fatalf("%s: expected failure envelope", tc.name)
		}
	}
}

func TestCreateProduct_MalformedBody(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateProduct(t *testing.T) {
	router, repo, _ := newTestRouter(t)
	created := seedProduct(t, repo, domain.Product{Name: "Charger", Price: 70, Category: domain.CategoryElectronics, InStock: true})

	rec, resp := doJSON(t, router, http.MethodPut, "/api/products/"+created.ID, map[string]interface{}{
		"price":   65.0,
		"inStock": false,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var updated domain.Product
	if err := json.Unmarshal(resp.Data, &updated); err != nil {
		t.Fatalf("unmarshal product: %v", err)
	}
	if updated.Price != 65 || updated.InStock {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Name != "Charger" {
		t.Fatalf("unpatched field changed: %+v", updated)
	}
	if updated.UpdatedDate == nil {
		t.Fatalf("expected updatedDate to be stamped")
	}
}

func TestUpdateProduct_NotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPut, "/api/products/missing", map[string]interface{}{"price": 1.0})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteProduct(t *testing.T) {
	router, repo, _ := newTestRouter(t)
	created := seedProduct(t, repo, domain.Product{Name: "Charger", Price: 70, Category: domain.CategoryElectronics})

	rec, resp := doJSON(t, router, http.MethodDelete, "/api/products/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp.Message != "product deleted" {
		t.Fatalf("unexpected envelope %+v", resp)
	}

	rec, _ = doJSON(t, router, http.MethodDelete, "/api/products/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestBulkUpdateProducts(t *testing.T) {
	router, repo, _ := newTestRouter(t)
	a := seedProduct(t, repo, domain.Product{Name: "A", Category: domain.CategoryTools, InStock: true})
	b := seedProduct(t, repo, domain.Product{Name: "B", Category: domain.CategoryTools, InStock: true})
	keep := seedProduct(t, repo, domain.Product{Name: "C", Category: domain.CategoryTools, InStock: true})

	rec, resp := doJSON(t, router, http.MethodPost, "/api/products/bulk-update", map[string]interface{}{
		"ids":     []string{a.ID, b.ID},
		"updates": map[string]interface{}{"inStock": false},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var data struct {
		UpdatedCount int `json:"updatedCount"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if data.UpdatedCount != 2 {
		t.Fatalf("expected 2 updated, got %d", data.UpdatedCount)
	}

	untouched, err := repo.GetByID(context.Background(), keep.ID)
	if err != nil {
		t.Fatalf("get untouched: %v", err)
	}
	if !untouched.InStock {
		t.Fatalf("untouched product was modified")
	}
}

func TestBulkUpdateProducts_EmptySelection(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec, resp := doJSON(t, router, http.MethodPost, "/api/products/bulk-update", map[string]interface{}{
		"ids":     []string{},
		"updates": map[string]interface{}{"inStock": false},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp.Message != "no products selected for update" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestBulkDeleteProducts(t *testing.T) {
	router, repo, _ := newTestRouter(t)
	a := seedProduct(t, repo, domain.Product{Name: "A", Category: domain.CategoryTools})
	b := seedProduct(t, repo, domain.Product{Name: "B", Category: domain.CategoryTools})
	keep := seedProduct(t, repo, domain.Product{Name: "C", Category: domain.CategoryTools})

	rec, resp := doJSON(t, router, http.MethodDelete, "/api/products/bulk-delete", map[string]interface{}{
		"ids": []string{a.ID, b.ID},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var data struct {
		DeletedCount int `json:"deletedCount"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if data.DeletedCount != 2 {
		t.Fatalf("expected 2 deleted, got %d", data.DeletedCount)
	}

	remaining, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list remaining: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != keep.ID {
		t.Fatalf("unexpected remaining products %+v", remaining)
	}
}

func TestStats(t *testing.T) {
	router, repo, _ := newTestRouter(t)
	seedProduct(t, repo, domain.Product{Name: "A", Category: domain.CategoryTools, InStock: true, Featured: true})
	seedProduct(t, repo, domain.Product{Name: "B", Category: domain.CategoryClothes})

	rec, resp := doJSON(t, router, http.MethodGet, "/api/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var stats domain.Stats
	if err := json.Unmarshal(resp.Data, &stats); err != nil {
		t.Fatalf("unmarshal stats: %v", err)
	}
	if stats.Total != 2 || stats.InStock != 1 || stats.Featured != 1 || stats.Categories != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestUploadImages(t *testing.T) {
	router, _, images := newTestRouter(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="images"; filename="photo.jpg"`)
	h.Set("Content-Type", "image/jpeg")
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte("jpeg-bytes")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload-images", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	var paths []string
	if err := json.Unmarshal(resp.Data, &paths); err != nil {
		t.Fatalf("unmarshal paths: %v", err)
	}
	if len(paths) != 1 || !strings.HasPrefix(paths[0], imagestore.PublicPrefix) {
		t.Fatalf("unexpected paths %+v", paths)
	}

	// The stored file is served back through the static route.
	getReq := httptest.NewRequest(http.MethodGet, paths[0], nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	if getRec.Code != http.StatusOK || getRec.Body.String() != "jpeg-bytes" {
		t.Fatalf("expected stored image back, got %d %q", getRec.Code, getRec.Body.String())
	}
	if _, err := os.Stat(filepath.Join(images.Dir(), filepath.Base(paths[0]))); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
}

func TestUploadImages_RejectsBadFile(t *testing.T) {
	router, _, images := newTestRouter(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="images"; filename="script.exe"`)
	h.Set("Content-Type", "application/octet-stream")
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	fmt.Fprint(part, "MZ")
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload-images", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
	entries, err := os.ReadDir(images.Dir())
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected upload left files behind: %v", entries)
	}
}

func TestDeleteProductRemovesUploadedImages(t *testing.T) {
	router, repo, images := newTestRouter(t)

	name := "1-aaaa.jpg"
	if err := os.WriteFile(filepath.Join(images.Dir(), name), []byte("x"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	created := seedProduct(t, repo, domain.Product{
		Name:     "Charger",
		Category: domain.CategoryElectronics,
		Images:   []string{imagestore.PublicPrefix + name},
	})

	rec, _ := doJSON(t, router, http.MethodDelete, "/api/products/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, err := os.Stat(filepath.Join(images.Dir(), name)); !os.IsNotExist(err) {
		t.Fatalf("expected image removed, stat err=%v", err)
	}
}

func TestHealthAndReadiness(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}
	rec, _ = doJSON(t, router, http.MethodGet, "/readyz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz: expected 200, got %d", rec.Code)
	}
}

func TestReadiness_Unavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := buildRouter(zerolog.Nop(), Deps{})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestSiteDirServesStorefront(t *testing.T) {
	gin.SetMode(gin.TestMode)
	site := t.TempDir()
	if err := os.WriteFile(filepath.Join(site, "index.html"), []byte("<html>store</html>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	router := buildRouter(zerolog.Nop(), Deps{SiteDir: site})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "store") {
		t.Fatalf("expected storefront page, got %d %q", rec.Code, rec.Body.String())
	}
}
