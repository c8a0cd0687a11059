package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/models"
)

type esRequest struct {
	Method string
	Path   string
	Body   string
}

type fakeCluster struct {
	mu       sync.Mutex
	requests []esRequest
	handle   func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, esRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	if f.handle != nil {
		f.handle(w, r)
		return
	}
	_, _ = w.Write([]byte(`{}`))
}

func (f *fakeCluster) last() esRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newIndex(t *testing.T, f *fakeCluster) *ProductIndex {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewProductIndex(es, "products")
}

func TestProductIndex_Index(t *testing.T) {
	f := &fakeCluster{}
	ix := newIndex(t, f)
	cat := "c1"

	err := ix.Index(context.Background(), &models.Product{ID: "p1", Title: "Desk", Description: "oak", Price: 100, CategoryID: &cat})
	require.NoError(t, err)

	req := f.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/products/_doc/p1", req.Path)

	var doc productDoc
	require.NoError(t, json.Unmarshal([]byte(req.Body), &doc))
	assert.Equal(t, productDoc{ID: "p1", Title: "Desk", Description: "oak", Price: 100, CategoryID: "c1"}, doc)
}

func TestProductIndex_Search(t *testing.T) {
	f := &fakeCluster{handle: func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"p2"},{"_id":"p1"}]}}`))
	}}
	ix := newIndex(t, f)

	ids, err := ix.Search(context.Background(), "desk")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, ids)

	req := f.last()
	assert.Equal(t, "/products/_search", req.Path)
	assert.Contains(t, req.Body, `"query":"desk"`)
}

func TestProductIndex_SearchError(t *testing.T) {
	f := &fakeCluster{handle: func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}}
	ix := newIndex(t, f)

	_, err := ix.Search(context.Background(), "desk")
	assert.Error(t, err)
}

func TestProductIndex_DeleteMissingIsNotAnError(t *testing.T) {
	f := &fakeCluster{handle: func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	}}
	ix := newIndex(t, f)

	require.NoError(t, ix.Delete(context.Background(), "p1"))
	assert.Equal(t, http.MethodDelete, f.last().Method)
}

func TestProductIndex_EnsureIndex(t *testing.T) {
	f := &fakeCluster{handle: func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	}}
	ix := newIndex(t, f)

	require.NoError(t, ix.EnsureIndex(context.Background()))
	req := f.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/products", req.Path)
	assert.Contains(t, req.Body, `"title"`)
}
