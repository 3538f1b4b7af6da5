package search

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

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
)

type recorded struct {
	method, path string
	body         map[string]any
}

func fakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*elasticsearch.Client, *[]recorded) {
	t.Helper()
	var mu sync.Mutex
	calls := &[]recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		mu.Lock()
		*calls = append(*calls, rec)
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, calls
}

func TestIndexArticle(t *testing.T) {
	es, calls := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})
	idx := NewArticleIndex(es, "articles")

	a := &entity.Article{ID: 7, Slug: "hello", Title: "Hello", Tags: []string{"go"}, Author: &entity.User{Username: "jake"}}
	require.NoError(t, idx.Index(context.Background(), a))

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPut, call.method)
	assert.Equal(t, "/articles/_doc/7", call.path)
	assert.Equal(t, "hello", call.body["slug"])
	assert.Equal(t, "jake", call.body["author"])
}

func TestRemoveIgnoresMissingDocument(t *testing.T) {
	es, calls := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})
	idx := NewArticleIndex(es, "articles")

	require.NoError(t, idx.Remove(context.Background(), 7))
	require.Len(t, *calls, 1)
	assert.Equal(t, http.MethodDelete, (*calls)[0].method)
	assert.Equal(t, "/articles/_doc/7", (*calls)[0].path)
}

func TestSearchReturnsSlugsInHitOrder(t *testing.T) {
	es, calls := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_source":{"slug":"b"}},{"_source":{"slug":"a"}}]}}`))
	})
	idx := NewArticleIndex(es, "articles")

	slugs, err := idx.Search(context.Background(), "dragons", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, slugs)

	require.Len(t, *calls, 1)
	assert.Equal(t, "/articles/_search", (*calls)[0].path)
	assert.EqualValues(t, 5, (*calls)[0].body["size"])
}

func TestSearchSurfacesErrors(t *testing.T) {
	es, _ := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})
	_, err := NewArticleIndex(es, "articles").Search(context.Background(), "x", 5)
	assert.Error(t, err)
}
