// Package search keeps an Elasticsearch index of articles for full-text
// lookup. Documents are keyed by article ID.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-ddd-realworld/internal/application"
	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

type ArticleIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewArticleIndex(es *elasticsearch.Client, index string) *ArticleIndex {
	return &ArticleIndex{ES: es, IndexName: index}
}

type articleDoc struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	Tags        []string  `json:"tags"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (i *ArticleIndex) Index(ctx context.Context, a *entity.Article) error {
	doc := articleDoc{
		ID:          a.ID,
		Slug:        a.Slug,
		Title:       a.Title,
		Description: a.Description,
		Body:        a.Body,
		Tags:        a.Tags,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Author != nil {
		doc.Author = a.Author.Username
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      i.IndexName,
		DocumentID: strconv.FormatInt(a.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index article %d: %s", a.ID, res.Status())
	}
	return nil
}

// Remove deletes the document. A document that was never indexed is not an error.
func (i *ArticleIndex) Remove(ctx context.Context, articleID int64) error {
	req := esapi.DeleteRequest{Index: i.IndexName, DocumentID: strconv.FormatInt(articleID, 10)}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove article %d: %s", articleID, res.Status())
	}
	return nil
}

// Search runs a multi_match query over title, description, body and tags and
// returns the slugs of the hits, best match first.
func (i *ArticleIndex) Search(ctx context.Context, q string, size int) ([]string, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^3", "tags^2", "description", "body"},
			},
		},
		"size":    size,
		"_source": []string{"slug"},
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.ES.Search(
		i.ES.Search.WithContext(c),
		i.ES.Search.WithIndex(i.IndexName),
		i.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search articles: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source struct {
					Slug string `json:"slug"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.Slug)
	}
	return out, nil
}

var _ application.ArticleIndex = (*ArticleIndex)(nil)
