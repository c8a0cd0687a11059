package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"storefront_back_end/internal/models"
)

const searchSize = 100

// ProductIndex maintient l'index Elasticsearch des produits (titre, description).
type ProductIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewProductIndex(es *elasticsearch.Client, index string) *ProductIndex {
	return &ProductIndex{es: es, index: index}
}

type productDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	CategoryID  string `json:"categoryId,omitempty"`
}

var indexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "title":       {"type": "text"},
      "description": {"type": "text"},
      "price":       {"type": "long"},
      "categoryId":  {"type": "keyword"}
    }
  }
}`

// EnsureIndex crée l'index s'il n'existe pas encore.
func (ix *ProductIndex) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{ix.index}}.Do(ctx, ix.es)
	if err != nil {
		return fmt.Errorf("vérification index %s: %w", ix.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = esapi.IndicesCreateRequest{
		Index: ix.index,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, ix.es)
	if err != nil {
		return fmt.Errorf("création index %s: %w", ix.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("création index %s: %s", ix.index, res.String())
	}
	return nil
}

func (ix *ProductIndex) Index(ctx context.Context, p *models.Product) error {
	doc := productDoc{ID: p.ID, Title: p.Title, Description: p.Description, Price: p.Price}
	if p.CategoryID != nil {
		doc.CategoryID = *p.CategoryID
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := esapi.IndexRequest{
		Index:      ix.index,
		DocumentID: p.ID,
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}.Do(ctx, ix.es)
	if err != nil {
		return fmt.Errorf("indexation produit %s: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("indexation produit %s: %s", p.ID, res.String())
	}
	return nil
}

func (ix *ProductIndex) Delete(ctx context.Context, id string) error {
	res, err := esapi.DeleteRequest{Index: ix.index, DocumentID: id, Refresh: "true"}.Do(ctx, ix.es)
	if err != nil {
		return fmt.Errorf("suppression produit %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("suppression produit %s: %s", id, res.String())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search renvoie les ids des produits correspondant à query, par pertinence.
func (ix *ProductIndex) Search(ctx context.Context, query string) ([]string, error) {
	var buf bytes.Buffer
	q := map[string]any{
		"size":    searchSize,
		"_source": false,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("encodage requête: %w", err)
	}

	res, err := esapi.SearchRequest{Index: []string{ix.index}, Body: &buf}.Do(ctx, ix.es)
	if err != nil {
		return nil, fmt.Errorf("requête elastic: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("requête elastic: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("décodage réponse elastic: %w", err)
	}
	ids := make([]string, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
