package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"medimarket/config"
	"medimarket/internal/domain/entity"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func NewClient(cfg config.SearchConfig, log *logrus.Logger) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to reach Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch info: %s", res.Status())
	}

	log.Info("Successfully connected to Elasticsearch")
	return client, nil
}

type medicineDocument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
}

func toDocument(m *entity.Medicine) medicineDocument {
	return medicineDocument{Name: m.Name, Description: m.Description, Category: m.Category}
}

// MedicineIndex is a fuzzy full-text index of the catalog. Documents are keyed by medicine id.
type MedicineIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewMedicineIndex(es *elasticsearch.Client, index string) *MedicineIndex {
	return &MedicineIndex{es: es, index: index}
}

// Search returns the ids of the best matching medicines, most relevant first.
func (s *MedicineIndex) Search(ctx context.Context, query string, limit int) ([]uuid.UUID, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"size":    limit,
		"_source": false,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search medicines: %w", err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return nil, fmt.Errorf("search medicines: %w", err)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *MedicineIndex) Index(ctx context.Context, medicine *entity.Medicine) error {
	payload, err := json.Marshal(toDocument(medicine))
	if err != nil {
		return err
	}

	res, err := s.es.Index(
		s.index,
		bytes.NewReader(payload),
		s.es.Index.WithContext(ctx),
		s.es.Index.WithDocumentID(medicine.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("index medicine %s: %w", medicine.ID, err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return fmt.Errorf("index medicine %s: %w", medicine.ID, err)
	}
	return nil
}

// IndexBatch writes medicines through a single bulk request.
func (s *MedicineIndex) IndexBatch(ctx context.Context, medicines []entity.Medicine) error {
	if len(medicines) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range medicines {
		action := map[string]interface{}{
			"index": map[string]interface{}{"_id": medicines[i].ID.String()},
		}
		if err := enc.Encode(action); err != nil {
			return err
		}
		if err := enc.Encode(toDocument(&medicines[i])); err != nil {
			return err
		}
	}

	res, err := s.es.Bulk(
		&buf,
		s.es.Bulk.WithContext(ctx),
		s.es.Bulk.WithIndex(s.index),
	)
	if err != nil {
		return fmt.Errorf("bulk index medicines: %w", err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return fmt.Errorf("bulk index medicines: %w", err)
	}

	var r struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if r.Errors {
		return fmt.Errorf("bulk index medicines: some documents were rejected")
	}
	return nil
}

func (s *MedicineIndex) Remove(ctx context.Context, id uuid.UUID) error {
	res, err := s.es.Delete(s.index, id.String(), s.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("remove medicine %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if err := responseError(res); err != nil {
		return fmt.Errorf("remove medicine %s: %w", id, err)
	}
	return nil
}

func responseError(res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("elasticsearch %s: %s", res.Status(), bytes.TrimSpace(body))
}
