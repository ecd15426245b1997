package search

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"medimarket/internal/domain/entity"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

type fakeCluster struct {
	mu       sync.Mutex
	requests []recordedRequest
	reply    func(r *http.Request) (int, string)
}

func (c *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	c.mu.Lock()
	c.requests = append(c.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	c.mu.Unlock()

	status, payload := http.StatusOK, `{}`
	if c.reply != nil {
		status, payload = c.reply(r)
	}
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(payload))
}

func newTestIndex(t *testing.T, cluster *fakeCluster) *MedicineIndex {
	t.Helper()

	server := httptest.NewServer(cluster)
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)
	return NewMedicineIndex(client, "medicines")
}

func TestMedicineIndex_Search(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	cluster := &fakeCluster{reply: func(r *http.Request) (int, string) {
		return http.StatusOK, `{"hits":{"hits":[{"_id":"` + first.String() + `"},{"_id":"not-a-uuid"},{"_id":"` + second.String() + `"}]}}`
	}}
	index := newTestIndex(t, cluster)

	ids, err := index.Search(context.Background(), "paracetmol", 20)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{first, second}, ids)
	require.Len(t, cluster.requests, 1)
	assert.Equal(t, "/medicines/_search", cluster.requests[0].Path)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(cluster.requests[0].Body), &body))
	match := body["query"].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "AUTO", match["fuzziness"])
	assert.Equal(t, "paracetmol", match["query"])
	assert.EqualValues(t, 20, body["size"])
}

func TestMedicineIndex_SearchError(t *testing.T) {
	cluster := &fakeCluster{reply: func(r *http.Request) (int, string) {
		return http.StatusNotFound, `{"error":{"type":"index_not_found_exception"}}`
	}}
	index := newTestIndex(t, cluster)

	_, err := index.Search(context.Background(), "para", 20)

	assert.ErrorContains(t, err, "index_not_found_exception")
}

func TestMedicineIndex_IndexAndRemove(t *testing.T) {
	cluster := &fakeCluster{reply: func(r *http.Request) (int, string) {
		if r.Method == http.MethodDelete {
			return http.StatusNotFound, `{"result":"not_found"}`
		}
		return http.StatusCreated, `{"result":"created"}`
	}}
	index := newTestIndex(t, cluster)
	medicine := &entity.Medicine{ID: uuid.New(), Name: "Paracetamol", Category: "Pain Relief"}

	require.NoError(t, index.Index(context.Background(), medicine))
	require.NoError(t, index.Remove(context.Background(), medicine.ID))

	require.Len(t, cluster.requests, 2)
	assert.Equal(t, "/medicines/_doc/"+medicine.ID.String(), cluster.requests[0].Path)
	assert.Contains(t, cluster.requests[0].Body, `"name":"Paracetamol"`)
	assert.Equal(t, http.MethodDelete, cluster.requests[1].Method)
}

func TestMedicineIndex_IndexBatch(t *testing.T) {
	cluster := &fakeCluster{reply: func(r *http.Request) (int, string) {
		return http.StatusOK, `{"errors":false,"items":[]}`
	}}
	index := newTestIndex(t, cluster)
	medicines := []entity.Medicine{
		{ID: uuid.New(), Name: "Aspirin", Category: "Pain Relief"},
		{ID: uuid.New(), Name: "Cetirizine", Category: "Allergy"},
	}

	require.NoError(t, index.IndexBatch(context.Background(), medicines))
	require.NoError(t, index.IndexBatch(context.Background(), nil))

	require.Len(t, cluster.requests, 1)
	assert.Equal(t, "/medicines/_bulk", cluster.requests[0].Path)

	lines := 0
	scanner := bufio.NewScanner(strings.NewReader(cluster.requests[0].Body))
	for scanner.Scan() {
		lines++
	}
	assert.Equal(t, 4, lines)
}

func TestMedicineIndex_IndexBatchRejected(t *testing.T) {
	cluster := &fakeCluster{reply: func(r *http.Request) (int, string) {
		return http.StatusOK, `{"errors":true}`
	}}
	index := newTestIndex(t, cluster)

	err := index.IndexBatch(context.Background(), []entity.Medicine{{ID: uuid.New(), Name: "Aspirin"}})

	assert.ErrorContains(t, err, "rejected")
}
