package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"geneinfo/internal/kegg"
	"geneinfo/internal/lookup"
	"geneinfo/internal/upstream"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	results map[string]*lookup.Result
	err     error
}

func (f *fakeLookup) Lookup(ctx context.Context, symbol string) (*lookup.Result, error) {
	if symbol == "" {
		return nil, lookup.ErrEmptyQuery
	}
	if f.err != nil {
		return nil, f.err
	}
	res, ok := f.results[symbol]
	if !ok {
		return nil, upstream.NotFound("ncbi esearch", "", nil)
	}
	return res, nil
}

func newTestServer(t *testing.T, f *fakeLookup) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newRouter(f, log.New(io.Discard)))
	t.Cleanup(srv.Close)
	return srv
}

func brca1() *lookup.Result {
	return &lookup.Result{
		Query:    "BRCA1",
		Gene:     lookup.ResolvedGene{ID: "672", Symbol: "BRCA1", Description: "BRCA1 DNA repair associated", Summary: "N/A"},
		KeggID:   "hsa:BRCA1",
		Organism: "hsa",
		FullName: "BRCA1 DNA repair associated",
		Sections: kegg.Sections{"DISEASE": "H00031  Breast cancer"},
	}
}

func TestAPIGene(t *testing.T) {
	srv := newTestServer(t, &fakeLookup{results: map[string]*lookup.Result{"BRCA1": brca1()}})

	resp, err := http.Get(srv.URL + "/api/genes/brca1")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	var got lookup.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "672", got.Gene.ID)
	assert.Equal(t, "H00031  Breast cancer", got.Sections["DISEASE"])
}

func TestGeneText(t *testing.T) {
	srv := newTestServer(t, &fakeLookup{results: map[string]*lookup.Result{"BRCA1": brca1()}})

	resp, err := http.Get(srv.URL + "/genes/BRCA1")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "GENE INFORMATION: BRCA1")
	assert.Contains(t, string(body), "H00031")
}

func TestAPIGene_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		path   string
		status int
	}{
		{"not found", nil, "/api/genes/nosuch", http.StatusNotFound},
		{"network", &upstream.Error{Kind: upstream.ErrNetwork, Service: "kegg get", StatusCode: 404}, "/api/genes/brca1", http.StatusBadGateway},
		{"format", upstream.Format("ncbi esummary", "", errors.New("missing result")), "/api/genes/brca1", http.StatusBadGateway},
		{"other", errors.New("boom"), "/api/genes/brca1", http.StatusInternalServerError},
		{"blank symbol", nil, "/api/genes/%20", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeLookup{err: tt.err})
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeLookup{})
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
