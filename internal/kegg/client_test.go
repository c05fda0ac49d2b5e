package kegg

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"geneinfo/internal/upstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestClient_GetEntry(t *testing.T) {
	var gotPath string
	up := upstream.NewClient(0, "", nil)
	up.HTTP = &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.Path
		return &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader("NAME        BRCA1\n///\n")),
			Header:     make(http.Header),
		}, nil
	})}
	c := NewClient(up, "https://rest.example/", "hsa")

	assert.Equal(t, "hsa", c.Organism())
	assert.Equal(t, "hsa:BRCA1", c.EntryID("BRCA1"))

	text, err := c.GetEntry(context.Background(), c.EntryID("BRCA1"))
	require.NoError(t, err)
	assert.Equal(t, "/get/hsa:BRCA1", gotPath)
	assert.Equal(t, Sections{"NAME": "BRCA1"}, ParseFlatFile(text))
}

func TestClient_GetEntryNotFoundIsNetworkError(t *testing.T) {
	up := upstream.NewClient(0, "", nil)
	up.HTTP = &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 404, Body: io.NopCloser(strings.NewReader("")), Header: make(http.Header)}, nil
	})}
	c := NewClient(up, "https://rest.example", "hsa")

	_, err := c.GetEntry(context.Background(), "hsa:NOPE")
	assert.ErrorIs(t, err, upstream.ErrNetwork)
}

func TestClient_GetSequence(t *testing.T) {
	var gotPath string
	up := upstream.NewClient(0, "", nil)
	up.HTTP = &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.Path
		return &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(">hsa:672 BRCA1\nMDLSALRV\nEEVQNV\n")),
			Header:     make(http.Header),
		}, nil
	})}
	c := NewClient(up, "https://rest.example", "hsa")

	rec, err := c.GetSequence(context.Background(), "hsa:BRCA1", AminoAcid)
	require.NoError(t, err)
	assert.Equal(t, "/get/hsa:BRCA1/aaseq", gotPath)
	assert.Equal(t, "hsa:672", rec.ID())
	assert.Equal(t, "MDLSALRVEEVQNV", rec.Sequence)
}

func TestClient_GetSequenceEmptyIsFormatError(t *testing.T) {
	up := upstream.NewClient(0, "", nil)
	up.HTTP = &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader("\n")), Header: make(http.Header)}, nil
	})}
	c := NewClient(up, "https://rest.example", "hsa")

	_, err := c.GetSequence(context.Background(), "hsa:BRCA1", Nucleotide)
	assert.ErrorIs(t, err, upstream.ErrFormat)
}
