package ncbi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"geneinfo/internal/upstream"
)

// NotAvailable stands in for any summary field the service did not return.
const NotAvailable = "N/A"

const (
	serviceSearch  = "ncbi esearch"
	serviceSummary = "ncbi esummary"
)

// GeneSummary holds the descriptive fields of an NCBI gene record.
type GeneSummary struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
}

// Client talks to the E-utilities gene database.
type Client struct {
	up       *upstream.Client
	baseURL  string
	apiKey   string
	organism string
}

// NewClient returns a Client querying baseURL (e.g.
// https://eutils.ncbi.nlm.nih.gov/entrez/eutils) restricted to organism.
func NewClient(up *upstream.Client, baseURL, apiKey, organism string) *Client {
	return &Client{
		up:       up,
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		organism: organism,
	}
}

func (c *Client) endpoint(name string, q url.Values) string {
	q.Set("db", "gene")
	q.Set("retmode", "json")
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	return c.baseURL + "/" + name + "?" + q.Encode()
}

// SearchURL returns the esearch URL for symbol.
func (c *Client) SearchURL(symbol string) string {
	q := url.Values{}
	q.Set("term", fmt.Sprintf("%s[gene] AND %s[orgn]", symbol, c.organism))
	return c.endpoint("esearch.fcgi", q)
}

// SummaryURL returns the esummary URL for a gene id.
func (c *Client) SummaryURL(id string) string {
	q := url.Values{}
	q.Set("id", id)
	return c.endpoint("esummary.fcgi", q)
}

type searchResponse struct {
	Result *struct {
		IDList *[]string `json:"idlist"`
	} `json:"esearchresult"`
}

// ResolveGeneID returns the first gene id matching symbol. An empty id list
// is reported as upstream.ErrNotFound.
func (c *Client) ResolveGeneID(ctx context.Context, symbol string) (string, error) {
	u := c.SearchURL(symbol)
	var resp searchResponse
	if err := c.up.GetJSON(ctx, serviceSearch, u, &resp); err != nil {
		return "", err
	}
	if resp.Result == nil {
		return "", upstream.Format(serviceSearch, u, errors.New("missing esearchresult"))
	}
	if resp.Result.IDList == nil {
		return "", upstream.Format(serviceSearch, u, errors.New("missing esearchresult.idlist"))
	}
	ids := *resp.Result.IDList
	if len(ids) == 0 || ids[0] == "" {
		return "", upstream.NotFound(serviceSearch, u, fmt.Errorf("no gene matches %q", symbol))
	}
	return ids[0], nil
}

type docSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
}

// FetchGeneSummary returns the summary fields for id. Missing fields are set
// to NotAvailable; only a missing record is an error.
func (c *Client) FetchGeneSummary(ctx context.Context, id string) (GeneSummary, error) {
	u := c.SummaryURL(id)
	var resp struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := c.up.GetJSON(ctx, serviceSummary, u, &resp); err != nil {
		return GeneSummary{}, err
	}
	if resp.Result == nil {
		return GeneSummary{}, upstream.Format(serviceSummary, u, errors.New("missing result"))
	}
	raw, ok := resp.Result[id]
	if !ok {
		return GeneSummary{}, upstream.Format(serviceSummary, u, fmt.Errorf("missing result.%s", id))
	}
	var doc docSummary
	if err := json.Unmarshal(raw, &doc); err != nil {
		return GeneSummary{}, upstream.Format(serviceSummary, u, fmt.Errorf("decode result.%s: %w", id, err))
	}
	return GeneSummary{
		ID:          id,
		Symbol:      orNotAvailable(doc.Name),
		Description: orNotAvailable(doc.Description),
		Summary:     orNotAvailable(doc.Summary),
	}, nil
}

func orNotAvailable(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return NotAvailable
	}
	return s
}
