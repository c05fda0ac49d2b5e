// Package kegg fetches KEGG gene entries and parses the flat-file format
// they are served in.
package kegg

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"

	"geneinfo/internal/fasta"
	"geneinfo/internal/upstream"
)

const serviceGet = "kegg get"

// SeqKind selects which sequence GetSequence returns.
type SeqKind string

const (
	AminoAcid  SeqKind = "aaseq"
	Nucleotide SeqKind = "ntseq"
)

// Client reads entries from the KEGG REST API.
type Client struct {
	up       *upstream.Client
	baseURL  string
	organism string
}

// NewClient returns a Client for baseURL (e.g. https://rest.kegg.jp) using
// the three or four letter KEGG organism code (hsa for human).
func NewClient(up *upstream.Client, baseURL, organism string) *Client {
	return &Client{
		up:       up,
		baseURL:  strings.TrimRight(baseURL, "/"),
		organism: organism,
	}
}

// Organism returns the KEGG organism code the client prefixes entries with.
func (c *Client) Organism() string { return c.organism }

// EntryID returns the KEGG gene entry id for symbol, e.g. hsa:BRCA1.
func (c *Client) EntryID(symbol string) string {
	return c.organism + ":" + symbol
}

// GetURL returns the REST URL of entryID.
func (c *Client) GetURL(entryID string) string {
	return c.baseURL + "/get/" + url.PathEscape(entryID)
}

// GetEntry returns the raw flat-file text for entryID. KEGG answers unknown
// entries with 404, which surfaces as upstream.ErrNetwork like any other
// failed request.
func (c *Client) GetEntry(ctx context.Context, entryID string) (string, error) {
	body, err := c.up.Get(ctx, serviceGet, c.GetURL(entryID))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetSequence returns the FASTA record of the given kind for entryID.
func (c *Client) GetSequence(ctx context.Context, entryID string, kind SeqKind) (fasta.Record, error) {
	u := c.GetURL(entryID) + "/" + string(kind)
	body, err := c.up.Get(ctx, serviceGet, u)
	if err != nil {
		return fasta.Record{}, err
	}
	recs, err := fasta.Parse(bytes.NewReader(body))
	if err != nil {
		return fasta.Record{}, upstream.Format(serviceGet, u, err)
	}
	if len(recs) == 0 || recs[0].Sequence == "" {
		return fasta.Record{}, upstream.Format(serviceGet, u, errors.New("no FASTA record in response"))
	}
	return recs[0], nil
}
