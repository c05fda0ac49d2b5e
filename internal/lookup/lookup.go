// Package lookup runs one gene query end to end: resolve the symbol at NCBI,
// read its summary, fetch the KEGG entry and parse it into a Result.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"geneinfo/internal/kegg"
	"geneinfo/internal/ncbi"

	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrEmptyQuery is returned for a blank gene symbol.
var ErrEmptyQuery = errors.New("empty gene symbol")

// GeneDirectory resolves symbols to NCBI gene records.
type GeneDirectory interface {
	ResolveGeneID(ctx context.Context, symbol string) (string, error)
	FetchGeneSummary(ctx context.Context, id string) (ncbi.GeneSummary, error)
}

// EntrySource serves KEGG flat-file entries.
type EntrySource interface {
	Organism() string
	EntryID(symbol string) string
	GetEntry(ctx context.Context, entryID string) (string, error)
}

// ResolvedGene is the NCBI view of a gene.
type ResolvedGene struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
}

// Result is everything one query produced.
type Result struct {
	Query    string        `json:"query"`
	Gene     ResolvedGene  `json:"gene"`
	KeggID   string        `json:"kegg_id"`
	Organism string        `json:"kegg_organism"`
	FullName string        `json:"full_name"`
	Sections kegg.Sections `json:"sections"`
}

// Pathways itemises the PATHWAY section; ok is false when the entry has none.
func (r *Result) Pathways() (items []kegg.Item, ok bool) {
	v, ok := r.Sections["PATHWAY"]
	if !ok {
		return nil, false
	}
	return kegg.SplitPathways(v, r.Organism), true
}

// Diseases itemises the DISEASE section; ok is false when the entry has none.
func (r *Result) Diseases() (items []kegg.Item, ok bool) {
	v, ok := r.Sections["DISEASE"]
	if !ok {
		return nil, false
	}
	return kegg.SplitDiseases(v), true
}

// NormalizeSymbol trims and upper-cases a user supplied gene symbol.
func NormalizeSymbol(s string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(s))
}

// Service performs lookups. It is safe for concurrent use; each call is an
// independent sequence of blocking requests.
type Service struct {
	genes   GeneDirectory
	entries EntrySource
	logger  *log.Logger
}

func NewService(genes GeneDirectory, entries EntrySource, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{genes: genes, entries: entries, logger: logger}
}

// Lookup resolves symbol and assembles its Result. Errors keep the
// upstream kind (see package upstream) reachable through errors.Is.
func (s *Service) Lookup(ctx context.Context, symbol string) (*Result, error) {
	query := NormalizeSymbol(symbol)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	start := time.Now()
	s.logger.Info("lookup started", "symbol", query)

	id, err := s.genes.ResolveGeneID(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", query, err)
	}
	s.logger.Debug("resolved gene id", "symbol", query, "id", id)

	sum, err := s.genes.FetchGeneSummary(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("summary for gene %s: %w", id, err)
	}

	symbolForKegg := sum.Symbol
	if symbolForKegg == ncbi.NotAvailable {
		symbolForKegg = query
	}
	keggID := s.entries.EntryID(symbolForKegg)
	text, err := s.entries.GetEntry(ctx, keggID)
	if err != nil {
		return nil, fmt.Errorf("kegg entry %s: %w", keggID, err)
	}
	sections := kegg.ParseFlatFile(text)

	res := &Result{
		Query: query,
		Gene: ResolvedGene{
			ID:          id,
			Symbol:      symbolForKegg,
			Description: sum.Description,
			Summary:     sum.Summary,
		},
		KeggID:   keggID,
		Organism: s.entries.Organism(),
		FullName: sections.FullName(sum.Description),
		Sections: sections,
	}
	s.logger.Info("lookup finished", "symbol", query, "id", id, "kegg_id", keggID,
		"sections", len(sections), "duration_ms", time.Since(start).Milliseconds())
	return res, nil
}
