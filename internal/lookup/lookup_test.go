package lookup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"geneinfo/internal/kegg"
	"geneinfo/internal/ncbi"
	"geneinfo/internal/upstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenes struct {
	ids       map[string]string
	summaries map[string]ncbi.GeneSummary
	err       error
	queried   []string
}

func (f *fakeGenes) ResolveGeneID(ctx context.Context, symbol string) (string, error) {
	f.queried = append(f.queried, symbol)
	if f.err != nil {
		return "", f.err
	}
	id, ok := f.ids[symbol]
	if !ok {
		return "", upstream.NotFound("ncbi esearch", "", nil)
	}
	return id, nil
}

func (f *fakeGenes) FetchGeneSummary(ctx context.Context, id string) (ncbi.GeneSummary, error) {
	s, ok := f.summaries[id]
	if !ok {
		return ncbi.GeneSummary{}, upstream.Format("ncbi esummary", "", errors.New("missing result"))
	}
	return s, nil
}

type fakeEntries struct {
	texts map[string]string
	asked []string
}

func (f *fakeEntries) Organism() string             { return "hsa" }
func (f *fakeEntries) EntryID(symbol string) string { return "hsa:" + symbol }

func (f *fakeEntries) GetEntry(ctx context.Context, entryID string) (string, error) {
	f.asked = append(f.asked, entryID)
	text, ok := f.texts[entryID]
	if !ok {
		return "", &upstream.Error{Kind: upstream.ErrNetwork, Service: "kegg get", StatusCode: 404}
	}
	return text, nil
}

const brca1Entry = `ENTRY       672               CDS       T01001
NAME        (RefSeq) BRCA1 DNA repair associated
ORTHOLOGY   K10605  breast cancer type 1 susceptibility protein [EC:2.3.2.27]
PATHWAY     hsa03440  Homologous recombination
            hsa05224  Breast cancer
DISEASE     H00031  Breast cancer
///
`

func newFakes() (*fakeGenes, *fakeEntries) {
	genes := &fakeGenes{
		ids: map[string]string{"BRCA1": "672", "ORPHAN": "9"},
		summaries: map[string]ncbi.GeneSummary{
			"672": {ID: "672", Symbol: "BRCA1", Description: "BRCA1 DNA repair associated", Summary: "Nuclear phosphoprotein."},
			"9":   {ID: "9", Symbol: ncbi.NotAvailable, Description: ncbi.NotAvailable, Summary: ncbi.NotAvailable},
		},
	}
	entries := &fakeEntries{texts: map[string]string{
		"hsa:BRCA1":  brca1Entry,
		"hsa:ORPHAN": "ENTRY       9\n",
	}}
	return genes, entries
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "BRCA1", NormalizeSymbol("  brca1\t"))
	assert.Equal(t, "", NormalizeSymbol("   "))
	assert.Equal(t, "TP53", NormalizeSymbol("Tp53"))
}

func TestService_Lookup(t *testing.T) {
	genes, entries := newFakes()
	svc := NewService(genes, entries, nil)

	res, err := svc.Lookup(context.Background(), " brca1 ")
	require.NoError(t, err)

	assert.Equal(t, []string{"BRCA1"}, genes.queried)
	assert.Equal(t, "BRCA1", res.Query)
	assert.Equal(t, ResolvedGene{ID: "672", Symbol: "BRCA1", Description: "BRCA1 DNA repair associated", Summary: "Nuclear phosphoprotein."}, res.Gene)
	assert.Equal(t, "hsa:BRCA1", res.KeggID)
	assert.Equal(t, "K10605  breast cancer type 1 susceptibility protein", res.FullName)
	assert.Equal(t, "(RefSeq) BRCA1 DNA repair associated", res.Sections["NAME"])

	pathways, ok := res.Pathways()
	require.True(t, ok)
	assert.Equal(t, []kegg.Item{
		{Code: "hsa03440", Description: "Homologous recombination"},
		{Code: "hsa05224", Description: "Breast cancer"},
	}, pathways)

	diseases, ok := res.Diseases()
	require.True(t, ok)
	assert.Equal(t, []kegg.Item{{Code: "H00031", Description: "Breast cancer"}}, diseases)
}

func TestService_Lookup_MissingSymbolFallsBackToQuery(t *testing.T) {
	genes, entries := newFakes()
	res, err := NewService(genes, entries, nil).Lookup(context.Background(), "orphan")
	require.NoError(t, err)

	assert.Equal(t, []string{"hsa:ORPHAN"}, entries.asked)
	assert.Equal(t, "ORPHAN", res.Gene.Symbol)
	assert.Equal(t, ncbi.NotAvailable, res.FullName)

	_, ok := res.Pathways()
	assert.False(t, ok)
	_, ok = res.Diseases()
	assert.False(t, ok)
}

func TestService_Lookup_Errors(t *testing.T) {
	genes, entries := newFakes()
	svc := NewService(genes, entries, nil)

	_, err := svc.Lookup(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Empty(t, genes.queried)

	_, err = svc.Lookup(context.Background(), "nosuchgene")
	assert.ErrorIs(t, err, upstream.ErrNotFound)
	assert.Empty(t, entries.asked)

	genes.ids["NOKEGG"] = "5"
	genes.summaries["5"] = ncbi.GeneSummary{ID: "5", Symbol: "NOKEGG"}
	_, err = svc.Lookup(context.Background(), "nokegg")
	assert.ErrorIs(t, err, upstream.ErrNetwork)
	assert.Contains(t, err.Error(), "hsa:NOKEGG")

	genes.ids["BROKEN"] = "404"
	_, err = svc.Lookup(context.Background(), "broken")
	assert.ErrorIs(t, err, upstream.ErrFormat)

	genes.err = &upstream.Error{Kind: upstream.ErrNetwork, Service: "ncbi esearch", Err: errors.New("refused")}
	_, err = svc.Lookup(context.Background(), "BRCA1")
	assert.ErrorIs(t, err, upstream.ErrNetwork)
}

// blockingLooker holds every lookup until release is closed.
type blockingLooker struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingLooker) Lookup(ctx context.Context, symbol string) (*Result, error) {
	b.started <- struct{}{}
	<-b.release
	return &Result{Query: symbol}, nil
}

func TestRunner_RejectsConcurrentSubmit(t *testing.T) {
	bl := &blockingLooker{started: make(chan struct{}, 1), release: make(chan struct{})}
	r := NewRunner(bl)
	assert.False(t, r.Busy())

	var wg sync.WaitGroup
	wg.Add(1)
	var first *Result
	var firstErr error
	go func() {
		defer wg.Done()
		first, firstErr = r.Submit(context.Background(), "BRCA1")
	}()

	select {
	case <-bl.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first lookup never started")
	}
	assert.True(t, r.Busy())

	_, err := r.Submit(context.Background(), "TP53")
	assert.ErrorIs(t, err, ErrBusy)

	close(bl.release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, "BRCA1", first.Query)
	assert.False(t, r.Busy())

	res, err := r.Submit(context.Background(), "TP53")
	require.NoError(t, err)
	assert.Equal(t, "TP53", res.Query)
}

func TestNotify(t *testing.T) {
	nf := upstream.NotFound("ncbi esearch", "", nil)
	assert.Equal(t, "No human gene found with name: XYZ", Notify("XYZ", fmt.Errorf("resolve XYZ: %w", nf)).Message)

	n := Notify("BRCA1", &upstream.Error{Kind: upstream.ErrNetwork, Service: "kegg get", Err: errors.New("timeout")})
	assert.Equal(t, "Network Error", n.Title)
	assert.Contains(t, n.Message, "Could not connect to services")

	assert.Equal(t, "Busy", Notify("BRCA1", ErrBusy).Title)
	assert.Contains(t, Notify("BRCA1", upstream.Format("ncbi esummary", "", nil)).Message, "An error occurred")
}
