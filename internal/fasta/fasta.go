// Package fasta parses the FASTA sequence records KEGG serves for gene
// entries (amino-acid and nucleotide).
package fasta

import (
	"bufio"
	"io"
	"strings"
)

// Record is a single FASTA record.
type Record struct {
	Header   string `json:"header"`
	Sequence string `json:"sequence"`
}

// ID returns the first token of the header, e.g. "hsa:672".
func (r Record) ID() string {
	if f := strings.Fields(r.Header); len(f) > 0 {
		return f[0]
	}
	return ""
}

// Parse reads FASTA records from r. Lines beginning with '>' start a record;
// sequence lines are concatenated with surrounding whitespace removed. Lines
// before the first header are ignored.
func Parse(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var records []Record
	var current *Record
	var seq strings.Builder
	flush := func() {
		if current != nil {
			current.Sequence = seq.String()
			records = append(records, *current)
		}
		seq.Reset()
	}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, ">") {
			flush()
			current = &Record{Header: strings.TrimSpace(line[1:])}
			continue
		}
		if current != nil {
			seq.WriteString(line)
		}
	}
	flush()
	return records, scanner.Err()
}
