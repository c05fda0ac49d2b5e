package kegg

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sections maps a flat-file section name (NAME, PATHWAY, ...) to its
// content with continuation lines joined by single spaces.
type Sections map[string]string

// ParseFlatFile splits a KEGG flat-file record into sections.
//
// A line whose first character is upper case opens a section. The name runs
// up to the first double space; whatever follows seeds the content. Lines
// indented by at least four spaces continue the open section. Blank lines and
// anything else are skipped. A repeated section name replaces the earlier
// one. ParseFlatFile never fails and always returns a non-nil map.
func ParseFlatFile(text string) Sections {
	sections := make(Sections)

	var (
		name    string
		content strings.Builder
		open    bool
	)
	commit := func() {
		if open {
			sections[name] = strings.TrimSpace(content.String())
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if r, _ := utf8.DecodeRuneInString(line); unicode.IsUpper(r) {
			commit()
			content.Reset()
			open = true
			if i := strings.Index(line, "  "); i > 0 {
				name = strings.TrimSpace(line[:i])
				content.WriteString(strings.TrimSpace(line[i:]))
			} else {
				name = strings.TrimSpace(line)
			}
			continue
		}

		if open && strings.HasPrefix(line, "    ") {
			content.WriteByte(' ')
			content.WriteString(strings.TrimSpace(line))
		}
	}
	commit()

	return sections
}

// FullName picks the most descriptive name for the gene: the ORTHOLOGY
// definition without its EC bracket, then NAME, then DEFINITION, then
// fallback.
func (s Sections) FullName(fallback string) string {
	if ko, ok := s["ORTHOLOGY"]; ok {
		if i := strings.Index(ko, "["); i >= 0 {
			return strings.TrimSpace(ko[:i])
		}
	}
	if v, ok := s["NAME"]; ok {
		return v
	}
	if v, ok := s["DEFINITION"]; ok {
		return v
	}
	return fallback
}

// Item is one entry of an itemised section such as PATHWAY or DISEASE.
type Item struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

var diseaseCode = regexp.MustCompile(`\bH\d{5}\b`)

// SplitPathways splits a PATHWAY section into one Item per pathway map
// (e.g. "hsa03440  Homologous recombination") for the given organism code.
func SplitPathways(content, organism string) []Item {
	if organism == "" {
		return nil
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(organism) + `\d{5}\b`)
	return splitOnCodes(content, re)
}

// SplitDiseases splits a DISEASE section into one Item per KEGG disease
// code (e.g. "H00031  Breast cancer").
func SplitDiseases(content string) []Item {
	return splitOnCodes(content, diseaseCode)
}

func splitOnCodes(content string, code *regexp.Regexp) []Item {
	content = strings.TrimSpace(content)
	if content == "" || content == "N/A" {
		return nil
	}
	starts := code.FindAllStringIndex(content, -1)
	if len(starts) == 0 {
		return []Item{{Description: content}}
	}

	items := make([]Item, 0, len(starts))
	for i, loc := range starts {
		end := len(content)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		entry := strings.TrimSpace(content[loc[0]:end])
		item := Item{Code: content[loc[0]:loc[1]]}
		item.Description = strings.TrimSpace(strings.TrimPrefix(entry, item.Code))
		items = append(items, item)
	}
	return items
}
