// Package render turns a lookup.Result into styled terminal text. It keeps
// no state; front ends call Render whenever a new Result arrives.
package render

import (
	"fmt"
	"strings"

	"geneinfo/internal/kegg"
	"geneinfo/internal/lookup"

	"github.com/charmbracelet/lipgloss"
)

// Palette shared with the TUI chrome.
var (
	PrimaryColor = lipgloss.Color("#7C3AED") // Purple
	AccentColor  = lipgloss.Color("#F59E0B") // Amber
	TextColor    = lipgloss.Color("#F3F4F6")
	MutedColor   = lipgloss.Color("#9CA3AF")
	BorderColor  = lipgloss.Color("#374151")
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor)

	labelStyle = lipgloss.NewStyle().Foreground(MutedColor)

	blockTitleStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	blockStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	codeStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Width(10)
)

const minWidth = 40

// Render lays out res in the order the gene panel shows it: header, ids,
// full name, function, then pathways and diseases when the KEGG entry has
// them. width is the available column count.
func Render(res *lookup.Result, width int) string {
	if res == nil {
		return ""
	}
	if width < minWidth {
		width = minWidth
	}
	inner := width - blockStyle.GetHorizontalPadding()

	parts := []string{
		headerStyle.Render("GENE INFORMATION: " + res.Query),
		labelStyle.Render("NCBI Gene ID: ") + res.Gene.ID,
		labelStyle.Render("KEGG ID: ") + res.KeggID,
		block("Full Name", wrap(res.FullName, inner)),
		block("Biological Function", wrap(res.Gene.Summary, inner)),
	}

	if pathways, ok := res.Pathways(); ok {
		parts = append(parts, block("Pathways", items(pathways, inner)))
	}
	if diseases, ok := res.Diseases(); ok {
		parts = append(parts, block("Disease Associations", items(diseases, inner)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Sections renders a parsed flat file as "NAME  content" blocks in the
// given key order, skipping keys that are absent.
func Sections(s kegg.Sections, order []string, width int) string {
	if width < minWidth {
		width = minWidth
	}
	inner := width - blockStyle.GetHorizontalPadding()
	var parts []string
	for _, k := range order {
		v, ok := s[k]
		if !ok {
			continue
		}
		parts = append(parts, block(k, wrap(v, inner)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func block(title, body string) string {
	if body == "" {
		body = labelStyle.Render("(empty)")
	}
	return "\n" + blockTitleStyle.Render(title) + "\n" + blockStyle.Render(body)
}

// items renders one line per entry with the code in a fixed column. Entries
// without a code are shown as plain text.
func items(list []kegg.Item, width int) string {
	if len(list) == 0 {
		return ""
	}
	descWidth := width - codeStyle.GetWidth() - 1
	lines := make([]string, 0, len(list))
	for _, it := range list {
		if it.Code == "" {
			lines = append(lines, wrap(it.Description, width))
			continue
		}
		desc := wrap(it.Description, descWidth)
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, codeStyle.Render(it.Code), " ", desc))
	}
	return strings.Join(lines, "\n")
}

func wrap(s string, width int) string {
	if s == "" {
		return ""
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

// Plain renders res without styling, for logs and text/plain responses.
func Plain(res *lookup.Result) string {
	if res == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "GENE INFORMATION: %s\n", res.Query)
	fmt.Fprintf(&b, "NCBI Gene ID: %s\n", res.Gene.ID)
	fmt.Fprintf(&b, "KEGG ID: %s\n\n", res.KeggID)
	fmt.Fprintf(&b, "Full Name:\n  %s\n\n", res.FullName)
	fmt.Fprintf(&b, "Biological Function:\n  %s\n", res.Gene.Summary)
	if pathways, ok := res.Pathways(); ok {
		b.WriteString("\nPathways:\n")
		writeItems(&b, pathways)
	}
	if diseases, ok := res.Diseases(); ok {
		b.WriteString("\nDisease Associations:\n")
		writeItems(&b, diseases)
	}
	return b.String()
}

func writeItems(b *strings.Builder, list []kegg.Item) {
	for _, it := range list {
		if it.Code == "" {
			fmt.Fprintf(b, "  %s\n", it.Description)
			continue
		}
		fmt.Fprintf(b, "  %-10s %s\n", it.Code, it.Description)
	}
}
