package extractors

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Table is one HTML table flattened to a cell grid. Colspans are expanded
// so every row has positionally comparable columns.
type Table struct {
	Rows [][]string
}

// ScanTables parses an HTML document and returns every table as a cell
// grid, in document order. Nested tables are returned as their own entries
// and their cells do not leak into the enclosing table.
func ScanTables(doc []byte) ([]Table, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var tables []Table
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			tables = append(tables, collectTable(n))
			// Nested tables are found by walking the children of the
			// table node itself.
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return tables, nil
}

// collectTable flattens one table node, skipping rows that belong to nested
// tables.
func collectTable(table *html.Node) Table {
	var t Table
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "table":
				continue // handled as its own entry by ScanTables
			case "tr":
				if row := collectRow(c); row != nil {
					t.Rows = append(t.Rows, row)
				}
			default:
				walk(c)
			}
		}
	}
	walk(table)
	return t
}

func collectRow(tr *html.Node) []string {
	var row []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		text := NormalizeCell(nodeText(c))
		span := colspan(c)
		row = append(row, text)
		// Expand colspan with empty cells so later columns keep their
		// positions.
		for i := 1; i < span; i++ {
			row = append(row, "")
		}
	}
	return row
}

func colspan(n *html.Node) int {
	for _, a := range n.Attr {
		if a.Key == "colspan" {
			if v, err := strconv.Atoi(strings.TrimSpace(a.Val)); err == nil && v > 1 {
				return v
			}
		}
	}
	return 1
}

// nodeText concatenates the text content of a node, excluding nested
// tables.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && n.Data == "table" {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// NormalizeCell collapses whitespace and non-breaking spaces so keyword
// matching sees the same text regardless of the filing's formatting.
func NormalizeCell(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// rowText joins a row for keyword scoring.
func rowText(row []string) string {
	return strings.ToLower(strings.Join(row, " "))
}

// tableText joins an entire table for keyword scoring.
func tableText(t Table) string {
	var b strings.Builder
	for _, row := range t.Rows {
		b.WriteString(rowText(row))
		b.WriteString("\n")
	}
	return b.String()
}
