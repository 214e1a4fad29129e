package discovery

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// TableSelector anchors the discovery table on the router's home page.
const TableSelector = `table[summary="LAN Host Discovery Table"]`

// ErrTableNotFound is returned with an empty result when the page has no
// discovery table. Callers treat it as "zero devices this cycle".
var ErrTableNotFound = errors.New("discovery table not found")

// Parse reads an HTML page and returns the devices of its discovery table
// in row order.
func Parse(r io.Reader) ([]DeviceRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return []DeviceRecord{}, fmt.Errorf("parse html: %w", err)
	}
	return ParseDocument(doc)
}

// ParseDocument walks an already parsed page.
func ParseDocument(doc *goquery.Document) ([]DeviceRecord, error) {
	devices := []DeviceRecord{}

	table := doc.Find(TableSelector).First()
	if table.Length() == 0 {
		return devices, ErrTableNotFound
	}

	// первая строка: заголовок
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		devices = append(devices, Normalize(
			cellText(cells.Eq(0)),
			cellText(cells.Eq(1)),
			cellText(cells.Eq(2)),
		))
	})
	return devices, nil
}

// cellText joins the trimmed text nodes of a cell, dropping empty ones.
func cellText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		collectText(&b, n)
	}
	return b.String()
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(strings.TrimSpace(n.Data))
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}
