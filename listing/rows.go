package listing

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/tichalab/tichascrape/models"
)

// expectedCells is the column count of the manuscript table. Rows rendered
// with fewer cells (placeholder or malformed rows) are skipped.
const expectedCells = 10

var (
	rowMatcher  = cascadia.MustCompile("table tbody tr[role='row']")
	cellMatcher = cascadia.MustCompile("td")
	linkMatcher = cascadia.MustCompile("a")
)

// ParseRows extracts the accepted manuscript rows from one rendered listing
// page, in document order. It returns the rows plus the number of rows that
// were skipped (too few cells or missing identity fields). Parse problems
// never abort the page; a broken row costs only itself.
func ParseRows(pageHTML string, base *url.URL) ([]models.ManuscriptRow, int) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		slog.Warn("failed to parse listing page HTML", "error", err)
		return nil, 0
	}

	var rows []models.ManuscriptRow
	skipped := 0

	doc.FindMatcher(rowMatcher).Each(func(_ int, tr *goquery.Selection) {
		cells := tr.FindMatcher(cellMatcher)
		if cells.Length() < expectedCells {
			slog.Warn("row has too few cells, skipping", "cells", cells.Length())
			skipped++
			return
		}

		name, link := ExtractCell(cells.Eq(0), base)
		row := models.ManuscriptRow{
			DocumentName: name,
			DocumentLink: link,
		}
		row.FileType, _ = ExtractCell(cells.Eq(1), base)
		// The identifier is the cell's own text, links inside included.
		row.TichaID = strings.TrimSpace(cells.Eq(2).Text())
		row.Year, _ = ExtractCell(cells.Eq(3), base)
		row.Town, _ = ExtractCell(cells.Eq(4), base)
		row.Archive, _ = ExtractCell(cells.Eq(5), base)
		row.DocType, _ = ExtractCell(cells.Eq(6), base)
		row.Language, _ = ExtractCell(cells.Eq(7), base)
		row.TranscriptionStatus, _ = ExtractCell(cells.Eq(8), base)
		row.Legibility, _ = ExtractCell(cells.Eq(9), base)

		if !row.Accepted() {
			slog.Warn("row missing document name or ticha_id, skipping",
				"name", row.DocumentName, "ticha_id", row.TichaID,
			)
			skipped++
			return
		}
		rows = append(rows, row)
	})

	return rows, skipped
}

// ExtractCell recovers a table cell's display text and, when the cell wraps
// its content in a hyperlink, the link target resolved against base. A cell
// without a link is the normal case and yields an empty link, never an
// error.
func ExtractCell(cell *goquery.Selection, base *url.URL) (text, link string) {
	a := cell.FindMatcher(linkMatcher).First()
	if a.Length() == 0 {
		return strings.TrimSpace(cell.Text()), ""
	}

	text = strings.TrimSpace(a.Text())
	href := strings.TrimSpace(a.AttrOr("href", ""))
	if href == "" {
		return text, ""
	}
	if base != nil {
		if resolved, err := base.Parse(href); err == nil {
			return text, resolved.String()
		}
	}
	return text, href
}
