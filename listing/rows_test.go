package listing

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustBase(t *testing.T) *url.URL {
	t.Helper()
	base, err := url.Parse("https://ticha.haverford.edu/en/texts/handwritten/")
	if err != nil {
		t.Fatal(err)
	}
	return base
}

// rowHTML builds one full-width table row. The first cell links to href
// when href is non-empty.
func rowHTML(name, href, tichaID string) string {
	first := name
	if href != "" {
		first = fmt.Sprintf(`<a href=%q>%s</a>`, href, name)
	}
	return fmt.Sprintf(`<tr role="row">
		<td>%s</td>
		<td><a>printed</a></td>
		<td>%s</td>
		<td><a>1697</a></td>
		<td><a>Tanetze</a></td>
		<td><a>AGN</a></td>
		<td><a>testament</a></td>
		<td><a>Zapotec</a></td>
		<td><a>complete</a></td>
		<td><a>high</a></td>
	</tr>`, first, tichaID)
}

func pageHTML(rows ...string) string {
	return `<html><body><table id="myTable"><tbody>` +
		strings.Join(rows, "\n") + `</tbody></table></body></html>`
}

func TestParseRows_FullPage(t *testing.T) {
	html := pageHTML(
		rowHTML("Testament of Juana", "/en/texts/Za001/", "Za001"),
		rowHTML("Letter from Oaxaca", "", "Za002"),
	)

	rows, skipped := ParseRows(html, mustBase(t))
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	first := rows[0]
	if first.DocumentName != "Testament of Juana" {
		t.Errorf("DocumentName = %q", first.DocumentName)
	}
	if first.DocumentLink != "https://ticha.haverford.edu/en/texts/Za001/" {
		t.Errorf("DocumentLink = %q, want resolved absolute URL", first.DocumentLink)
	}
	if first.TichaID != "Za001" {
		t.Errorf("TichaID = %q", first.TichaID)
	}
	if first.Town != "Tanetze" || first.Archive != "AGN" {
		t.Errorf("cell texts = %q / %q", first.Town, first.Archive)
	}

	if rows[1].DocumentLink != "" {
		t.Errorf("row without link got DocumentLink = %q", rows[1].DocumentLink)
	}
}

func TestParseRows_SkipsShortRow(t *testing.T) {
	short := `<tr role="row"><td>loading</td><td>x</td></tr>`
	html := pageHTML(
		short,
		rowHTML("Doc", "/en/texts/Za003/", "Za003"),
	)

	rows, skipped := ParseRows(html, mustBase(t))
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if len(rows) != 1 || rows[0].TichaID != "Za003" {
		t.Fatalf("rows = %+v, want only Za003", rows)
	}
}

func TestParseRows_SkipsEmptyIdentity(t *testing.T) {
	html := pageHTML(
		rowHTML("No ID Doc", "/en/texts/x/", ""),
		rowHTML("", "/en/texts/y/", "Za004"),
		rowHTML("Kept", "", "Za005"),
	)

	rows, skipped := ParseRows(html, mustBase(t))
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if len(rows) != 1 || rows[0].DocumentName != "Kept" {
		t.Fatalf("rows = %+v, want only Kept", rows)
	}
}

func TestParseRows_PreservesOrder(t *testing.T) {
	var rowsHTML []string
	for i := 1; i <= 6; i++ {
		rowsHTML = append(rowsHTML, rowHTML(fmt.Sprintf("Doc %d", i), "", fmt.Sprintf("Za%03d", i)))
	}
	rows, _ := ParseRows(pageHTML(rowsHTML...), mustBase(t))
	if len(rows) != 6 {
		t.Fatalf("got %d rows, want 6", len(rows))
	}
	for i, row := range rows {
		want := fmt.Sprintf("Za%03d", i+1)
		if row.TichaID != want {
			t.Errorf("row %d TichaID = %q, want %q", i, row.TichaID, want)
		}
	}
}

func TestParseRows_TichaIDUsesFullCellText(t *testing.T) {
	// The identifier cell is read as plain text: a link inside it must not
	// narrow the value to the link's label.
	row := `<tr role="row">
		<td><a href="/en/texts/Za010/">Doc</a></td>
		<td>printed</td>
		<td>Za<a href="#">010</a></td>
		<td>1697</td><td>Tanetze</td><td>AGN</td><td>testament</td>
		<td>Zapotec</td><td>complete</td><td>high</td>
	</tr>`

	rows, _ := ParseRows(pageHTML(row), mustBase(t))
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].TichaID != "Za010" {
		t.Errorf("TichaID = %q, want the full cell text %q", rows[0].TichaID, "Za010")
	}
}

func TestParseRows_IgnoresRowsWithoutRole(t *testing.T) {
	plain := `<tr><td>a</td><td>b</td><td>c</td><td>d</td><td>e</td>
		<td>f</td><td>g</td><td>h</td><td>i</td><td>j</td></tr>`
	rows, skipped := ParseRows(pageHTML(plain), mustBase(t))
	if len(rows) != 0 || skipped != 0 {
		t.Errorf("rows = %d, skipped = %d; non-data rows should not count", len(rows), skipped)
	}
}

func cellSelection(t *testing.T, cellInner string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tbody><tr><td id="cell">` + cellInner + `</td></tr></tbody></table>`))
	if err != nil {
		t.Fatal(err)
	}
	return doc.Find("#cell")
}

func TestExtractCell_LinkedCell(t *testing.T) {
	cell := cellSelection(t, `<a href="/en/texts/Za010/">  Testament  </a>`)
	text, link := ExtractCell(cell, mustBase(t))
	if text != "Testament" {
		t.Errorf("text = %q, want trimmed link label", text)
	}
	if link != "https://ticha.haverford.edu/en/texts/Za010/" {
		t.Errorf("link = %q, want resolved target", link)
	}
}

func TestExtractCell_LinkWithoutHref(t *testing.T) {
	cell := cellSelection(t, `<a>1697</a>`)
	text, link := ExtractCell(cell, mustBase(t))
	if text != "1697" {
		t.Errorf("text = %q", text)
	}
	if link != "" {
		t.Errorf("link = %q, want empty for missing href", link)
	}
}

func TestExtractCell_PlainCell(t *testing.T) {
	cell := cellSelection(t, `  Za042  `)
	text, link := ExtractCell(cell, nil)
	if text != "Za042" {
		t.Errorf("text = %q, want trimmed cell text", text)
	}
	if link != "" {
		t.Errorf("link = %q, want empty", link)
	}
}

func TestExtractCell_AbsoluteHrefUntouched(t *testing.T) {
	cell := cellSelection(t, `<a href="https://example.org/doc">doc</a>`)
	_, link := ExtractCell(cell, mustBase(t))
	if link != "https://example.org/doc" {
		t.Errorf("link = %q, want absolute target preserved", link)
	}
}
