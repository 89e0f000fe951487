package models

// Column names for the listing-phase output. Order here is the order the
// columns appear in the manuscripts CSV.
const (
	ColDocumentName        = "document_name"
	ColDocumentLink        = "document_link"
	ColFileType            = "file_type"
	ColTichaID             = "ticha_id"
	ColYear                = "year"
	ColTown                = "town"
	ColArchive             = "archive"
	ColDocType             = "doc_type"
	ColLanguage            = "language"
	ColTranscriptionStatus = "transcription_status"
	ColLegibility          = "legibility"
)

// RowColumns is the fixed column order for ManuscriptRow output.
var RowColumns = []string{
	ColDocumentName,
	ColDocumentLink,
	ColFileType,
	ColTichaID,
	ColYear,
	ColTown,
	ColArchive,
	ColDocType,
	ColLanguage,
	ColTranscriptionStatus,
	ColLegibility,
}

// ManuscriptRow is one catalog entry from the paginated listing table.
// All fields are strings as rendered by the site; an empty DocumentLink
// means the name cell carried no hyperlink.
type ManuscriptRow struct {
	DocumentName        string
	DocumentLink        string
	FileType            string
	TichaID             string
	Year                string
	Town                string
	Archive             string
	DocType             string
	Language            string
	TranscriptionStatus string
	Legibility          string
}

// Accepted reports whether the row carries the essential identity fields.
// Rows failing this check are skipped during listing extraction.
func (r ManuscriptRow) Accepted() bool {
	return r.DocumentName != "" && r.TichaID != ""
}

// Fields flattens the row into column-name keyed values for table output
// and for merging with a scraped DocumentRecord.
func (r ManuscriptRow) Fields() map[string]string {
	return map[string]string{
		ColDocumentName:        r.DocumentName,
		ColDocumentLink:        r.DocumentLink,
		ColFileType:            r.FileType,
		ColTichaID:             r.TichaID,
		ColYear:                r.Year,
		ColTown:                r.Town,
		ColArchive:             r.Archive,
		ColDocType:             r.DocType,
		ColLanguage:            r.Language,
		ColTranscriptionStatus: r.TranscriptionStatus,
		ColLegibility:          r.Legibility,
	}
}

// RowFromFields rebuilds a ManuscriptRow from column-name keyed values,
// e.g. a row read back from the manuscripts CSV. Unknown keys are ignored.
func RowFromFields(fields map[string]string) ManuscriptRow {
	return ManuscriptRow{
		DocumentName:        fields[ColDocumentName],
		DocumentLink:        fields[ColDocumentLink],
		FileType:            fields[ColFileType],
		TichaID:             fields[ColTichaID],
		Year:                fields[ColYear],
		Town:                fields[ColTown],
		Archive:             fields[ColArchive],
		DocType:             fields[ColDocType],
		Language:            fields[ColLanguage],
		TranscriptionStatus: fields[ColTranscriptionStatus],
		Legibility:          fields[ColLegibility],
	}
}
