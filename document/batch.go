package document

import (
	"context"
	"log/slog"

	"github.com/tichalab/tichascrape/models"
)

// progressInterval is how often the batch logs a progress line. Advisory
// only; it never affects which documents are processed.
const progressInterval = 10

// DocumentExtractor extracts one detail page. Satisfied by *Extractor.
type DocumentExtractor interface {
	Extract(ctx context.Context, ref string) models.DocumentRecord
}

// BatchRunner sequences the document extractor over a set of listing rows,
// merging each result back into its originating row.
type BatchRunner struct {
	extractor    DocumentExtractor
	maxDocuments int
}

// NewBatchRunner creates a BatchRunner. maxDocuments == 0 means no limit.
func NewBatchRunner(extractor DocumentExtractor, maxDocuments int) *BatchRunner {
	return &BatchRunner{extractor: extractor, maxDocuments: maxDocuments}
}

// Run filters rows to those with a document link, truncates to the
// configured maximum (a deterministic prefix in original order), and
// processes each strictly in sequence. Fetch failures become rows with the
// error column populated; only context cancellation stops the batch early.
func (b *BatchRunner) Run(ctx context.Context, rows []models.ManuscriptRow) ([]map[string]string, error) {
	var refs []models.ManuscriptRow
	for _, row := range rows {
		if row.DocumentLink != "" {
			refs = append(refs, row)
		}
	}
	withoutLink := len(rows) - len(refs)
	if b.maxDocuments > 0 && len(refs) > b.maxDocuments {
		refs = refs[:b.maxDocuments]
	}

	slog.Info("starting document batch",
		"documents", len(refs),
		"without_link", withoutLink,
	)

	combined := make([]map[string]string, 0, len(refs))
	for i, row := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slog.Info("processing document",
			"index", i+1, "total", len(refs), "url", row.DocumentLink)
		record := b.extractor.Extract(ctx, row.DocumentLink)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		combined = append(combined, Merge(row, record))

		if (i+1)%progressInterval == 0 {
			slog.Info("batch progress", "processed", i+1, "total", len(refs))
		}
	}

	slog.Info("document batch complete", "records", len(combined))
	return combined, nil
}

// Merge unions one listing row's fields with its document record's fields.
// On key collision the extracted value wins; stage two exists to enrich
// the row, so newer data takes precedence.
func Merge(row models.ManuscriptRow, record models.DocumentRecord) map[string]string {
	fields := row.Fields()
	for k, v := range record.Fields() {
		fields[k] = v
	}
	return fields
}

// ContentStats counts how many combined records carry each content region.
// Used for the end-of-run summary.
func ContentStats(records []map[string]string) (transcription, interlinear, modernSpanish int) {
	for _, r := range records {
		if _, ok := r[models.ColTranscription]; ok {
			transcription++
		}
		if _, ok := r[models.ColInterlinear]; ok {
			interlinear++
		}
		if _, ok := r[models.ColModernSpanish]; ok {
			modernSpanish++
		}
	}
	return transcription, interlinear, modernSpanish
}
