package document

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/tichalab/tichascrape/config"
	"github.com/tichalab/tichascrape/models"
	"github.com/tichalab/tichascrape/normalize"
	"github.com/tichalab/tichascrape/ratelimit"
)

var (
	metadataMatcher      = cascadia.MustCompile("div#metadata p")
	transcriptionMatcher = cascadia.MustCompile("div#transcription")
	interlinearMatcher   = cascadia.MustCompile("div#interLinear")
	modernSpanishMatcher = cascadia.MustCompile("div#modern_spanish")
	paragraphMatcher     = cascadia.MustCompile("p")
)

// Extractor fetches one detail page at a time and decomposes it into a
// DocumentRecord.
type Extractor struct {
	base    *url.URL
	fetcher *fetcher
	limiter *ratelimit.Limiter
}

// NewExtractor creates an Extractor resolving relative document references
// against cfg.BaseOrigin and pacing requests with the shared limiter.
func NewExtractor(cfg config.ScrapeConfig, limiter *ratelimit.Limiter) (*Extractor, error) {
	base, err := url.Parse(cfg.BaseOrigin)
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeInvalidInput,
			"invalid base origin",
			err,
		)
	}
	return &Extractor{
		base:    base,
		fetcher: newFetcher(cfg.FetchTimeout),
		limiter: limiter,
	}, nil
}

// Extract fetches the referenced detail page and returns its metadata and
// content regions. Any fetch or parse failure is folded into an error
// record so one bad document never aborts the batch. The rate-limit delay
// is charged once per call, success or not.
func (e *Extractor) Extract(ctx context.Context, ref string) models.DocumentRecord {
	docURL := e.resolve(ref)
	record := models.DocumentRecord{URL: docURL}

	defer func() {
		if err := e.limiter.Wait(ctx); err != nil {
			slog.Debug("rate limit wait interrupted", "error", err)
		}
	}()

	root, err := e.fetcher.fetch(ctx, docURL)
	if err != nil {
		slog.Warn("document fetch failed", "url", docURL, "error", err)
		record.Err = err.Error()
		return record
	}

	doc := goquery.NewDocumentFromNode(root)
	record.Metadata = extractMetadata(doc)
	record.Transcription = extractRegion(doc, transcriptionMatcher)
	record.Interlinear = extractRegion(doc, interlinearMatcher)
	record.ModernSpanish = extractRegion(doc, modernSpanishMatcher)

	slog.Debug("document extracted",
		"url", docURL,
		"metadata_fields", len(record.Metadata),
		"transcription", record.Transcription != nil,
		"interlinear", record.Interlinear != nil,
		"modern_spanish", record.ModernSpanish != nil,
	)
	return record
}

// resolve turns a relative document reference into an absolute URL against
// the configured origin. Already-absolute references pass through.
func (e *Extractor) resolve(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	resolved, err := e.base.Parse(ref)
	if err != nil {
		return ref
	}
	return resolved.String()
}

// extractMetadata reads the metadata container's text blocks, splitting
// each on the first colon. Blocks without a colon contribute nothing.
// Labels normalize through normalize.Key; keys that end up empty or that
// shadow a fixed output column are dropped.
func extractMetadata(doc *goquery.Document) map[string]string {
	meta := make(map[string]string)

	doc.FindMatcher(metadataMatcher).Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if text == "" {
			return
		}
		label, value, found := strings.Cut(text, ":")
		if !found {
			slog.Debug("metadata block without separator, skipping", "text", text)
			return
		}
		key := normalize.Key(label)
		if key == "" {
			slog.Debug("metadata label normalized to nothing, skipping", "label", label)
			return
		}
		if models.ReservedDocumentColumns[key] {
			slog.Debug("metadata key shadows a fixed column, dropping", "key", key)
			return
		}
		meta[key] = strings.TrimSpace(value)
	})

	return meta
}

// extractRegion gathers the paragraphs of one content region, trims each,
// drops empty ones, and joins the survivors with a blank line. A missing
// region (or one with nothing but empty paragraphs) yields nil, which
// stays distinct from an empty string all the way to the output.
func extractRegion(doc *goquery.Document, container cascadia.Selector) *string {
	div := doc.FindMatcher(container)
	if div.Length() == 0 {
		return nil
	}

	var paragraphs []string
	div.FindMatcher(paragraphMatcher).Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		return nil
	}

	joined := strings.Join(paragraphs, "\n\n")
	return &joined
}
