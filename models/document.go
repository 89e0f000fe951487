package models

// Fixed column names in the document-phase output. Metadata keys that
// collide with any of these are dropped at extraction time so the fixed
// fields always win in the merged output.
const (
	ColURL           = "url"
	ColTranscription = "transcription"
	ColInterlinear   = "interlinear"
	ColModernSpanish = "modern_spanish"
	ColError         = "error"
)

// ReservedDocumentColumns are the fixed DocumentRecord field names that
// normalized metadata keys must not shadow.
var ReservedDocumentColumns = map[string]bool{
	ColURL:           true,
	ColTranscription: true,
	ColInterlinear:   true,
	ColModernSpanish: true,
	ColError:         true,
}

// DocumentRecord is the extraction result for one detail page.
//
// The three content fields are pointers so that "region absent from the
// page" (nil) stays distinct from "region present but empty"; the CSV
// layer writes nothing for nil and the merge layer leaves the originating
// row's value untouched.
type DocumentRecord struct {
	URL           string
	Transcription *string
	Interlinear   *string
	ModernSpanish *string
	Metadata      map[string]string
	Err           string
}

// Failed reports whether this record stands in for a fetch or parse
// failure rather than a successful extraction.
func (d DocumentRecord) Failed() bool {
	return d.Err != ""
}

// Fields flattens the record into column-name keyed values. Absent content
// regions contribute no key. Metadata keys shadowing a reserved column are
// skipped (the extractor drops them earlier, this is the backstop).
func (d DocumentRecord) Fields() map[string]string {
	fields := make(map[string]string, len(d.Metadata)+5)
	fields[ColURL] = d.URL
	if d.Transcription != nil {
		fields[ColTranscription] = *d.Transcription
	}
	if d.Interlinear != nil {
		fields[ColInterlinear] = *d.Interlinear
	}
	if d.ModernSpanish != nil {
		fields[ColModernSpanish] = *d.ModernSpanish
	}
	for k, v := range d.Metadata {
		if ReservedDocumentColumns[k] {
			continue
		}
		fields[k] = v
	}
	if d.Err != "" {
		fields[ColError] = d.Err
	}
	return fields
}
