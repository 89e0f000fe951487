// Package citation produces the provenance record attached to listing-phase
// output.
package citation

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const (
	sourceName  = "Ticha: a digital text explorer for Colonial Zapotec"
	projectInfo = "Ticha project by Brook Danielle Lillehaugen, George Aaron Broadwell, et al."
)

// Citation records where and when the data was retrieved.
type Citation struct {
	Source      string `json:"source"`
	URL         string `json:"url"`
	AccessDate  string `json:"access_date"`
	Citation    string `json:"citation"`
	ProjectInfo string `json:"project_info"`
}

// New builds a Citation for data retrieved from url at the current time.
func New(url string) Citation {
	now := time.Now()
	return Citation{
		Source:      sourceName,
		URL:         url,
		AccessDate:  now.Format(time.RFC3339),
		Citation:    fmt.Sprintf("Data retrieved from %s, accessed %s", url, now.Format("2006-01-02")),
		ProjectInfo: projectInfo,
	}
}

// WriteFile writes the citation as indented JSON next to the data it
// describes.
func (c Citation) WriteFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
