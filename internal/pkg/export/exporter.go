// Package export serializes the canonical record set to durable files: a
// structured JSON snapshot and a tabular CSV, each written both date-stamped
// and as an overwritten "latest" artifact.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/worldcup26/hospitality/internal/pkg/models"
	"github.com/worldcup26/hospitality/internal/pkg/pipeline"
)

const filePrefix = "hospitality"

// Snapshot is the JSON export shape.
type Snapshot struct {
	ScrapedAt     string                 `json:"scraped_at"`
	BaseCurrency  string                 `json:"base_currency"`
	ExchangeRates map[string]float64     `json:"exchange_rates"`
	FallbackRates bool                   `json:"fallback_rates"`
	TotalRecords  int                    `json:"total_records"`
	Stats         []pipeline.PortalStats `json:"portal_stats"`
	Records       []models.Record        `json:"records"`
}

// Exporter writes run results into one directory.
type Exporter struct {
	dir string
}

func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Write persists the result set as JSON and CSV, each as a date-stamped file
// plus the overwritten latest file. Files land via write-then-rename so a
// concurrent reader never sees a partially written artifact. Any failure here
// is fatal for the run.
func (e *Exporter) Write(set *pipeline.ResultSet) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	stamp := set.ScrapedAt.Format("2006-01-02")

	jsonData, err := e.marshalJSON(set)
	if err != nil {
		return err
	}
	csvData := e.renderCSV(set)

	files := []struct {
		name string
		data []byte
	}{
		{fmt.Sprintf("%s_%s.json", filePrefix, stamp), jsonData},
		{filePrefix + "_latest.json", jsonData},
		{fmt.Sprintf("%s_%s.csv", filePrefix, stamp), csvData},
		{filePrefix + "_latest.csv", csvData},
	}

	for _, f := range files {
		path := filepath.Join(e.dir, f.name)
		if err := writeAtomic(path, f.data); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	slog.Info("Export written", "dir", e.dir, "records", len(set.Records), "stamp", stamp)
	return nil
}

func (e *Exporter) marshalJSON(set *pipeline.ResultSet) ([]byte, error) {
	snap := Snapshot{
		ScrapedAt:     set.ScrapedAt.Format("2006-01-02T15:04:05Z07:00"),
		BaseCurrency:  set.Rates.Base,
		ExchangeRates: set.Rates.Rates,
		FallbackRates: set.Rates.Fallback,
		TotalRecords:  len(set.Records),
		Stats:         set.Stats,
		Records:       set.Records,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// renderCSV produces one header row plus one row per record, or one row per
// offer for records carrying a full lounge menu. Free-text fields are quoted.
func (e *Exporter) renderCSV(set *pipeline.ResultSet) []byte {
	var b strings.Builder

	header := []string{
		"Match Number", "Stage", "Host Team", "Away Team", "Venue", "City",
		"Country", "Date", "Time", "Lounge Type", "Original Price",
		"Original Currency", fmt.Sprintf("Price (%s)", set.Rates.Base), "Portal",
	}
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')

	for _, rec := range set.Records {
		if len(rec.Offers) > 0 {
			for _, o := range rec.Offers {
				writeRow(&b, rec, o.Title, o.Amount, o.Currency, o.BasePrice)
			}
			continue
		}
		writeRow(&b, rec, rec.LoungeTitle, rec.Price, rec.Currency, rec.BasePrice)
	}

	return []byte(b.String())
}

func writeRow(b *strings.Builder, rec models.Record, lounge string, amount float64, currency string, basePrice int) {
	fields := []string{
		fmt.Sprintf("%d", rec.MatchNumber),
		quote(rec.Stage),
		quote(rec.HostTeam),
		quote(rec.OpposingTeam),
		quote(rec.Venue.Name),
		quote(rec.Venue.Town),
		quote(rec.Venue.Country),
		quote(rec.MatchDate),
		quote(rec.MatchDayTime),
		quote(lounge),
		formatAmount(amount),
		currency,
		fmt.Sprintf("%d", basePrice),
		quote(rec.Portal),
	}
	b.WriteString(strings.Join(fields, ","))
	b.WriteByte('\n')
}

// quote wraps a free-text field in double quotes, doubling any embedded ones.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// formatAmount prints whole amounts without a decimal point.
func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// writeAtomic writes data to a temp file in the target directory and renames
// it over the destination.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
