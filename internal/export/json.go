package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ozanyurt/tally/internal/ledger"
)

type jsonExport struct {
	ExportedAt string            `json:"exported_at"`
	Count      int               `json:"count"`
	Entries    []ledger.Interval `json:"entries"`
}

// LedgerJSON dumps the whole ledger to path with an export timestamp and
// entry count, for backups and external tooling.
func LedgerJSON(l *ledger.Ledger, path string) error {
	dump := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(l.Intervals),
		Entries:    l.Intervals,
	}

	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
