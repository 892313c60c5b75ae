package validate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MaxBatchSize bounds one batch request.
const MaxBatchSize = 100

// BatchEntry is one element of a batch body. Invoice stays raw so each
// entry can fail validation on its own without sinking the batch.
type BatchEntry struct {
	Invoice       json.RawMessage `json:"invoiceData"`
	CustomerEmail string          `json:"customerEmail"`
	CustomerName  string          `json:"customerName"`
	InvoiceNo     string          `json:"invoiceNo"`
}

// Recipient validates the optional email override of an entry.
func (e BatchEntry) Recipient() (string, error) {
	addr := strings.TrimSpace(e.CustomerEmail)
	if addr == "" {
		return "", nil
	}
	if err := validate.Var(addr, "email"); err != nil {
		return "", &Errors{Details: []string{`"customerEmail" must be a valid email`}}
	}
	return addr, nil
}

// Batch decodes the envelope of a batch request: a JSON array of
// entries, between 1 and MaxBatchSize long.
func Batch(data []byte) ([]BatchEntry, error) {
	var entries []BatchEntry
	if err := decode(data, &entries); err != nil {
		return nil, err
	}
	switch {
	case len(entries) == 0:
		return nil, &Errors{Details: []string{`"value" must contain at least 1 items`}}
	case len(entries) > MaxBatchSize:
		return nil, &Errors{Details: []string{fmt.Sprintf(`"value" must contain less than or equal to %d items`, MaxBatchSize)}}
	}
	return entries, nil
}
