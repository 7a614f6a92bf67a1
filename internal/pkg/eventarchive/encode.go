package eventarchive

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ManuelReschke/Lebensenergie/app/models"
)

// EncodeJSONL writes one JSON object per event and line.
func EncodeJSONL(events []models.WebhookEvent) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range events {
		if err := enc.Encode(&events[i]); err != nil {
			return nil, fmt.Errorf("encode event %s: %w", events[i].ID, err)
		}
	}
	return buf.Bytes(), nil
}
