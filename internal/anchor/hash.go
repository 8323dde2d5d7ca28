package anchor

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// snapshot is the canonical anchored view of a record. Field set and order
// are fixed; changing either breaks comparability with existing chains.
type snapshot struct {
	ID        string `json:"id"`
	Summary   string `json:"summary"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
}

// ComputeHash returns the hex-encoded SHA-256 digest of the canonical
// snapshot for a record.
func ComputeHash(recordID, summary string, at time.Time, source string) string {
	canonical, _ := json.Marshal(snapshot{
		ID:        recordID,
		Summary:   summary,
		Timestamp: at.UTC().Format(time.RFC3339),
		Source:    source,
	})
	digest := sha256.Sum256(canonical)
	return hex.EncodeToString(digest[:])
}
