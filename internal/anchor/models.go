// Package anchor implements the hash-chain integrity anchor: an append-only,
// singly-linked sequence of SHA-256 content hashes per record type. Any
// alteration of an anchored record invalidates every later link, giving
// tamper evidence without distributed-ledger machinery.
package anchor

import "time"

// GenesisHash is the prev_hash of the first anchor in every chain.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// Anchor is one link in a record type's chain. RecordHash and CurrentHash
// are equal by construction; they only diverge if a sealing step is ever
// added between hashing and linking.
type Anchor struct {
	ID          string
	RecordType  string
	RecordID    string
	PrevHash    string
	RecordHash  string
	CurrentHash string
	BlockNumber int64
	CreatedAt   time.Time
}

// VerifyReport summarizes a chain verification walk.
type VerifyReport struct {
	RecordType string   `json:"record_type"`
	OK         bool     `json:"ok"`
	Anchors    int      `json:"anchors"`
	TipHash    string   `json:"tip_hash,omitempty"`
	Errors     []string `json:"errors"`
}
