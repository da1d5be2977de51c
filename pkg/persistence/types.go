package persistence

import (
	"sort"

	"go.uber.org/zap/zapcore"
)

// KeyRecord is a stored wallet key. WIF holds the secret key in Wallet Import
// Format; it is never logged.
type KeyRecord struct {
	// KeyID is the keystore assigned identifier, "local-key-<uuid>"
	KeyID string `json:"keyId"`

	// PublicKey is the legacy "EOS…" text form and the primary key of the record
	PublicKey string `json:"publicKey"`

	// WIF is the secret key text
	WIF string `json:"wif"`

	// Network is "mainnet" or "testnet"
	Network string `json:"network"`

	// Label is an optional caller supplied name
	Label string `json:"label,omitempty"`

	// CreatedAt is the Unix timestamp when the key was added
	CreatedAt int64 `json:"createdAt"`
}

// Clone returns a copy that shares no state with r
func (r *KeyRecord) Clone() *KeyRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// MarshalLogObject logs everything but the WIF
func (r *KeyRecord) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("keyId", r.KeyID)
	enc.AddString("publicKey", r.PublicKey)
	enc.AddString("network", r.Network)
	if r.Label != "" {
		enc.AddString("label", r.Label)
	}
	enc.AddInt64("createdAt", r.CreatedAt)
	return nil
}

// SortKeyRecords orders records by CreatedAt, then PublicKey
func SortKeyRecords(records []*KeyRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt != records[j].CreatedAt {
			return records[i].CreatedAt < records[j].CreatedAt
		}
		return records[i].PublicKey < records[j].PublicKey
	})
}
