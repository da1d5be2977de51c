package persistence

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// MarshalKeyRecord serializes a KeyRecord to JSON bytes.
func MarshalKeyRecord(record *KeyRecord) ([]byte, error) {
	if record == nil {
		return nil, errors.New("cannot marshal nil KeyRecord")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal KeyRecord to JSON")
	}

	return data, nil
}

// UnmarshalKeyRecord deserializes a KeyRecord from JSON bytes.
func UnmarshalKeyRecord(data []byte) (*KeyRecord, error) {
	if len(data) == 0 {
		return nil, errors.New("cannot unmarshal empty data")
	}

	var record KeyRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal JSON to KeyRecord")
	}
	if record.PublicKey == "" {
		return nil, errors.New("KeyRecord is missing publicKey")
	}

	return &record, nil
}

// ValidateKeyRecord checks the fields every backend indexes on
func ValidateKeyRecord(record *KeyRecord) error {
	if record == nil {
		return errors.New("cannot save nil KeyRecord")
	}
	if record.PublicKey == "" {
		return errors.New("KeyRecord.PublicKey is required")
	}
	if record.WIF == "" {
		return errors.New("KeyRecord.WIF is required")
	}
	return nil
}
