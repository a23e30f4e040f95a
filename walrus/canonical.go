package walrus

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/datareef/reef/errors"
)

// Canonical JSON encoding: object keys sorted, compact separators. Both
// StoreJSON and Verify hash over this encoding, so the integrity check is
// independent of any re-encoding the store performs on the wire.
//
// Binary payloads do not round-trip through JSON; they use HashBytes and the
// raw Store path instead.

// MarshalCanonical serializes v into canonical JSON.
func MarshalCanonical(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize payload")
	}
	return Canonicalize(raw)
}

// Canonicalize re-encodes a JSON document into the canonical form.
// Fails with ErrParse if data is not valid JSON.
func Canonicalize(data []byte) ([]byte, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(errors.ErrParse, err.Error())
	}
	// encoding/json sorts map keys and uses compact separators
	out, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrParse, err.Error())
	}
	return out, nil
}

// HashBytes returns the hex SHA-256 digest of raw bytes.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashCanonical returns the content hash of v's canonical JSON encoding.
func HashCanonical(v interface{}) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", err
	}
	return HashBytes(canonical), nil
}
