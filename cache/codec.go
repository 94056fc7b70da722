package cache

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeSnapshot serializes a read projection for storage as a cache value.
func EncodeSnapshot[R any](snapshot R) ([]byte, error) {
	data, err := msgpack.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode cache snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot deserializes a cached value back into a read projection.
func DecodeSnapshot[R any](data []byte) (R, error) {
	var snapshot R
	if err := msgpack.Unmarshal(data, &snapshot); err != nil {
		return snapshot, fmt.Errorf("decode cache snapshot: %w", err)
	}
	return snapshot, nil
}
