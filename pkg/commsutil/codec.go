package commsutil

import (
	"bytes"
	"encoding/json"
)

// EncodePayload serializes a value to compact JSON bytes. HTML characters are
// left unescaped so kernel markup travels verbatim.
func EncodePayload(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DecodePayload deserializes JSON bytes into the given target.
func DecodePayload(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
