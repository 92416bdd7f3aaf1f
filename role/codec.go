package role

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedSet is returned by [DecodeSet] when the input is not a JSON array of strings.
var ErrMalformedSet = errors.New("malformed role set")

// EncodeSet serializes s as a JSON array of wire names, e.g. ["CUSTOMER","AUDITOR"].
// The empty set encodes as [].
func EncodeSet(s Set) ([]byte, error) {
	return json.Marshal(s.Names())
}

// DecodeSet parses the output of [EncodeSet]. Malformed JSON wraps [ErrMalformedSet];
// an unknown name wraps [ErrUnknownRole]. A JSON null decodes to the empty set.
func DecodeSet(data []byte) (Set, error) {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedSet, err)
	}
	return ParseSet(names)
}
