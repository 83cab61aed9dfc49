package attribute

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// MarshalJSON writes every field keyed by its identifier. Flags are JSON
// booleans, both nomination flags are written along with the nomination.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Activation())
}

// UnmarshalJSON replays the object's members onto the default set in
// document order, so the exclusivity resolver sees them the way a user
// would have entered them: when both nomination flags are true the later
// member wins. Unknown members are ignored.
func (s *Set) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = Set{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("attribute set: JSON object expected")
	}

	result := Set{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("attribute set: member %q: %w", key, err)
		}

		field, ok := ParseField(key)
		if !ok {
			continue
		}
		result = result.With(field, FormatValue(raw))
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = result
	return nil
}

// FormatValue converts a decoded JSON value into the string form accepted by
// Set.With.
func FormatValue(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
