package taylor

import (
	"encoding/json"
)

func marshal(v any) ([]byte, error) { return json.Marshal(v) }

// mergeObjects joins two encoded JSON objects; keys of b win.
func mergeObjects(a, b []byte) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(a, &fields); err != nil {
		return nil, err
	}
	more := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &more); err != nil {
		return nil, err
	}
	for k, v := range more {
		fields[k] = v
	}
	return json.Marshal(fields)
}
