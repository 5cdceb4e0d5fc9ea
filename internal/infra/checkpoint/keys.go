package checkpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// field names of record and customerRecord, matched exactly
var (
	recordFields = map[string]bool{
		"state": true, "order_number": true, "damage_description": true,
		"vehicle": true, "customer": true, "validation_errors": true,
	}
	customerFields = map[string]bool{"has_outstanding_debt": true, "is_banned": true}
)

// checkJSONKeys rejects keys encoding/json would fold or overwrite: a key
// that differs from a field name only in case, and a key given twice.
func checkJSONKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return walkJSON(dec, "", recordFields)
}

// walkJSON consumes one value. fields is the key set of an object value,
// nil when the value is not an object of the record layout.
func walkJSON(dec *json.Decoder, path string, fields map[string]bool) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}

	switch tok {
	case json.Delim('{'):
		seen := make(map[string]bool)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return fmt.Errorf("%w: %v", ErrFormat, err)
			}
			key, _ := keyTok.(string)
			field := key
			if path != "" {
				field = path + "." + key
			}
			if seen[key] {
				return fmt.Errorf("%w: field %s given more than once", ErrFormat, field)
			}
			seen[key] = true
			if fields != nil && !fields[key] {
				return fmt.Errorf("%w: unknown field %s", ErrFormat, field)
			}

			var nested map[string]bool
			if path == "" && key == "customer" {
				nested = customerFields
			}
			if err := walkJSON(dec, field, nested); err != nil {
				return err
			}
		}
		_, err = dec.Token()
	case json.Delim('['):
		for dec.More() {
			if err := walkJSON(dec, path+"[]", nil); err != nil {
				return err
			}
		}
		_, err = dec.Token()
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return nil
}
