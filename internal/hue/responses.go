package hue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Classify decodes a bridge response body. An error list is turned into a
// *BridgeError built from its first entry, anything else is returned as is.
func Classify(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, &MalformedResponseError{Body: body, Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &MalformedResponseError{Body: body, Err: errors.New("unexpected data after JSON value")}
	}

	payload = normalize(payload)

	if bridgeErr := errorEntry(payload); bridgeErr != nil {
		return nil, bridgeErr
	}
	return payload, nil
}

func errorEntry(payload any) *BridgeError {
	entries, ok := payload.([]any)
	if !ok || len(entries) == 0 {
		return nil
	}
	first, ok := entries[0].(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := first["error"]
	if !ok {
		return nil
	}
	return bridgeErrorFrom(raw)
}

func bridgeErrorFrom(raw any) *BridgeError {
	fields, ok := raw.(map[string]any)
	if !ok {
		return &BridgeError{Description: fmt.Sprint(raw)}
	}

	bridgeErr := &BridgeError{}
	if t, ok := fields["type"].(int); ok {
		bridgeErr.Type = t
	}
	bridgeErr.Address, _ = fields["address"].(string)
	bridgeErr.Description, _ = fields["description"].(string)
	if bridgeErr.Description == "" {
		bridgeErr.Description = ErrorDescriptions[bridgeErr.Type]
	}
	return bridgeErr
}

// normalize turns json.Number values into int where integral, float64 otherwise.
func normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i)
		}
		f, _ := val.Float64()
		return f
	case map[string]any:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	default:
		return v
	}
}

// writeOutcome reads a write response. A write can partly succeed: it returns
// the attribute names confirmed by success entries and the first error entry.
func writeOutcome(payload any) (confirmed []string, rejected error) {
	entries, _ := payload.([]any)
	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if s, ok := fields["success"].(map[string]any); ok {
			for path := range s {
				confirmed = append(confirmed, path[strings.LastIndex(path, "/")+1:])
			}
		}
		if raw, ok := fields["error"]; ok && rejected == nil {
			rejected = bridgeErrorFrom(raw)
		}
	}
	return confirmed, rejected
}

// successEntries returns the "success" values of a write/create/delete response.
func successEntries(payload any) ([]any, error) {
	entries, ok := payload.([]any)
	if !ok || len(entries) == 0 {
		return nil, &MalformedResponseError{Err: errors.New("expected a list of success entries")}
	}

	var successes []any
	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if s, ok := fields["success"]; ok {
			successes = append(successes, s)
		}
	}
	if len(successes) == 0 {
		return nil, &MalformedResponseError{Err: errors.New("response contains no success entry")}
	}
	return successes, nil
}

// createdID reads the id of a created resource, either {"id":"7"} or the legacy "/groups/7".
func createdID(payload any) (string, error) {
	successes, err := successEntries(payload)
	if err != nil {
		return "", err
	}

	fields, ok := successes[0].(map[string]any)
	if !ok {
		return "", &MalformedResponseError{Err: errors.New("success entry has no id")}
	}

	var id string
	switch raw := fields["id"].(type) {
	case string:
		id = raw
	case int:
		id = fmt.Sprint(raw)
	default:
		return "", &MalformedResponseError{Err: errors.New("success entry has no id")}
	}

	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	return id, nil
}

func asObject(payload any, what string) (map[string]any, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, &MalformedResponseError{Err: fmt.Errorf("expected %s object, got %T", what, payload)}
	}
	return obj, nil
}
