package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// ErrNotObject is returned when a document's top level is not a JSON object.
var ErrNotObject = errors.New("top-level value is not an object")

// RepairJSON fixes common hand-editing mistakes: unquoted keys, single quotes,
// trailing commas, comments, unclosed brackets and code fences.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %w", err)
	}
	return repaired, nil
}

// ParseHJSON converts an Hjson document (comments, quoteless keys and strings,
// optional commas) to standard JSON.
func ParseHJSON(data string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(data), &result); err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %w", err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %w", err)
	}
	return string(out), nil
}

// SmartParse decodes input into target, trying in order:
// 1. Standard JSON
// 2. JSON repair
// 3. Hjson
// It returns the JSON text that finally decoded.
func SmartParse(input string, target interface{}) (string, error) {
	// Try 1: Standard JSON
	if err := json.Unmarshal([]byte(input), target); err == nil {
		return input, nil
	}

	// Try 2: JSON repair
	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), target); err == nil {
			return repaired, nil
		}
	}

	// Try 3: Hjson
	converted, err := ParseHJSON(input)
	if err == nil {
		if err := json.Unmarshal([]byte(converted), target); err == nil {
			return converted, nil
		}
	}
	return "", fmt.Errorf("SMART_PARSE_FAILED: all parsing strategies failed")
}

// DecodeObject parses a lenient document whose top level must be an object and
// returns its members undecoded.
func DecodeObject(data []byte) (map[string]json.RawMessage, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrNotObject
	}
	var obj map[string]json.RawMessage
	if _, err := SmartParse(string(data), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	if obj == nil {
		return nil, ErrNotObject
	}
	return obj, nil
}

// DecodeSection decodes one member into target. A type mismatch deep inside
// the member keeps whatever decoded; the error is returned for logging only.
func DecodeSection(raw json.RawMessage, target interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, target)
}
