package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var jsonCfg = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// Marshal marshals a data structure to JSON.
func Marshal(v interface{}) ([]byte, error) {
	return jsonCfg.Marshal(v)
}

// Unmarshal unmarshals a byte slice into the specified data structure.
func Unmarshal(data []byte, v interface{}) error {
	return jsonCfg.Unmarshal(data, v)
}

// UnmarshalValid validates and unmarshals a byte slice into the specified
// data structure, returning an error if the JSON is not syntactically valid.
func UnmarshalValid(data []byte, v interface{}) error {
	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON: %s", string(data))
	}
	return jsonCfg.Unmarshal(data, v)
}

const (
	comma = byte(',')
	colon = byte(':')
)

// elementBounds locates the byte range occupied by a top-level element of a
// JSON object, including the separator comma when one must go with it.
func elementBounds(ext []byte, elementName string) (bool, int64, int64, error) {
	dec := json.NewDecoder(bytes.NewBuffer(ext))
	var start int64
	var discard interface{}
	for {
		token, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return false, -1, -1, err
		}

		if token != elementName {
			start = dec.InputOffset()
			continue
		}

		if err := dec.Decode(&discard); err != nil {
			return false, -1, -1, err
		}
		end := dec.InputOffset()

		if dec.More() {
			// trailing elements exist, so the comma to remove is the one after
			if start < int64(len(ext)) && ext[start] == comma {
				start++
			}
			for end < int64(len(ext)) {
				end++
				if ext[end-1] == comma {
					break
				}
			}
		}
		return true, start, end, nil
	}
	return false, -1, -1, nil
}

// DropElement removes the named top-level element from a JSON object,
// returning the input unchanged if the element is absent.
func DropElement(ext []byte, elementName string) ([]byte, error) {
	found, start, end, err := elementBounds(ext, elementName)
	if err != nil {
		return ext, err
	}
	if found {
		ext = append(ext[:start], ext[end:]...)
	}
	return ext, nil
}

// FindElement extracts the value of the named top-level element from a JSON
// object. The second return value is the raw value bytes, without the key.
func FindElement(ext []byte, elementName string) (bool, []byte, error) {
	found, start, end, err := elementBounds(ext, elementName)
	if !found || err != nil {
		return found, nil, err
	}

	element := ext[start:end]
	for i := 0; i < len(element); i++ {
		if element[i] == colon {
			return true, element[i+1:], nil
		}
	}
	return true, element, nil
}
