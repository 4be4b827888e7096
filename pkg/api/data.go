package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Parameter is encoded as the query string of a request.
type Parameter map[string]string

func (p Parameter) Encode() string {
	parameters := make([]string, 0, len(p))
	for key, value := range p {
		parameters = append(parameters, key+"="+strings.ReplaceAll(url.QueryEscape(value), "+", "%20"))
	}
	sort.Strings(parameters)
	return strings.Join(parameters, "&")
}

type JSON map[string]any

type Array []JSON

func (j JSON) ToReader() (io.Reader, string, error) {
	b, err := json.Marshal(j)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(b), "application/json", nil
}

func (a Array) ToReader() (io.Reader, string, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(b), "application/json", nil
}

// Get returns the value of a key. Nested objects are reached with dots, for
// example "data.items".
func (m JSON) Get(key string) (any, error) {
	key, subKey, found := strings.Cut(key, ".")

	value, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("not found field %s", key)
	}

	if !found {
		return value, nil
	}

	switch t := value.(type) {
	case JSON:
		return t.Get(subKey)
	case map[string]any:
		return JSON(t).Get(subKey)
	}

	return nil, fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func (m JSON) GetJSON(key string) (JSON, error) {
	value, err := m.Get(key)
	if err != nil {
		return nil, err
	}

	switch t := value.(type) {
	case nil:
		return nil, nil
	case JSON:
		return t, nil
	case map[string]any:
		return JSON(t), nil
	}

	return nil, fmt.Errorf("invalid type of field %s (%T)", key, value)
}

// GetInt accepts json numbers without a fractional part.
func (m JSON) GetInt(key string) (int, error) {
	value, err := m.Get(key)
	if err != nil {
		return 0, err
	}

	switch t := value.(type) {
	case int:
		return t, nil
	case float64:
		if t == float64(int(t)) {
			return int(t), nil
		}
	}

	return 0, fmt.Errorf("invalid type of field %s (%T)", key, value)
}

// GetBool treats null as false.
func (m JSON) GetBool(key string) (bool, error) {
	value, err := m.Get(key)
	if err != nil {
		return false, err
	}

	switch t := value.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	}

	return false, fmt.Errorf("invalid type of field %s (%T)", key, value)
}

// GetString treats null as the empty string.
func (m JSON) GetString(key string) (string, error) {
	value, err := m.Get(key)
	if err != nil {
		return "", err
	}

	switch t := value.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	}

	return "", fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func (m JSON) GetArray(key string) (Array, error) {
	value, err := m.Get(key)
	if err != nil {
		return nil, err
	}

	switch t := value.(type) {
	case nil:
		return nil, nil
	case Array:
		return t, nil
	case []any:
		return toArray(t)
	}

	return nil, fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func toArray(items []any) (Array, error) {
	array := make(Array, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid item of array (%T)", item)
		}
		array = append(array, JSON(obj))
	}

	return array, nil
}

// decodeBody returns JSON for an object, Array for an array of objects, an
// empty JSON for an empty body and nil for anything else.
func decodeBody(raw []byte) any {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return JSON{}
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}

	switch t := value.(type) {
	case map[string]any:
		return JSON(t)
	case []any:
		if array, err := toArray(t); err == nil {
			return array
		}
	}

	return nil
}

type Response struct {
	Code    int
	Header  http.Header
	Body    any
	RawBody []byte
}

// IsSuccess reports whether the response has a 2xx status code.
func (r *Response) IsSuccess() bool {
	return r.Code >= 200 && r.Code < 300
}
