package client

import (
	"encoding/json"
	"fmt"
	"maps"
	"mime"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"

	orderedmap "github.com/pb33f/ordered-map/v2"
)

// Fields is an insertion-ordered payload for Post. Keys are encoded in
// the order they were set, for JSON and form bodies alike.
type Fields = orderedmap.OrderedMap[string, any]

// NewFields returns an empty Fields.
func NewFields() *Fields {
	return orderedmap.New[string, any]()
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType == "application/json" || mediaType == "text/json"
}

func encodePayload(data any, contentType string) ([]byte, error) {
	switch v := data.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	}

	if isJSON(contentType) {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		return b, nil
	}

	var pairs []string
	if err := appendForm(&pairs, "", data); err != nil {
		return nil, err
	}
	return []byte(strings.Join(pairs, "&")), nil
}

// appendForm flattens v into key=value pairs. Nested maps and slices
// become key[sub]=value, booleans 1 or 0, and nil values are dropped.
func appendForm(pairs *[]string, prefix string, v any) error {
	key := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "[" + k + "]"
	}

	switch v := v.(type) {
	case nil:
		return nil

	case *Fields:
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			if err := appendForm(pairs, key(pair.Key), pair.Value); err != nil {
				return err
			}
		}
		return nil

	case url.Values:
		for _, k := range slices.Sorted(maps.Keys(v)) {
			for _, s := range v[k] {
				appendPair(pairs, key(k), s)
			}
		}
		return nil

	case map[string]string:
		for _, k := range slices.Sorted(maps.Keys(v)) {
			appendPair(pairs, key(k), v[k])
		}
		return nil

	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(v)) {
			if err := appendForm(pairs, key(k), v[k]); err != nil {
				return err
			}
		}
		return nil

	case []string:
		for i, s := range v {
			appendPair(pairs, key(strconv.Itoa(i)), s)
		}
		return nil

	case []any:
		for i, e := range v {
			if err := appendForm(pairs, key(strconv.Itoa(i)), e); err != nil {
				return err
			}
		}
		return nil
	}

	if prefix == "" {
		return fmt.Errorf("unsupported payload type %T", v)
	}

	switch s := v.(type) {
	case string:
		appendPair(pairs, prefix, s)
	case []byte:
		appendPair(pairs, prefix, string(s))
	case bool:
		if s {
			appendPair(pairs, prefix, "1")
		} else {
			appendPair(pairs, prefix, "0")
		}
	case fmt.Stringer:
		appendPair(pairs, prefix, s.String())
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			for i := range rv.Len() {
				if err := appendForm(pairs, key(strconv.Itoa(i)), rv.Index(i).Interface()); err != nil {
					return err
				}
			}
		case reflect.Map:
			if rv.Type().Key().Kind() != reflect.String {
				return fmt.Errorf("unsupported map key in %T for %q", v, prefix)
			}
			keys := rv.MapKeys()
			slices.SortFunc(keys, func(a, b reflect.Value) int { return strings.Compare(a.String(), b.String()) })
			for _, k := range keys {
				if err := appendForm(pairs, key(k.String()), rv.MapIndex(k).Interface()); err != nil {
					return err
				}
			}
		case reflect.Struct, reflect.Func, reflect.Chan:
			return fmt.Errorf("unsupported value %T for %q", v, prefix)
		default:
			appendPair(pairs, prefix, fmt.Sprint(v))
		}
	}

	return nil
}

func appendPair(pairs *[]string, key, value string) {
	*pairs = append(*pairs, url.QueryEscape(key)+"="+url.QueryEscape(value))
}
