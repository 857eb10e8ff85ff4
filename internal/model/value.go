package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind discriminates the variants of a Value.
type Kind int

const (
	// KindScalar is a single displayable value (string, number, or bool).
	KindScalar Kind = iota

	// KindList is an ordered sequence of Values.
	KindList

	// KindMapping is an ordered sequence of labeled Values.
	KindMapping

	// KindError marks a category or sub-analysis that failed.
	// It carries only a human-readable message, never a stack trace.
	KindError
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Value is an arbitrarily nested analysis result.
// Each analyzer defines its own shape; the orchestrator and renderer
// treat Values opaquely and recurse without a fixed depth limit.
//
// Design decision: Mapping entries are a slice rather than a map so
// that iteration order matches construction order. Renderers must
// produce deterministic output, and Go map iteration would break
// that.
type Value struct {
	// Kind selects which of the following fields is meaningful.
	Kind Kind

	// Scalar holds the display text when Kind is KindScalar,
	// or the failure message when Kind is KindError.
	Scalar string

	// Number holds the numeric value for scalars that were built
	// from numbers. Renderers use Scalar for display; Number exists
	// so aggregate computations (averages, ratios) don't re-parse text.
	Number float64

	// IsNumber reports whether Number carries a meaningful value.
	IsNumber bool

	// List holds the elements when Kind is KindList.
	List []Value

	// Mapping holds the ordered entries when Kind is KindMapping.
	Mapping []Entry
}

// Entry is one labeled element of a mapping Value.
type Entry struct {
	// Label is the display name of the entry.
	Label string

	// Value is the entry's payload, possibly nested.
	Value Value
}

// String creates a scalar Value from a string.
func String(s string) Value {
	return Value{Kind: KindScalar, Scalar: s}
}

// Stringf creates a scalar Value from a format string.
func Stringf(format string, args ...any) Value {
	return String(fmt.Sprintf(format, args...))
}

// Int creates a numeric scalar Value.
func Int(n int) Value {
	return Value{Kind: KindScalar, Scalar: strconv.Itoa(n), Number: float64(n), IsNumber: true}
}

// Float creates a numeric scalar Value formatted with two decimals.
func Float(f float64) Value {
	return Value{Kind: KindScalar, Scalar: strconv.FormatFloat(f, 'f', 2, 64), Number: f, IsNumber: true}
}

// Bool creates a scalar Value rendered as "Yes" or "No".
// The report audience is site operators, not programmers, so we avoid
// raw true/false in the rendered output.
func Bool(b bool) Value {
	if b {
		return String("Yes")
	}
	return String("No")
}

// List creates a list Value from the given elements.
func List(elems ...Value) Value {
	return Value{Kind: KindList, List: elems}
}

// StringList creates a list Value from plain strings.
func StringList(items []string) Value {
	elems := make([]Value, 0, len(items))
	for _, s := range items {
		elems = append(elems, String(s))
	}
	return Value{Kind: KindList, List: elems}
}

// Mapping creates a mapping Value from the given entries.
func Mapping(entries ...Entry) Value {
	return Value{Kind: KindMapping, Mapping: entries}
}

// Pair is a convenience constructor for a mapping entry.
func Pair(label string, value Value) Entry {
	return Entry{Label: label, Value: value}
}

// Errorf creates an error-marker Value with a formatted message.
func Errorf(format string, args ...any) Value {
	return Value{Kind: KindError, Scalar: fmt.Sprintf(format, args...)}
}

// IsError reports whether the value is an error marker.
func (v Value) IsError() bool {
	return v.Kind == KindError
}

// Get returns the value of the mapping entry with the given label.
// The second return is false when the label is absent or the Value
// is not a mapping.
func (v Value) Get(label string) (Value, bool) {
	if v.Kind != KindMapping {
		return Value{}, false
	}
	for _, e := range v.Mapping {
		if e.Label == label {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Append adds an entry to a mapping Value and returns the result.
// Calling Append on a non-mapping Value is a programming error and
// returns the receiver unchanged.
func (v Value) Append(label string, value Value) Value {
	if v.Kind != KindMapping {
		return v
	}
	v.Mapping = append(v.Mapping, Entry{Label: label, Value: value})
	return v
}

// UnmarshalJSON reverses MarshalJSON so stored reports round-trip
// through the history database. Objects are recognized by shape: an
// "_order" key restores a mapping in its original entry order, and a
// lone "_error" key restores an error marker. The underscore prefix
// keeps both keys out of the label space analyzers can produce, so a
// mapping entry labeled "error" stays a mapping.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch t := raw.(type) {
	case string:
		*v = String(t)
		return nil
	case float64:
		*v = Float(t)
		// Re-format integers without the trailing decimals Float adds.
		if t == float64(int64(t)) {
			v.Scalar = strconv.FormatInt(int64(t), 10)
		}
		return nil
	case bool:
		*v = Bool(t)
		return nil
	case []any:
		var elems []Value
		if err := json.Unmarshal(data, &elems); err != nil {
			return err
		}
		*v = Value{Kind: KindList, List: elems}
		return nil
	case map[string]any:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}

		if msg, ok := obj["_error"]; ok && len(obj) == 1 {
			var text string
			if err := json.Unmarshal(msg, &text); err != nil {
				return err
			}
			*v = Value{Kind: KindError, Scalar: text}
			return nil
		}

		var order []string
		if rawOrder, ok := obj["_order"]; ok {
			if err := json.Unmarshal(rawOrder, &order); err != nil {
				return err
			}
		} else {
			for label := range obj {
				order = append(order, label)
			}
			sort.Strings(order)
		}

		entries := make([]Entry, 0, len(order))
		for _, label := range order {
			rawEntry, ok := obj[label]
			if !ok {
				continue
			}
			var entry Value
			if err := json.Unmarshal(rawEntry, &entry); err != nil {
				return err
			}
			entries = append(entries, Entry{Label: label, Value: entry})
		}
		*v = Value{Kind: KindMapping, Mapping: entries}
		return nil
	default:
		return fmt.Errorf("cannot unmarshal %T into Value", raw)
	}
}

// MarshalJSON serializes the variant in a shape the web layer can
// consume directly: scalars as JSON strings or numbers, lists as
// arrays, mappings as objects with an "_order" key preserving entry
// order, and errors as {"_error": message}.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindScalar:
		if v.IsNumber {
			return json.Marshal(v.Number)
		}
		return json.Marshal(v.Scalar)
	case KindList:
		return json.Marshal(v.List)
	case KindMapping:
		obj := make(map[string]json.RawMessage, len(v.Mapping)+1)
		order := make([]string, 0, len(v.Mapping))
		for _, e := range v.Mapping {
			data, err := json.Marshal(e.Value)
			if err != nil {
				return nil, err
			}
			obj[e.Label] = data
			order = append(order, e.Label)
		}
		orderData, err := json.Marshal(order)
		if err != nil {
			return nil, err
		}
		obj["_order"] = orderData
		return json.Marshal(obj)
	case KindError:
		return json.Marshal(map[string]string{"_error": v.Scalar})
	default:
		return nil, fmt.Errorf("unknown value kind %d", int(v.Kind))
	}
}
