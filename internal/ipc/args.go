package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Args carries the payload of one call, either as raw JSON from the
// transport or as an in-process Go value (menu clicks, tests).
type Args struct {
	raw   json.RawMessage
	value interface{}
}

// NoArgs is the empty payload.
var NoArgs = Args{}

func RawArgs(raw []byte) Args {
	return Args{raw: json.RawMessage(raw)}
}

func ValueArgs(v interface{}) Args {
	return Args{value: v}
}

// Empty reports whether the call carried no payload at all.
func (a Args) Empty() bool {
	if a.value != nil {
		return false
	}
	if len(a.raw) == 0 {
		return true
	}
	return string(a.raw) == "null"
}

// Value returns the payload as a generic Go value.
func (a Args) Value() (interface{}, error) {
	if a.value != nil {
		return a.value, nil
	}
	if a.Empty() {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal(a.raw, &v); err != nil {
		return nil, fmt.Errorf("ipc: malformed arguments: %w", err)
	}
	return v, nil
}

// Decode fills out from the payload using json field names. Scalars are
// weakly converted ("1" into an int and so on); an empty payload leaves out
// untouched.
func (a Args) Decode(out interface{}) error {
	v, err := a.Value()
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("ipc: cannot decode arguments: %w", err)
	}
	return nil
}

func (a Args) MarshalJSON() ([]byte, error) {
	if a.value != nil {
		return json.Marshal(a.value)
	}
	if len(a.raw) == 0 {
		return []byte("null"), nil
	}
	return a.raw, nil
}
