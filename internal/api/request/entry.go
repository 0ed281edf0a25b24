package request

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SaveEntryRequest is the body of an entry upsert. Numbers may be sent as
// JSON numbers or strings; absent, null and "" all mean not supplied.
type SaveEntryRequest struct {
	Date     string `json:"date"`
	NetValue Number `json:"netValue"`
	Addition Number `json:"addition"`
	Shares   Number `json:"shares"`
}

// Number is the textual form of an optional numeric field.
type Number string

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return fmt.Errorf("invalid number %s", data)
		}
		*n = Number(num)
	}
	return nil
}

func (n Number) String() string {
	return string(n)
}
