package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// RecordID is a row identifier as delivered by the backend. PostgREST sends
// bigint keys as numbers and uuid keys as strings; Mongo may hold either, or
// an ObjectID.
type RecordID string

// Numeric reports the identifier as a number when it parses as one.
func (id RecordID) Numeric() (float64, bool) {
	raw := strings.TrimSpace(string(id))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// UnmarshalJSON accepts string, number and null identifiers.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode record id: %w", err)
		}
		*id = RecordID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("decode record id: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

// UnmarshalBSONValue accepts string, integer, double and ObjectID identifiers.
func (id *RecordID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	v := bsoncore.Value{Type: t, Data: data}

	switch t {
	case bsontype.String:
		*id = RecordID(v.StringValue())
	case bsontype.Int32:
		*id = RecordID(strconv.FormatInt(int64(v.Int32()), 10))
	case bsontype.Int64:
		*id = RecordID(strconv.FormatInt(v.Int64(), 10))
	case bsontype.Double:
		*id = RecordID(strconv.FormatFloat(v.Double(), 'f', -1, 64))
	case bsontype.ObjectID:
		*id = RecordID(v.ObjectID().Hex())
	case bsontype.Null, bsontype.Undefined:
		*id = ""
	default:
		return fmt.Errorf("unsupported bson type %s for record id", t)
	}

	return nil
}
