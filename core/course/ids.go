package course

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ID is the canonical form of an entity id.
//
// Stores return ids either as JSON numbers or as JSON strings, sometimes both for
// the same entity depending on the endpoint. Every id is normalized when decoded so
// that plain == comparison is always correct: integer ids lose leading zeros and
// surrounding whitespace, anything else is kept as a trimmed string.
type ID string

// NewID normalizes a raw id.
func NewID(raw string) ID {
	raw = strings.TrimSpace(raw)
	if n, ok := parseIntegral(raw); ok {
		return IntID(n)
	}
	return ID(raw)
}

// parseIntegral reads "7", "007" and "7.0" alike; floats such as 3.0 come from loosely typed stores.
func parseIntegral(raw string) (int64, bool) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func IntID(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return id == "" }

// Int returns the numeric value of id, when it has one.
func (id ID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if n, ok := id.Int(); ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decoding string id")
		}
		*id = NewID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrap(err, "decoding numeric id")
	}
	i, ok := parseIntegral(n.String())
	if !ok {
		return errors.Errorf("invalid id %s", data)
	}
	*id = IntID(i)
	return nil
}

// IDSet is an insertion-ordered set of ids.
// It is stored remotely as a plain array, which has no uniqueness constraint.
type IDSet struct {
	ids []ID
}

func NewIDSet(ids ...ID) IDSet {
	var s IDSet
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s IDSet) Len() int { return len(s.ids) }

func (s IDSet) Contains(id ID) bool {
	id = NewID(string(id))
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Add appends id and reports whether it was missing.
func (s *IDSet) Add(id ID) bool {
	id = NewID(string(id))
	if id.IsZero() || s.Contains(id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove drops id and reports whether it was present.
func (s *IDSet) Remove(id ID) bool {
	id = NewID(string(id))
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			return true
		}
	}
	return false
}

// Slice returns a copy of the ids in insertion order.
func (s IDSet) Slice() []ID {
	out := make([]ID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Clone returns an independent copy of s.
func (s IDSet) Clone() IDSet {
	return IDSet{ids: s.Slice()}
}

func (s IDSet) MarshalJSON() ([]byte, error) {
	if s.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.ids)
}

func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []ID
	if err := json.Unmarshal(data, &ids); err != nil {
		return errors.Wrap(err, "decoding id set")
	}
	*s = NewIDSet(ids...)
	return nil
}
