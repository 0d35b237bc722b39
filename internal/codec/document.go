package codec

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dateLayout stores calendar dates (plan start, flex run date, birthday)
// without a time zone so they survive a round trip unchanged.
const dateLayout = "2006-01-02"

// document is a decoded BSON document with lenient typed getters. Missing or
// mistyped fields read as the zero value, which keeps older documents readable.
type document bson.M

func asDocument(v interface{}) (document, bool) {
	switch d := v.(type) {
	case bson.M:
		return document(d), true
	case map[string]interface{}:
		return document(d), true
	case bson.D:
		m := make(document, len(d))
		for _, e := range d {
			m[e.Key] = e.Value
		}
		return m, true
	case bson.Raw:
		var m bson.M
		if err := bson.Unmarshal(d, &m); err != nil {
			return nil, false
		}
		return document(m), true
	default:
		return nil, false
	}
}

func (d document) str(key string) string {
	if s, ok := d[key].(string); ok {
		return s
	}
	return ""
}

func (d document) boolean(key string) bool {
	if b, ok := d[key].(bool); ok {
		return b
	}
	return false
}

func (d document) int64(key string) int64 {
	switch n := d[key].(type) {
	case int32:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func (d document) int(key string) int {
	return int(d.int64(key))
}

func (d document) float(key string) float64 {
	switch n := d[key].(type) {
	case float64:
		return n
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (d document) time(key string) time.Time {
	switch t := d[key].(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	case int64: // epoch millis written by older versions
		return time.UnixMilli(t).UTC()
	default:
		return time.Time{}
	}
}

func (d document) date(key string) *time.Time {
	switch v := d[key].(type) {
	case string:
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil
		}
		return &t
	case primitive.DateTime:
		t := v.Time().UTC()
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &t
	default:
		return nil
	}
}

// list returns the nested documents of an array field. ok is false when the
// field is present but is not an array of documents.
func (d document) list(key string) (docs []document, ok bool) {
	raw, present := d[key]
	if !present || raw == nil {
		return nil, true
	}
	var items []interface{}
	switch a := raw.(type) {
	case bson.A:
		items = a
	case []interface{}:
		items = a
	default:
		return nil, false
	}
	docs = make([]document, 0, len(items))
	for _, item := range items {
		doc, isDoc := asDocument(item)
		if !isDoc {
			return nil, false
		}
		docs = append(docs, doc)
	}
	return docs, true
}

func dateTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return primitive.NewDateTimeFromTime(t)
}

func calendarDate(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Format(dateLayout)
}
