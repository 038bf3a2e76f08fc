package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/valyala/bytebufferpool"
	"gopkg.in/mgo.v2/bson"
)

// Element is one key/value pair of a Document.
type Element struct {
	Key   string
	Value interface{}
}

// Document is a keyed container that keeps insertion order. Values are
// scalars, *Document, *DocumentList or []interface{}.
type Document struct {
	elems []Element
	index map[string]int
}

func NewDocument() *Document {
	return &Document{index: map[string]int{}}
}

// Set stores value under key. An existing key keeps its position and gets
// the new value.
func (d *Document) Set(key string, value interface{}) {
	if d.index == nil {
		d.index = map[string]int{}
	}
	if i, ok := d.index[key]; ok {
		d.elems[i].Value = value
		return
	}
	d.index[key] = len(d.elems)
	d.elems = append(d.elems, Element{Key: key, Value: value})
}

// Nest opens a new sub-document under key.
func (d *Document) Nest(key string) *Document {
	sub := NewDocument()
	d.Set(key, sub)
	return sub
}

// List opens a new list under key.
func (d *Document) List(key string) *DocumentList {
	l := &DocumentList{}
	d.Set(key, l)
	return l
}

func (d *Document) Get(key string) (interface{}, bool) {
	if d == nil {
		return nil, false
	}
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.elems[i].Value, true
}

func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.elems)
}

func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, len(d.elems))
	for i, e := range d.elems {
		keys[i] = e.Key
	}
	return keys
}

// Elements returns a copy of the pairs in insertion order.
func (d *Document) Elements() []Element {
	if d == nil {
		return nil
	}
	out := make([]Element, len(d.elems))
	copy(out, d.elems)
	return out
}

// DocumentList is an ordered list value, used for "$or" alternatives.
type DocumentList struct {
	items []interface{}
}

// AppendDocument adds a new empty document to the list and returns it.
func (l *DocumentList) AppendDocument() *Document {
	doc := NewDocument()
	l.items = append(l.items, doc)
	return doc
}

func (l *DocumentList) Append(v interface{}) {
	l.items = append(l.items, v)
}

func (l *DocumentList) Len() int {
	return len(l.items)
}

func (l *DocumentList) Items() []interface{} {
	out := make([]interface{}, len(l.items))
	copy(out, l.items)
	return out
}

func (d *Document) MarshalJSON() ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := d.writeJSON(buf); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

func (l *DocumentList) MarshalJSON() ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := writeList(buf, l.items); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

func (d *Document) writeJSON(buf *bytebufferpool.ByteBuffer) error {
	if d == nil {
		buf.WriteString("null")
		return nil
	}
	buf.WriteByte('{')
	for i, e := range d.elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := writeValue(buf, e.Value); err != nil {
			return fmt.Errorf("key %q: %w", e.Key, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeList(buf *bytebufferpool.ByteBuffer, items []interface{}) error {
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(buf, item); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeValue(buf *bytebufferpool.ByteBuffer, v interface{}) error {
	switch t := v.(type) {
	case *Document:
		return t.writeJSON(buf)
	case *DocumentList:
		if t == nil {
			buf.WriteString("null")
			return nil
		}
		return writeList(buf, t.items)
	case []interface{}:
		if t == nil {
			buf.WriteString("null")
			return nil
		}
		return writeList(buf, t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// UnmarshalJSON decodes a JSON object keeping key order. Nested objects
// become *Document, arrays []interface{} and numbers json.Number.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("filter: document must be a JSON object, got %v", tok)
	}
	*d = Document{index: map[string]int{}}
	return d.decodeObject(dec)
}

func (d *Document) decodeObject(dec *json.Decoder) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("filter: unexpected object key %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return err
		}
		d.Set(key, v)
	}
	_, err := dec.Token()
	return err
}

func decodeValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		sub := NewDocument()
		if err := sub.decodeObject(dec); err != nil {
			return nil, err
		}
		return sub, nil
	case '[':
		items := []interface{}{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return items, nil
	}
	return nil, fmt.Errorf("filter: unexpected delimiter %v", delim)
}

// GetBSON lets mgo marshal the document with its key order intact.
func (d *Document) GetBSON() (interface{}, error) {
	return d.BSON(), nil
}

// BSON converts the document into an ordered bson.D. JSON numbers become
// int64 when integral, float64 otherwise.
func (d *Document) BSON() bson.D {
	if d == nil {
		return nil
	}
	out := make(bson.D, 0, len(d.elems))
	for _, e := range d.elems {
		out = append(out, bson.DocElem{Name: e.Key, Value: toBSONValue(e.Value)})
	}
	return out
}

// BSONValue converts a decoded document value for mgo.
func BSONValue(v interface{}) interface{} {
	return toBSONValue(v)
}

func toBSONValue(v interface{}) interface{} {
	switch t := v.(type) {
	case *Document:
		return t.BSON()
	case *DocumentList:
		return toBSONList(t.items)
	case []interface{}:
		return toBSONList(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	}
	return v
}

func toBSONList(items []interface{}) []interface{} {
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = toBSONValue(item)
	}
	return out
}

// Equal reports whether a and b hold the same content. Keys are compared as
// sets, lists in order, and numbers by value whatever their Go type.
func Equal(a, b *Document) bool {
	return reflect.DeepEqual(canonical(a), canonical(b))
}

func canonical(v interface{}) interface{} {
	switch t := v.(type) {
	case *Document:
		if t == nil {
			return nil
		}
		m := make(map[string]interface{}, len(t.elems))
		for _, e := range t.elems {
			m[e.Key] = canonical(e.Value)
		}
		return m
	case *DocumentList:
		if t == nil {
			return nil
		}
		return canonicalList(t.items)
	case []interface{}:
		return canonicalList(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []string:
		out := make([]interface{}, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) {
			return "NaN"
		}
		return f
	}
	return v
}

func canonicalList(items []interface{}) []interface{} {
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = canonical(item)
	}
	return out
}
