package filter

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// DefaultDateLayout renders dates as YYYY-MM-DD.
const DefaultDateLayout = "2006-01-02"

// FormatDate renders t with DefaultDateLayout in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DefaultDateLayout)
}

// Encoder turns filter trees into documents. It holds no mutable state and
// may be shared between goroutines.
type Encoder struct {
	dateLayout string
	location   *time.Location
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithDateLayout sets the layout used for every time.Time in the tree.
func WithDateLayout(layout string) Option {
	return func(e *Encoder) {
		if layout != "" {
			e.dateLayout = layout
		}
	}
}

// WithLocation sets the zone dates are converted to before formatting.
func WithLocation(loc *time.Location) Option {
	return func(e *Encoder) {
		if loc != nil {
			e.location = loc
		}
	}
}

func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{
		dateLayout: DefaultDateLayout,
		location:   time.UTC,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode builds the document for the tree rooted at n. A nil root yields an
// empty document.
func (e *Encoder) Encode(n Node) (*Document, error) {
	doc := NewDocument()
	if n == nil {
		return doc, nil
	}
	if err := n.ContributeTo(doc, e); err != nil {
		return nil, err
	}
	return doc, nil
}

func (e *Encoder) FormatDate(t time.Time) string {
	return t.In(e.location).Format(e.dateLayout)
}

// Value normalises v for the wire: dates are formatted at any depth, slices
// and arrays become []interface{} and maps map[string]interface{}.
func (e *Encoder) Value(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return e.FormatDate(t), nil
	case *time.Time:
		if t == nil {
			return nil, nil
		}
		return e.FormatDate(*t), nil
	case *Document, *DocumentList, json.Number, string, bool:
		return v, nil
	}

	rv := reflect.ValueOf(v)
	if t, ok := asTime(rv); ok {
		return e.FormatDate(t), nil
	}
	if _, ok := v.(json.Marshaler); ok {
		return v, nil
	}

	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v, nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedValue, f)
		}
		return v, nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v, nil
		}
		if rv.IsNil() {
			return []interface{}{}, nil
		}
		return e.list(rv)
	case reflect.Array:
		return e.list(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key %s", ErrUnsupportedValue, rv.Type().Key())
		}
		if rv.IsNil() {
			return nil, nil
		}
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			x, err := e.Value(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = x
		}
		return out, nil
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return e.Value(rv.Elem().Interface())
	case reflect.Struct:
		doc := NewDocument()
		if err := e.fields(doc, rv); err != nil {
			return nil, err
		}
		return doc, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

// asTime reports whether rv holds a date: a time.Time, a type converting to
// it, or a struct embedding it such as a JSON timestamp wrapper.
func asTime(rv reflect.Value) (time.Time, bool) {
	if !rv.IsValid() {
		return time.Time{}, false
	}
	if rv.Type().ConvertibleTo(timeType) {
		return rv.Convert(timeType).Interface().(time.Time), true
	}
	if rv.Kind() != reflect.Struct {
		return time.Time{}, false
	}
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Type().Field(i)
		if f.Anonymous && f.Type == timeType {
			return rv.Field(i).Interface().(time.Time), true
		}
	}
	return time.Time{}, false
}

// fields writes the exported fields of a struct into doc using the names
// and options of their json tags. Untagged embedded structs are inlined.
func (e *Encoder) fields(doc *Document, rv reflect.Value) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		fv := rv.Field(i)

		if f.Anonymous && name == "" {
			inner := fv
			if inner.Kind() == reflect.Ptr {
				if inner.IsNil() {
					continue
				}
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				if _, isTime := asTime(inner); !isTime {
					if err := e.fields(doc, inner); err != nil {
						return err
					}
					continue
				}
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if strings.Contains(opts, "omitempty") && fv.IsZero() {
			continue
		}
		x, err := e.Value(fv.Interface())
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		doc.Set(name, x)
	}
	return nil
}

func (e *Encoder) list(rv reflect.Value) ([]interface{}, error) {
	out := make([]interface{}, rv.Len())
	for i := range out {
		x, err := e.Value(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}
