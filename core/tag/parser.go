package tag

import (
	"encoding"
	"encoding/hex"
	"reflect"
	"strconv"
	"time"
)

// ValueParser converts a tag string into value.
type ValueParser interface {
	Parse(value reflect.Value, str string) error
}

type defaultParser struct{}

var durationType = reflect.TypeFor[time.Duration]()

// Parse handles encoding.TextUnmarshaler, strings, numbers, booleans,
// durations and hex encoded byte slices.
func (defaultParser) Parse(value reflect.Value, str string) error {
	if u, ok := textUnmarshaler(value); ok {
		return u.UnmarshalText([]byte(str))
	}

	switch value.Kind() {
	case reflect.String:
		value.SetString(str)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if value.Type() == durationType {
			d, err := time.ParseDuration(str)
			if err != nil {
				return err
			}
			value.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(str, 10, value.Type().Bits())
		if err != nil {
			return err
		}
		value.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(str, 10, value.Type().Bits())
		if err != nil {
			return err
		}
		value.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(str, value.Type().Bits())
		if err != nil {
			return err
		}
		value.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(str)
		if err != nil {
			return err
		}
		value.SetBool(b)
	case reflect.Slice:
		if value.Type().Elem().Kind() != reflect.Uint8 {
			return ErrUnsupportedType
		}
		b, err := hex.DecodeString(str)
		if err != nil {
			return err
		}
		value.SetBytes(b)
	default:
		return ErrUnsupportedType
	}
	return nil
}

func textUnmarshaler(v reflect.Value) (encoding.TextUnmarshaler, bool) {
	if !v.CanAddr() {
		return nil, false
	}
	u, ok := v.Addr().Interface().(encoding.TextUnmarshaler)
	return u, ok
}

func isTextUnmarshaler(v reflect.Value) bool {
	_, ok := textUnmarshaler(v)
	return ok
}
