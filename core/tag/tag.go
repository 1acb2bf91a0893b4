// Package tag fills zero-valued struct fields from `default:"..."` tags.
package tag

import (
	"reflect"
	"strings"

	"github.com/kochabx/clea/errors"
)

var (
	ErrTargetMustBePointer = errors.Internal("tag: target must be a non-nil pointer to a struct")
	ErrUnsupportedType     = errors.Internal("tag: unsupported type")
	ErrMaxDepthExceeded    = errors.Internal("tag: max recursion depth exceeded")
)

// ApplyDefaults sets every zero field of *target that carries a default
// tag. Nested structs, pointers to structs and struct slice elements are
// visited recursively. Fields that already hold a value are left alone.
//
//	type Venue struct {
//	    Duration int    `default:"24"`
//	    Prefix   string `default:"https://tac.gouv.fr/"`
//	}
func ApplyDefaults(target any, opts ...Option) error {
	o := newOptions(opts)

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrTargetMustBePointer
	}
	return o.applyStruct(v.Elem(), "", 0)
}

func (o *Options) applyStruct(v reflect.Value, path string, depth int) error {
	if depth >= o.maxDepth {
		return ErrMaxDepthExceeded.WithMetadata(map[string]string{"path": path})
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}

		fieldPath := field.Name
		if path != "" {
			fieldPath = path + "." + field.Name
		}
		if err := o.applyField(fv, field.Tag.Get(o.tagName), fieldPath, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (o *Options) applyField(v reflect.Value, tagValue, path string, depth int) error {
	switch v.Kind() {
	case reflect.Struct:
		if tagValue == "" || !v.IsZero() {
			return o.applyStruct(v, path, depth)
		}
	case reflect.Pointer:
		if v.Type().Elem().Kind() == reflect.Struct {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			return o.applyStruct(v.Elem(), path, depth)
		}
	case reflect.Slice:
		if v.Len() > 0 {
			for i := 0; i < v.Len(); i++ {
				elem := v.Index(i)
				if elem.Kind() == reflect.Pointer && !elem.IsNil() {
					elem = elem.Elem()
				}
				if elem.Kind() == reflect.Struct {
					if err := o.applyStruct(elem, path, depth); err != nil {
						return err
					}
				}
			}
			return nil
		}
	}

	if tagValue == "" || !v.IsZero() {
		return nil
	}
	if v.Kind() == reflect.Pointer {
		v.Set(reflect.New(v.Type().Elem()))
		v = v.Elem()
	}
	if v.Kind() == reflect.Slice && !isTextUnmarshaler(v) && v.Type().Elem().Kind() != reflect.Uint8 {
		return o.parseSlice(v, tagValue, path)
	}
	if err := o.parser.Parse(v, tagValue); err != nil {
		return newFieldError(path, tagValue, err)
	}
	return nil
}

func (o *Options) parseSlice(v reflect.Value, tagValue, path string) error {
	parts := strings.Split(tagValue, o.separator)
	out := reflect.MakeSlice(v.Type(), len(parts), len(parts))
	for i, part := range parts {
		if err := o.parser.Parse(out.Index(i), strings.TrimSpace(part)); err != nil {
			return newFieldError(path, tagValue, err)
		}
	}
	v.Set(out)
	return nil
}

func newFieldError(path, value string, err error) error {
	return errors.InvalidInputWithMetadata(
		map[string]string{"field": path, "value": value},
		"tag: invalid default for %s", path,
	).WithCause(err)
}
