// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"fmt"
	"reflect"
)

// Decode copies resolved values into the struct pointed to by dst. Struct
// fields are matched by their `arg:"name"` tag; untagged fields are left
// alone, so a struct may carry extra state that never comes from arguments.
//
//	type Config struct {
//	    Input    string              `arg:"input_file"`
//	    Verbose  bool                `arg:"verbose"`
//	    Template cast.Opt[string]    `arg:"template"`
//	    Limit    *int                `arg:"limit"` // nil when None
//	    cache    map[string]string   // untouched
//	}
func (c *Config) Decode(dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a non-nil pointer to a struct, got %T", dst)
	}
	v = v.Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name := sf.Tag.Get("arg")
		if name == "" || name == "-" {
			continue
		}
		if !sf.IsExported() {
			return fmt.Errorf("field %s tagged %q is unexported", sf.Name, name)
		}
		val, ok := c.Value(name)
		if !ok {
			return fmt.Errorf("field %s: no argument named %q", sf.Name, name)
		}
		if err := assign(v.Field(i), val); err != nil {
			return fmt.Errorf("field %s: %w", sf.Name, err)
		}
	}
	return nil
}

// optionalValue is implemented by cast.Opt.
type optionalValue interface {
	Any() (any, bool)
}

func assign(field reflect.Value, val any) error {
	if val == nil {
		field.SetZero()
		return nil
	}
	rv := reflect.ValueOf(val)
	o, isOpt := val.(optionalValue)
	switch {
	case rv.Type().AssignableTo(field.Type()):
		field.Set(rv)
	case isOpt && field.Kind() == reflect.Pointer:
		inner, ok := o.Any()
		if !ok {
			field.SetZero()
			return nil
		}
		p := reflect.New(field.Type().Elem())
		if err := assign(p.Elem(), inner); err != nil {
			return err
		}
		field.Set(p)
	case isNumeric(rv.Kind()) && isNumeric(field.Kind()):
		field.Set(rv.Convert(field.Type()))
	case field.Kind() == reflect.Pointer && rv.Type().AssignableTo(field.Type().Elem()):
		p := reflect.New(field.Type().Elem())
		p.Elem().Set(rv)
		field.Set(p)
	default:
		return fmt.Errorf("cannot assign %s to %s", rv.Type(), field.Type())
	}
	return nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
