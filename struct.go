// github.com/tagawa0525/pdf-masking - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdf

import (
	"reflect"
	"strings"

	"golang.org/x/text/language"
)

// tagInfo is the parsed form of a `pdf:"..."` struct tag.
type tagInfo struct {
	name     string
	optional bool
	typeName string // set only for the "_" marker field, from "Type=X"
}

func parseTag(field reflect.StructField, fallbackName string) tagInfo {
	info := tagInfo{name: fallbackName}
	tag, ok := field.Tag.Lookup("pdf")
	if !ok {
		return info
	}
	for _, part := range strings.Split(tag, ",") {
		switch {
		case part == "optional":
			info.optional = true
		case strings.HasPrefix(part, "Type="):
			info.typeName = strings.TrimPrefix(part, "Type=")
		case part != "":
			info.name = part
		}
	}
	return info
}

// AsDict converts a tagged struct (such as [Catalog] or [Info]) into a PDF
// dictionary. data must be a struct or a pointer to a struct; any other
// value is returned as a Dict{} placeholder if nil, or nil otherwise.
func AsDict(data any) Dict {
	if data == nil {
		return nil
	}
	if d, ok := data.(Dict); ok {
		return d
	}
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return Dict{}
	}

	t := v.Type()
	dict := Dict{}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Name == "_" {
			info := parseTag(field, "")
			if info.typeName != "" {
				dict["Type"] = Name(info.typeName)
			}
			continue
		}
		if !field.IsExported() {
			continue
		}
		info := parseTag(field, field.Name)
		fv := v.Field(i)
		if info.optional && fv.IsZero() {
			continue
		}
		obj := goValueToObject(fv)
		if obj != nil {
			dict[Name(info.name)] = obj
		}
	}
	return dict
}

func goValueToObject(fv reflect.Value) Object {
	switch x := fv.Interface().(type) {
	case Object:
		return x
	case Reference:
		return x
	case Name:
		return x
	case bool:
		return Boolean(x)
	case string:
		return TextString(x).AsPDF(0)
	case Version:
		return Name(x.String())
	case language.Tag:
		if x == (language.Tag{}) {
			return nil
		}
		return TextString(x.String()).AsPDF(0)
	}

	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer(fv.Int())
	case reflect.Float32, reflect.Float64:
		return Real(fv.Float())
	case reflect.String:
		return TextString(fv.String()).AsPDF(0)
	case reflect.Bool:
		return Boolean(fv.Bool())
	}
	return nil
}

// DecodeDict populates the tagged fields of out (a pointer to a struct, such
// as [Catalog] or [Info]) from dict, resolving indirect references against
// r. Unknown dictionary entries are ignored.
func DecodeDict(r Getter, out any, dict Dict) error {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return Error("DecodeDict: out must be a non-nil pointer")
	}
	v = v.Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Name == "_" || !field.IsExported() {
			continue
		}
		info := parseTag(field, field.Name)
		raw, ok := dict[Name(info.name)]
		if !ok || raw == nil {
			continue
		}
		fv := v.Field(i)
		if err := setFieldFromObject(r, fv, raw); err != nil {
			if info.optional {
				continue
			}
			return err
		}
	}
	return nil
}

func setFieldFromObject(r Getter, fv reflect.Value, raw Object) error {
	switch fv.Interface().(type) {
	case Reference:
		if ref, ok := raw.(Reference); ok {
			fv.Set(reflect.ValueOf(ref))
		}
		return nil
	case Object:
		fv.Set(reflect.ValueOf(raw))
		return nil
	}

	resolved, err := Resolve(r, raw)
	if err != nil {
		return err
	}

	switch fv.Kind() {
	case reflect.String:
		switch x := resolved.(type) {
		case Name:
			fv.SetString(string(x))
		case String:
			fv.SetString(string(x.AsTextString()))
		}
	case reflect.Bool:
		if b, ok := resolved.(Boolean); ok {
			fv.SetBool(bool(b))
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n, ok := resolved.(Integer); ok {
			fv.SetInt(int64(n))
		}
	case reflect.Float32, reflect.Float64:
		switch x := resolved.(type) {
		case Real:
			fv.SetFloat(float64(x))
		case Integer:
			fv.SetFloat(float64(x))
		}
	}
	return nil
}
