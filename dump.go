package logx

import (
	"fmt"
	"reflect"
)

// Maximum recursion depth to prevent stack overflow
const maxDumpDepth = 10

// maxDumpElements limits how many slice or array elements are shown.
const maxDumpElements = 10

// Dump writes the contents of v as DEBUG records under tag, one record per
// line. Structs show exported fields, maps and slices their elements.
func (w *Writer) Dump(tag string, v any) {
	if !w.Config().Emits(DEBUG) {
		return
	}
	caller := w.callers()
	d := dumper{
		emit:    func(msg string) { w.Emit(DEBUG, tag, msg, caller) },
		visited: make(map[uintptr]bool),
	}
	if v == nil {
		d.emit("Dump: <nil>")
		return
	}
	d.dumpValue(v, "", 0)
}

type dumper struct {
	emit    func(string)
	visited map[uintptr]bool
}

func (d *dumper) emitf(format string, args ...any) {
	d.emit(fmt.Sprintf(format, args...))
}

func (d *dumper) dumpValue(v any, prefix string, depth int) {
	if depth > maxDumpDepth {
		d.emitf("%s: <max depth reached>", prefix)
		return
	}
	if v == nil {
		d.emitf("%s: <nil>", prefix)
		return
	}

	val := reflect.ValueOf(v)

	// Unwrap interfaces and pointers, watching for cycles.
	for {
		switch val.Kind() {
		case reflect.Interface:
			if val.IsNil() {
				d.emitf("%s: <nil>", prefix)
				return
			}
			val = val.Elem()
			continue
		case reflect.Ptr:
			if val.IsNil() {
				d.emitf("%s: <nil>", prefix)
				return
			}
			ptr := val.Pointer()
			if d.visited[ptr] {
				d.emitf("%s: <circular reference>", prefix)
				return
			}
			d.visited[ptr] = true
			val = val.Elem()
		default:
		}
		break
	}

	typ := val.Type()

	switch val.Kind() {
	case reflect.Struct:
		if prefix == "" {
			d.emitf("Struct: %s", typ.Name())
		} else {
			d.emitf("%s: %s {", prefix, typ.Name())
		}
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			fieldVal := val.Field(i)
			if !fieldVal.CanInterface() {
				continue
			}
			fieldPrefix := field.Name
			if prefix != "" {
				fieldPrefix = prefix + "." + field.Name
			}
			d.dumpValue(fieldVal.Interface(), fieldPrefix, depth+1)
		}
		if prefix != "" {
			d.emitf("%s: }", prefix)
		}

	case reflect.Map:
		d.emitf("%s: map[%s]%s (len: %d) {", prefix, typ.Key(), typ.Elem(), val.Len())
		iter := val.MapRange()
		for iter.Next() {
			mapPrefix := fmt.Sprintf("%s[%v]", prefix, iter.Key().Interface())
			d.dumpValue(iter.Value().Interface(), mapPrefix, depth+1)
		}
		d.emitf("%s: }", prefix)

	case reflect.Slice, reflect.Array:
		d.emitf("%s: %s (len: %d) {", prefix, typ, val.Len())
		for i := 0; i < val.Len() && i < maxDumpElements; i++ {
			elem := val.Index(i)
			elemPrefix := fmt.Sprintf("%s[%d]", prefix, i)
			if elem.CanInterface() {
				d.dumpValue(elem.Interface(), elemPrefix, depth+1)
			} else {
				d.dumpValue(reflect.Zero(elem.Type()).Interface(), elemPrefix, depth+1)
			}
		}
		if val.Len() > maxDumpElements {
			d.emitf("%s: ... (%d more elements)", prefix, val.Len()-maxDumpElements)
		}
		d.emitf("%s: }", prefix)

	default:
		if val.IsValid() && val.CanInterface() {
			d.emitf("%s: %v", prefix, val.Interface())
		} else {
			d.emitf("%s: %v", prefix, v)
		}
	}
}
