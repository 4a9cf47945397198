package vector

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

var trivialTypes sync.Map // reflect.Type -> bool

// sizeof returns the element stride handed to the storage engine.
func sizeof[T any]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

// mustBeTrivial panics unless T holds no pointers.
func mustBeTrivial[T any]() {
	t := reflect.TypeFor[T]()
	ok, hit := trivialTypes.Load(t)
	if !hit {
		ok = isTriviallyCopyable(t)
		trivialTypes.Store(t, ok)
	}
	if !ok.(bool) {
		panic(fmt.Errorf("%w: %v", ErrNotTriviallyCopyable, t))
	}
}

func isTriviallyCopyable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || isTriviallyCopyable(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !isTriviallyCopyable(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
