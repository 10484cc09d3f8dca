package grid

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
	"time"

	"fyne.io/fyne/v2"
)

var errUncomparableKey = errors.New("grid: item key is not comparable")

// DenseIndex maps an item key to its gap-free position among the non-filtered
// items in sort order.
type DenseIndex map[any]int

// Len returns the number of placed items.
func (d DenseIndex) Len() int {
	return len(d)
}

// Lookup returns the dense index of key.
func (d DenseIndex) Lookup(key any) (int, bool) {
	if !comparableKey(key) {
		return -1, false
	}
	i, ok := d[key]
	return i, ok
}

// BuildIndex stable-sorts items ascending by their sort property, skips the
// filtered ones and numbers the rest 0..M-1. Ties keep collection order.
// Keys must be unique: the first item in sort order wins a duplicated key
// and the others stay unplaced.
func BuildIndex(items []Item, keyProp, sortProp, filterProp string) DenseIndex {
	index, _ := buildIndex(items, keyProp, sortProp, filterProp)
	return index
}

// buildIndex also reports, per placed key, the collection position of the
// item that owns it.
func buildIndex(items []Item, keyProp, sortProp, filterProp string) (DenseIndex, map[any]int) {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return CompareValues(items[a].Prop(sortProp), items[b].Prop(sortProp))
	})

	index := make(DenseIndex, len(items))
	owners := make(map[any]int, len(items))
	next := 0
	for _, i := range order {
		item := items[i]
		if Truthy(item.Prop(filterProp)) {
			continue
		}
		key := item.Prop(keyProp)
		if !comparableKey(key) {
			fyne.LogError(fmt.Sprintf("Skipping grid item %d", i), fmt.Errorf("%w: %T", errUncomparableKey, key))
			continue
		}
		if _, dup := index[key]; dup {
			continue
		}
		index[key] = next
		owners[key] = i
		next++
	}
	return index, owners
}

// Duplicates returns every key that appears on more than one item, in order
// of second appearance.
func Duplicates(items []Item, keyProp string) []any {
	seen := make(map[any]int, len(items))
	var dups []any
	for _, item := range items {
		key := item.Prop(keyProp)
		if !comparableKey(key) {
			continue
		}
		seen[key]++
		if seen[key] == 2 {
			dups = append(dups, key)
		}
	}
	return dups
}

func comparableKey(key any) bool {
	if key == nil {
		return true
	}
	return reflect.TypeOf(key).Comparable()
}

// Truthy reports whether v counts as set: true, a non-zero number, a
// non-empty string, or any other non-nil value.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String() != ""
	}
	return true
}

// value kinds in the order mixed values sort.
const (
	rankNumber = iota
	rankString
	rankBool
	rankTime
	rankOther
	rankMissing
)

// CompareValues orders two sort values. Numbers compare numerically
// whatever their Go type, strings lexically, false before true, times
// chronologically and Stringers by their string. Values of different kinds
// order by kind; nil and NaN sort after everything else.
func CompareValues(a, b any) int {
	ra, fa, sa, ta := classify(a)
	rb, fb, sb, tb := classify(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case rankNumber, rankBool:
		return cmp.Compare(fa, fb)
	case rankString, rankOther:
		return strings.Compare(sa, sb)
	case rankTime:
		return ta.Compare(tb)
	}
	return 0
}

func classify(v any) (rank int, f float64, s string, t time.Time) {
	switch x := v.(type) {
	case nil:
		return rankMissing, 0, "", t
	case string:
		return rankString, 0, x, t
	case bool:
		if x {
			return rankBool, 1, "", t
		}
		return rankBool, 0, "", t
	case time.Time:
		return rankTime, 0, "", x
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rankNumber, float64(rv.Int()), "", t
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rankNumber, float64(rv.Uint()), "", t
	case reflect.Float32, reflect.Float64:
		f = rv.Float()
		if math.IsNaN(f) {
			return rankMissing, 0, "", t
		}
		return rankNumber, f, "", t
	case reflect.String:
		return rankString, 0, rv.String(), t
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return rankMissing, 0, "", t
		}
	}
	if st, ok := v.(fmt.Stringer); ok {
		return rankOther, 0, st.String(), t
	}
	return rankOther, 0, fmt.Sprint(v), t
}
