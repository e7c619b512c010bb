package store

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"
)

// matches evaluates filter against record in process. Used by the file
// backend; the database backends push filters down to the server.
func matches(record Record, filter Filter) bool {
	for _, cond := range filter {
		got, ok := record[cond.Field]
		switch cond.Op {
		case OpEq:
			if !equal(got, cond.Value) {
				return false
			}
		case OpGte:
			if !ok || compare(got, cond.Value) < 0 || rank(got) != rank(cond.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// splitIDCondition pulls an equality on the identifier out of filter.
func splitIDCondition(filter Filter) (id string, rest Filter, ok bool) {
	for i, c := range filter {
		if c.Field != IDField || c.Op != OpEq {
			continue
		}
		v, isString := c.Value.(string)
		if !isString {
			continue
		}
		rest = make(Filter, 0, len(filter)-1)
		rest = append(rest, filter[:i]...)
		rest = append(rest, filter[i+1:]...)
		return v, rest, true
	}
	return "", filter, false
}

func sortRecords(records []Record, s *Sort) {
	if s == nil {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		c := compare(records[i][s.Field], records[j][s.Field])
		if s.Desc {
			return c > 0
		}
		return c < 0
	})
}

func equal(a, b any) bool {
	if af, ok := number(a); ok {
		bf, ok := number(b)
		return ok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

// compare orders values the way a document database would: missing values
// first, then numbers, strings, booleans and everything else.
func compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 1:
		af, _ := number(a)
		bf, _ := number(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	case 2:
		return strings.Compare(a.(string), b.(string))
	case 3:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		}
		return 1
	}
	return 0
}

func rank(v any) int {
	if v == nil {
		return 0
	}
	if _, ok := number(v); ok {
		return 1
	}
	switch v.(type) {
	case string:
		return 2
	case bool:
		return 3
	}
	return 4
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
