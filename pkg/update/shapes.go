package update

import (
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// checkFields validates the values an operator accepts. Operators taking
// arbitrary values are not checked.
func checkFields(op Operator, doc bson.D) error {
	if len(doc) == 0 {
		return fmt.Errorf("%w: %s has no fields", ErrInvalidUpdate, op)
	}
	for _, f := range doc {
		if f.Key == "" {
			return fmt.Errorf("%w: %s has an empty field name", ErrInvalidUpdate, op)
		}
		var ok bool
		switch op {
		case BitOp:
			ok = isBitwise(f.Value)
		case CurrentDateOp:
			ok = isCurrentDate(f.Value)
		case PopOp:
			n, isNum := number(f.Value)
			ok = isNum && (n == 1 || n == -1)
		case UnsetOp:
			ok = f.Value == "" || f.Value == true
			if n, isNum := number(f.Value); isNum && n == 1 {
				ok = true
			}
		case IncOp, MulOp:
			_, ok = number(f.Value)
			if _, isDecimal := f.Value.(primitive.Decimal128); isDecimal {
				ok = true
			}
		case RenameOp:
			s, isString := f.Value.(string)
			ok = isString && s != ""
		default:
			ok = true
		}
		if !ok {
			return fmt.Errorf("%w: %s value for %q: %v", ErrInvalidUpdate, op, f.Key, f.Value)
		}
	}
	return nil
}

// isBitwise accepts {and|or|xor: integer}.
func isBitwise(v any) bool {
	doc, ok := document(v)
	if !ok || len(doc) != 1 {
		return false
	}
	switch doc[0].Key {
	case "and", "or", "xor":
		return isInteger(doc[0].Value)
	}
	return false
}

// isCurrentDate accepts true or {$type: "date"|"timestamp"}.
func isCurrentDate(v any) bool {
	if v == true {
		return true
	}
	doc, ok := document(v)
	if !ok || len(doc) != 1 || doc[0].Key != "$type" {
		return false
	}
	return doc[0].Value == "date" || doc[0].Value == "timestamp"
}

func document(v any) (bson.D, bool) {
	switch d := v.(type) {
	case bson.D:
		return d, true
	case bson.M:
		return sortedDocument(d), true
	case map[string]any:
		return sortedDocument(d), true
	}
	return nil, false
}

// number converts any Go numeric value to float64.
func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func isInteger(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
