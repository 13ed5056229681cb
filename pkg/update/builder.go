// Package update builds MongoDB update documents operator by operator.
//
//	doc, err := update.New().
//		Set(bson.M{"bestFriend": bson.M{"name": "Bob"}}).
//		Push(bson.M{"friends": bson.M{"name": "Jill"}}).
//		Build()
package update

import (
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
)

type entry struct {
	op     Operator
	fields bson.D
}

// Builder accumulates {operator: fields} entries. Methods chain; the first
// malformed entry is remembered and returned by Build.
type Builder struct {
	entries []entry
	err     error
}

func New() *Builder {
	return &Builder{}
}

// Add appends an {op: fields} entry. fields is a bson.D, a bson.M, a
// map[string]any or any struct the driver can encode as a document.
func (b *Builder) Add(op Operator, fields any) *Builder {
	if b.err != nil {
		return b
	}
	if !op.Valid() {
		b.err = fmt.Errorf("%w: unknown operator %q", ErrInvalidUpdate, op)
		return b
	}
	doc, err := toDocument(fields)
	if err != nil {
		b.err = fmt.Errorf("%w: %s fields: %v", ErrInvalidUpdate, op, err)
		return b
	}
	if err := checkFields(op, doc); err != nil {
		b.err = err
		return b
	}
	b.entries = append(b.entries, entry{op: op, fields: doc})
	return b
}

func (b *Builder) AddToSet(fields any) *Builder    { return b.Add(AddToSetOp, fields) }
func (b *Builder) Bit(fields any) *Builder         { return b.Add(BitOp, fields) }
func (b *Builder) CurrentDate(fields any) *Builder { return b.Add(CurrentDateOp, fields) }
func (b *Builder) Inc(fields any) *Builder         { return b.Add(IncOp, fields) }
func (b *Builder) Min(fields any) *Builder         { return b.Add(MinOp, fields) }
func (b *Builder) Max(fields any) *Builder         { return b.Add(MaxOp, fields) }
func (b *Builder) Mul(fields any) *Builder         { return b.Add(MulOp, fields) }
func (b *Builder) Pop(fields any) *Builder         { return b.Add(PopOp, fields) }
func (b *Builder) Pull(fields any) *Builder        { return b.Add(PullOp, fields) }
func (b *Builder) PullAll(fields any) *Builder     { return b.Add(PullAllOp, fields) }
func (b *Builder) Push(fields any) *Builder        { return b.Add(PushOp, fields) }
func (b *Builder) Set(fields any) *Builder         { return b.Add(SetOp, fields) }
func (b *Builder) SetOnInsert(fields any) *Builder { return b.Add(SetOnInsertOp, fields) }
func (b *Builder) Unset(fields any) *Builder       { return b.Add(UnsetOp, fields) }

// Rename maps old field names to new ones.
func (b *Builder) Rename(fields map[string]string) *Builder {
	m := make(bson.M, len(fields))
	for from, to := range fields {
		m[from] = to
	}
	return b.Add(RenameOp, m)
}

// Err returns the first malformed entry, if any.
func (b *Builder) Err() error {
	return b.err
}

// Len returns the number of entries added so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Build folds the entries into one update document. Operators keep the order
// of their first use; fields of a repeated operator are merged, later values
// replacing earlier ones in place. A repeated operator therefore does not
// discard the fields added by its earlier uses.
func (b *Builder) Build() (bson.D, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.entries) == 0 {
		return nil, ErrEmptyUpdate
	}
	var out bson.D
	index := map[Operator]int{}
	for _, e := range b.entries {
		i, ok := index[e.op]
		if !ok {
			index[e.op] = len(out)
			out = append(out, bson.E{Key: string(e.op), Value: append(bson.D(nil), e.fields...)})
			continue
		}
		out[i].Value = mergeFields(out[i].Value.(bson.D), e.fields)
	}
	return out, nil
}

func mergeFields(dst, src bson.D) bson.D {
	for _, f := range src {
		replaced := false
		for i := range dst {
			if dst[i].Key == f.Key {
				dst[i].Value = f.Value
				replaced = true
				break
			}
		}
		if !replaced {
			dst = append(dst, f)
		}
	}
	return dst
}

// toDocument normalizes fields to an ordered document. Map keys are sorted.
func toDocument(fields any) (bson.D, error) {
	switch v := fields.(type) {
	case nil:
		return nil, fmt.Errorf("fields must be a document, got nil")
	case bson.D:
		return v, nil
	case bson.M:
		return sortedDocument(v), nil
	case map[string]any:
		return sortedDocument(v), nil
	}
	data, err := bson.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func sortedDocument(m map[string]any) bson.D {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	doc := make(bson.D, 0, len(keys))
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k, Value: m[k]})
	}
	return doc
}
