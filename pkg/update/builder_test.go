package update

import (
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuild(t *testing.T) {
	got, err := New().
		Set(bson.M{"bestFriend": bson.M{"name": "Bob"}}).
		Push(bson.M{"friends": bson.M{"name": "Jill"}}).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := bson.D{
		{Key: "$set", Value: bson.D{{Key: "bestFriend", Value: bson.M{"name": "Bob"}}}},
		{Key: "$push", Value: bson.D{{Key: "friends", Value: bson.M{"name": "Jill"}}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() = %v, want %v", got, want)
	}
}

func TestBuildMergesRepeatedOperators(t *testing.T) {
	b := New().
		Set(bson.D{{Key: "a", Value: 1}, {Key: "b", Value: 2}}).
		Inc(bson.M{"count": 1}).
		Set(bson.D{{Key: "a", Value: 10}, {Key: "c", Value: 3}}).
		Unset(bson.M{"old": ""})
	got, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := bson.D{
		{Key: "$set", Value: bson.D{{Key: "a", Value: 10}, {Key: "b", Value: 2}, {Key: "c", Value: 3}}},
		{Key: "$inc", Value: bson.D{{Key: "count", Value: 1}}},
		{Key: "$unset", Value: bson.D{{Key: "old", Value: ""}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() = %v, want %v", got, want)
	}
	if b.Len() != 4 {
		t.Errorf("Len() = %d, want 4", b.Len())
	}

	// building twice yields the same document
	again, err := b.Build()
	if err != nil || !reflect.DeepEqual(again, want) {
		t.Errorf("second Build() = %v, %v", again, err)
	}
}

func TestStructFields(t *testing.T) {
	type profile struct {
		Name string `bson:"name"`
		Age  int32  `bson:"age,omitempty"`
	}
	got, err := New().SetOnInsert(profile{Name: "Ann"}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := bson.D{{Key: "$setOnInsert", Value: bson.D{{Key: "name", Value: "Ann"}}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() = %v, want %v", got, want)
	}
}

func TestEveryOperator(t *testing.T) {
	b := New().
		AddToSet(bson.M{"tags": "a"}).
		Bit(bson.M{"flags": bson.M{"and": 5}}).
		CurrentDate(bson.M{"updatedAt": true, "seenAt": bson.M{"$type": "timestamp"}}).
		Inc(bson.M{"n": 1}).
		Min(bson.M{"low": 0}).
		Max(bson.M{"high": 9}).
		Mul(bson.M{"price": 1.5}).
		Pop(bson.M{"queue": -1}).
		Pull(bson.M{"tags": "b"}).
		PullAll(bson.M{"tags": bson.A{"c", "d"}}).
		Push(bson.M{"log": "x"}).
		Rename(map[string]string{"nick": "alias"}).
		Set(bson.M{"name": "n"}).
		SetOnInsert(bson.M{"created": true}).
		Unset(bson.M{"tmp": 1})
	got, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var ops []string
	for _, e := range got {
		ops = append(ops, e.Key)
	}
	want := []string{
		"$addToSet", "$bit", "$currentDate", "$inc", "$min", "$max", "$mul", "$pop",
		"$pull", "$pullAll", "$push", "$rename", "$set", "$setOnInsert", "$unset",
	}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("operators = %v, want %v", ops, want)
	}
}

func TestInvalidUpdates(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Builder
	}{
		{"unknown operator", func() *Builder { return New().Add("$setAll", bson.M{"a": 1}) }},
		{"nil fields", func() *Builder { return New().Set(nil) }},
		{"no fields", func() *Builder { return New().Set(bson.M{}) }},
		{"empty field name", func() *Builder { return New().Set(bson.M{"": 1}) }},
		{"not a document", func() *Builder { return New().Set(42) }},
		{"bit without operation", func() *Builder { return New().Bit(bson.M{"f": 5}) }},
		{"bit with unknown operation", func() *Builder { return New().Bit(bson.M{"f": bson.M{"nand": 5}}) }},
		{"bit with float", func() *Builder { return New().Bit(bson.M{"f": bson.M{"or": 1.5}}) }},
		{"currentDate false", func() *Builder { return New().CurrentDate(bson.M{"d": false}) }},
		{"currentDate bad type", func() *Builder { return New().CurrentDate(bson.M{"d": bson.M{"$type": "string"}}) }},
		{"pop two", func() *Builder { return New().Pop(bson.M{"q": 2}) }},
		{"unset false", func() *Builder { return New().Unset(bson.M{"x": false}) }},
		{"inc string", func() *Builder { return New().Inc(bson.M{"n": "1"}) }},
		{"mul bool", func() *Builder { return New().Mul(bson.M{"n": true}) }},
		{"rename to empty", func() *Builder { return New().Rename(map[string]string{"a": ""}) }},
		{"rename to number", func() *Builder { return New().Add(RenameOp, bson.M{"a": 1}) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.build()
			if !errors.Is(b.Err(), ErrInvalidUpdate) {
				t.Errorf("Err() = %v, want %v", b.Err(), ErrInvalidUpdate)
			}
			if _, err := b.Build(); !errors.Is(err, ErrInvalidUpdate) {
				t.Errorf("Build() error = %v, want %v", err, ErrInvalidUpdate)
			}
		})
	}
}

func TestFirstErrorSticks(t *testing.T) {
	b := New().Pop(bson.M{"q": 3}).Set(bson.M{"a": 1}).Inc(bson.M{"n": "x"})
	if b.Len() != 0 {
		t.Errorf("entries were added after an error: %d", b.Len())
	}
	if err := b.Err(); err == nil || !errors.Is(err, ErrInvalidUpdate) {
		t.Fatalf("Err() = %v", err)
	}
	if got := b.Err().Error(); got != `invalid update: $pop value for "q": 3` {
		t.Errorf("Err() = %q", got)
	}
}

func TestValidValues(t *testing.T) {
	b := New().
		Inc(bson.M{"a": int64(2), "b": primitive.NewDecimal128(1, 0)}).
		Pop(bson.M{"q": 1.0}).
		Unset(bson.D{{Key: "x", Value: true}, {Key: "y", Value: int32(1)}}).
		CurrentDate(bson.D{{Key: "d", Value: bson.D{{Key: "$type", Value: "date"}}}})
	if err := b.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestEmptyBuild(t *testing.T) {
	if _, err := New().Build(); !errors.Is(err, ErrEmptyUpdate) {
		t.Errorf("Build() error = %v, want %v", err, ErrEmptyUpdate)
	}
}
