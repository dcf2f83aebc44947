package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_Simple(t *testing.T) {
	idx := NewIndex("test-idx").
		Prefix("doc:").
		Tag("category").
		Numeric("price").
		MustBuild()

	if err := idx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Name != "test-idx" {
		t.Errorf("name = %q, want test-idx", idx.Name)
	}
	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[0].Name != "category" || idx.Fields[0].Type != IndexFieldTag {
		t.Errorf("field[0] = %+v, want category TAG", idx.Fields[0])
	}
	if idx.Fields[1].Name != "price" || idx.Fields[1].Type != IndexFieldNumeric {
		t.Errorf("field[1] = %+v, want price NUMERIC", idx.Fields[1])
	}
}

func TestIndexBuilder_VectorFlat(t *testing.T) {
	idx := NewIndex("vec-idx").
		Prefix("geo:").
		VectorFlat("__geo", 3, DistanceL2).
		MustBuild()

	if len(idx.Fields) != 1 {
		t.Fatalf("fields count = %d, want 1", len(idx.Fields))
	}
	f := idx.Fields[0]
	if f.VectorAlgo != VectorFlat {
		t.Errorf("algo = %q, want FLAT", f.VectorAlgo)
	}
	if f.VectorDim != 3 {
		t.Errorf("dim = %d, want 3", f.VectorDim)
	}
	if f.VectorDistance != DistanceL2 {
		t.Errorf("distance = %q, want L2", f.VectorDistance)
	}
}

func TestIndexBuilder_TagOptions(t *testing.T) {
	idx := NewIndex("tag-idx").
		Prefix("t:").
		TagWithOpts("tags", ",", false, true).
		MustBuild()

	f := idx.Fields[0]
	if f.TagSeparator != "," {
		t.Errorf("separator = %q, want ,", f.TagSeparator)
	}
	if f.TagCaseSensitive {
		t.Error("expected TagCaseSensitive=false")
	}
	if !f.IndexMissing {
		t.Error("expected IndexMissing=true")
	}
}

func TestIndexBuilder_NumericSortable(t *testing.T) {
	idx := NewIndex("sort-idx").
		Prefix("s:").
		NumericSortable("created").
		MustBuild()

	f := idx.Fields[0]
	if f.Type != IndexFieldNumeric {
		t.Errorf("type = %v, want NUMERIC", f.Type)
	}
	if !f.Sortable {
		t.Error("expected Sortable=true")
	}
}

func TestIndexBuilder_Text(t *testing.T) {
	idx := NewIndex("txt-idx").
		Prefix("s:").
		Text("name").
		Text("description").
		MustBuild()

	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[0].Type != IndexFieldText || idx.Fields[1].Type != IndexFieldText {
		t.Errorf("unexpected field types: %+v", idx.Fields)
	}
}

func TestIndexBuilder_MultiplePrefixes(t *testing.T) {
	idx := NewIndex("multi-idx").
		Prefix("a:", "b:", "c:").
		Tag("x").
		MustBuild()

	if len(idx.Prefixes) != 3 {
		t.Errorf("prefix count = %d, want 3", len(idx.Prefixes))
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() (*IndexDefinition, error)
		wantErr string
	}{
		{
			name: "empty name",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("").Tag("x").Build()
			},
			wantErr: "index name is required",
		},
		{
			name: "no fields",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Build()
			},
			wantErr: "at least one field",
		},
		{
			name: "vector without dim",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").VectorFlat("v", 0, DistanceL2).Build()
			},
			wantErr: "positive DIM",
		},
		{
			name: "invalid characters",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx with spaces").Tag("x").Build()
			},
			wantErr: "invalid characters",
		},
		{
			name: "duplicate fields",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Tag("x").Numeric("x").Build()
			},
			wantErr: "duplicate field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("store-idx").
		Prefix("store:").
		Text("name").
		TagWithOpts("tags", ",", false, true).
		NumericSortable("created").
		VectorFlat("__geo", 3, DistanceL2).
		MustBuild()

	s := idx.String()
	for _, want := range []string{"FT.CREATE", "store-idx", "ON HASH", "PREFIX store:",
		"SCHEMA", "name TEXT", "tags TAG", "created NUMERIC", "__geo VECTOR FLAT"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"store-idx", true},
		{"storedex:store-idx", true},
		{"a_b_c", true},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
	}
	for _, tc := range tests {
		if got := IsValidIdentifier(tc.s); got != tc.want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", tc.s, got, tc.want)
		}
	}
}

func TestTagFilter(t *testing.T) {
	tests := []struct {
		field, value string
		want         string
	}{
		{"tags", "Wifi", "@tags:{Wifi}"},
		{"tags", "ice cream", `@tags:{ice\ cream}`},
		{"tags", "take-out", `@tags:{take\-out}`},
		{"store", "s1,s2", `@store:{s1\,s2}`},
	}
	for _, tc := range tests {
		if got := TagFilter(tc.field, tc.value); got != tc.want {
			t.Errorf("TagFilter(%q, %q) = %q, want %q", tc.field, tc.value, got, tc.want)
		}
	}
}

func TestHasField(t *testing.T) {
	if got := HasField("tags"); got != "-ismissing(@tags)" {
		t.Errorf("HasField(tags) = %q", got)
	}
}
