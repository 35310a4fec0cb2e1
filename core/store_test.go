package core_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/billing-go/core"
)

func TestStore_DecodeKeepsOrderAndRawBytes(t *testing.T) {
	s, err := core.DecodeStore(core.GoJSON(), []byte(`{"b":1.10,"a":{"x":[1,2]},"c":null}`))
	if err != nil {
		t.Fatalf("DecodeStore: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, s.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := s.Get("b"); string(v) != "1.10" {
		t.Fatalf("number spelling changed: %s", v)
	}
	if v, _ := s.Get("c"); !v.IsNull() {
		t.Fatalf("expected null, got %s", v)
	}
	if !s.Frozen() {
		t.Fatalf("decoded stores are frozen")
	}
}

func TestStore_RejectsNonObjects(t *testing.T) {
	for _, in := range []string{`[]`, `"x"`, ``, `null`} {
		if _, err := core.DecodeStore(core.GoJSON(), []byte(in)); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestStore_FrozenMutationPanics(t *testing.T) {
	s := core.NewStore()
	s.Set("a", core.Value(`1`))
	f := s.Freeze()
	s.Set("b", core.Value(`2`))
	if f.Has("b") {
		t.Fatalf("freezing must snapshot the builder")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on frozen Set")
		}
	}()
	f.Set("c", core.Value(`3`))
}

func TestStore_SetKeepsPositionAndDeleteRemoves(t *testing.T) {
	s := core.NewStore()
	s.Set("a", core.Value(`1`))
	s.Set("b", core.Value(`2`))
	s.Set("a", core.Value(`3`))
	s.Delete("b")
	b, err := s.MarshalJSON()
	if err != nil || string(b) != `{"a":3}` {
		t.Fatalf("MarshalJSON = %s, %v", b, err)
	}
}

func TestStore_EqualIsStructural(t *testing.T) {
	a, _ := core.DecodeStore(core.GoJSON(), []byte(`{"x":1,"y":[1, 2]}`))
	b, _ := core.DecodeStore(core.GoJSON(), []byte(`{"y":[1,2],"x":1}`))
	c, _ := core.DecodeStore(core.GoJSON(), []byte(`{"y":[1,2],"x":1.0}`))
	if !a.Equal(b) {
		t.Fatalf("member order must not matter")
	}
	if a.Equal(c) {
		t.Fatalf("number spelling is part of the wire form")
	}
}
