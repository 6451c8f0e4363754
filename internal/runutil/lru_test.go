package runutil

import "testing"

func TestLRU_Evicts(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	if _, ok := c.Get("a"); !ok { // a is now most recent
		t.Fatal("a missing")
	}
	c.Put("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("a: got %d,%v", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("len %d, want 2", c.Len())
	}
}

func TestLRU_Overwrite(t *testing.T) {
	c := NewLRU[int, string](0)
	c.Put(1, "x")
	c.Put(1, "y")
	if v, _ := c.Get(1); v != "y" {
		t.Fatalf("got %q, want y", v)
	}
	if c.Len() != 1 {
		t.Fatalf("len %d, want 1", c.Len())
	}
}
