package walrus

import (
	"testing"

	"github.com/datareef/reef/errors"
)

func TestCanonicalize(t *testing.T) {
	t.Run("sorts object keys", func(t *testing.T) {
		out, err := Canonicalize([]byte(`{"b":2,"a":1}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(out) != `{"a":1,"b":2}` {
			t.Errorf("expected sorted keys, got %s", out)
		}
	})

	t.Run("strips insignificant whitespace", func(t *testing.T) {
		out, err := Canonicalize([]byte("{\n  \"x\": [1, 2,\t3]\n}"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(out) != `{"x":[1,2,3]}` {
			t.Errorf("expected compact encoding, got %s", out)
		}
	})

	t.Run("rejects non-JSON", func(t *testing.T) {
		_, err := Canonicalize([]byte("definitely,not,json\x00"))
		if !errors.IsParseError(err) {
			t.Errorf("expected parse error, got %v", err)
		}
	})
}

func TestHashCanonical(t *testing.T) {
	t.Run("key order does not change hash", func(t *testing.T) {
		h1, err := HashCanonical(map[string]interface{}{"a": 1, "b": "two"})
		if err != nil {
			t.Fatal(err)
		}

		// Same document arriving as pre-encoded JSON with different ordering
		c, err := Canonicalize([]byte(`{"b":"two","a":1}`))
		if err != nil {
			t.Fatal(err)
		}
		if HashBytes(c) != h1 {
			t.Error("hash must be independent of key order")
		}
	})

	t.Run("different content different hash", func(t *testing.T) {
		h1, _ := HashCanonical(map[string]interface{}{"id": 1})
		h2, _ := HashCanonical(map[string]interface{}{"id": 2})
		if h1 == h2 {
			t.Error("distinct payloads must not collide")
		}
	})
}
