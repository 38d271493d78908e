package logfields

import (
	"bytes"
	"errors"
	"go/format"
	"log/slog"
	"os"
	"testing"
)

func TestHelpers(t *testing.T) {
	cases := []struct {
		attr slog.Attr
		key  string
		val  any
	}{
		{Site("acme"), KeySite, "acme"},
		{Stage("extract"), KeyStage, "extract"},
		{Table("modx_site_content"), KeyTable, "modx_site_content"},
		{Rows(12), KeyRows, int64(12)},
		{ResourceID(42), KeyResourceID, int64(42)},
		{Layout(3), KeyLayout, int64(3)},
		{Strategy("fuzzy"), KeyStrategy, "fuzzy"},
		{Error(errors.New("x")), KeyError, "x"},
		{Error(nil), KeyError, ""},
	}
	for _, c := range cases {
		if c.attr.Key != c.key {
			t.Fatalf("expected key %s got %s", c.key, c.attr.Key)
		}
		if got := c.attr.Value.Any(); got != c.val {
			t.Fatalf("key %s: expected %v got %v", c.key, c.val, got)
		}
	}
}

func TestSourceIsFormatted(t *testing.T) {
	src, err := os.ReadFile("logfields.go")
	if err != nil {
		t.Fatal(err)
	}
	got, err := format.Source(src)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("logfields.go is not gofmt formatted")
	}
}
