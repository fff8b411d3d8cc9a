package envutil

import (
	"testing"
	"time"
)

func TestEnvReaders(t *testing.T) {
	t.Setenv("RD_LIST", " http://a.test , ,http://b.test ")
	t.Setenv("RD_INT", "nope")
	t.Setenv("RD_SECS", "30")
	t.Setenv("RD_BOOL", "ON")

	if got := List("RD_LIST", nil, nil); len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("List = %v", got)
	}
	if got := List("RD_MISSING", []string{"x"}, nil); len(got) != 1 || got[0] != "x" {
		t.Fatalf("List default = %v", got)
	}
	if got := Int("RD_INT", 7, nil); got != 7 {
		t.Fatalf("Int fallback = %d", got)
	}
	if got := Seconds("RD_SECS", time.Second, nil); got != 30*time.Second {
		t.Fatalf("Seconds = %v", got)
	}
	if !Bool("RD_BOOL", false) {
		t.Fatalf("Bool(ON) should be true")
	}
	if got := String("RD_MISSING", "def", nil); got != "def" {
		t.Fatalf("String default = %q", got)
	}
}
