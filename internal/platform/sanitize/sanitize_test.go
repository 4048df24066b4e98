package sanitize

import (
	"reflect"
	"testing"
)

func TestText_Clean(t *testing.T) {
	s := NewText()

	cases := map[string]string{
		"":                                    "",
		"   ":                                 "",
		"Good boy":                            "Good boy",
		"<script>alert(1)</script>Good boy":   "Good boy",
		"<b>Max</b> &amp; <i>Luna</i>":        "Max & Luna",
		`<img src=x onerror="alert(1)">hello`: "hello",
	}
	for in, want := range cases {
		if got := s.Clean(in); got != want {
			t.Fatalf("Clean(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestText_Tags(t *testing.T) {
	s := NewText()
	got := s.Tags([]string{"corgi", " ", "<b>corgi</b>", "park"})
	want := []string{"corgi", "park"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tags = %#v, want %#v", got, want)
	}
}
