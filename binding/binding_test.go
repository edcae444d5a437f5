package binding

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("解析 JSON 失败: %v", err)
	}
	return v
}

func TestInterpolate(t *testing.T) {
	data := decode(t, `{"user":{"name":"Ada"},"items":[{"title":"first"},{"title":"second"}],"n":3}`)
	cases := map[string]string{
		"Hello ${user.name}":          "Hello Ada",
		"${items[1].title}!":          "second!",
		"${ n } items":                "3 items",
		"${user.missing}":             "${user.missing}",
		"${user.missing|guest}":       "guest",
		"${user.name|guest}":          "Ada",
		"${items[9].title|none left}": "none left",
		"plain":                       "plain",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("nil data should keep placeholder, got %q", got)
	}
	if got := Interpolate("${a|x}", nil); got != "x" {
		t.Fatalf("nil data should use fallback, got %q", got)
	}
}

func TestLookupBadIndex(t *testing.T) {
	data := decode(t, `{"items":[1,2]}`)
	if _, ok := Lookup(data, "items[x]"); ok {
		t.Fatalf("non-numeric index should fail")
	}
	if _, ok := Lookup(data, "items[0"); ok {
		t.Fatalf("unterminated index should fail")
	}
	if v, ok := Lookup(data, "items[1]"); !ok || v.(float64) != 2 {
		t.Fatalf("expected 2, got %v", v)
	}
}
