package fonts

import "testing"

func TestLoadAcceptsPrefixes(t *testing.T) {
	for _, name := range []string{"goregular", "builtin:goregular", "built-in:GoRegular", "embed:goregular.ttf"} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q) error: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("Load(%q) returned empty data", name)
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("builtin:Inter"); err == nil {
		t.Fatalf("expected error for unknown builtin font")
	}
}

func TestIsBuiltin(t *testing.T) {
	if !IsBuiltin("builtin:gomono") || !IsBuiltin("embed:x") {
		t.Fatalf("prefixed sources should be builtin")
	}
	if IsBuiltin("fonts/Inter.ttf") {
		t.Fatalf("paths are not builtin")
	}
}

func TestBuiltinName(t *testing.T) {
	for src, want := range map[string]string{
		"builtin:GoBold":     "gobold",
		" embed:gomono.ttf ": "gomono",
		"goitalic":           "goitalic",
	} {
		if got := BuiltinName(src); got != want {
			t.Fatalf("BuiltinName(%q) = %q, want %q", src, got, want)
		}
	}
}
