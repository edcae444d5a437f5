package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDebugSchemaDescribesResult(t *testing.T) {
	data, err := DebugSchema()
	if err != nil {
		t.Fatalf("DebugSchema error: %v", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if schema["title"] != "textfill layout result" {
		t.Fatalf("unexpected title: %v", schema["title"])
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema without properties: %s", data)
	}
	for _, key := range []string{"runId", "pages", "fits", "fill"} {
		if _, ok := props[key]; !ok {
			t.Fatalf("schema is missing %q", key)
		}
	}
}

func TestWriteDebugJSON(t *testing.T) {
	res := buildDoc(t, `doc T v1 { page A4 { box hero width 200px height 50px { span { "Hello" } } } }`, nil, BuildOptions{})
	path := filepath.Join(t.TempDir(), "debug.json")
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("WriteDebugJSON error: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read debug json: %v", err)
	}
	if !strings.Contains(string(raw), res.RunID) || !strings.Contains(string(raw), `"fontSizePx": 40`) {
		t.Fatalf("debug json misses run id or fit report: %s", raw)
	}
	if err := WriteDebugJSON(nil, path); err != nil {
		t.Fatalf("nil result should be a no-op, got %v", err)
	}
}
