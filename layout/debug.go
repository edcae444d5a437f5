package layout

import (
	"encoding/json"
	"os"

	"github.com/invopop/jsonschema"
)

// WriteDebugJSON 将布局结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DebugSchema 返回调试 JSON 的 JSON Schema。
func DebugSchema() ([]byte, error) {
	r := &jsonschema.Reflector{DoNotReference: true}
	schema := r.Reflect(&Result{})
	schema.Title = "textfill layout result"
	return json.MarshalIndent(schema, "", "  ")
}

// WriteDebugSchema 将 DebugSchema 写入文件。
func WriteDebugSchema(path string) error {
	data, err := DebugSchema()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
