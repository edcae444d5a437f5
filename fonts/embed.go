package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	// Default 是未声明字体时使用的内置字体。
	Default = "goregular"
	// BuiltinPrefix 是 src 中引用内置字体的规范前缀。
	BuiltinPrefix = "builtin:"
)

var builtinPrefixes = []string{BuiltinPrefix, "built-in:", "embed:"}

var builtin = map[string][]byte{
	"goregular":    goregular.TTF,
	"gobold":       gobold.TTF,
	"goitalic":     goitalic.TTF,
	"gobolditalic": gobolditalic.TTF,
	"gomedium":     gomedium.TTF,
	"gomono":       gomono.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "builtin:goregular"、"embed:gobold" 或直接 "gomono"。
func Load(name string) ([]byte, error) {
	if data, ok := builtin[BuiltinName(name)]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("读取内置字体 %s 失败: 可用字体 %s", name, strings.Join(Names(), ", "))
}

// IsBuiltin 判断 src 是否指向内置字体。
func IsBuiltin(src string) bool {
	s := strings.ToLower(strings.TrimSpace(src))
	for _, prefix := range builtinPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// BuiltinName 去掉前缀与 .ttf 后缀，返回小写的内置字体名。
func BuiltinName(src string) string {
	key := strings.ToLower(strings.TrimSpace(src))
	for _, prefix := range builtinPrefixes {
		key = strings.TrimPrefix(key, prefix)
	}
	return strings.TrimSuffix(key, ".ttf")
}

// Names 返回内置字体名称（已排序）。
func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
