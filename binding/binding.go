package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// 占位符形如 ${path.to.value} 或 ${path|默认值}。
var placeholder = regexp.MustCompile(`\$\{([^}|]+)(?:\|([^}]*))?\}`)

// Interpolate 将文本中的占位符替换为 data 中的值。
// 路径不存在时使用默认值；没有默认值则保留原占位符。
func Interpolate(text string, data any) string {
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		groups := placeholder.FindStringSubmatch(match)
		path := strings.TrimSpace(groups[1])
		hasFallback := strings.Contains(match, "|")
		if val, ok := Lookup(data, path); ok && val != nil {
			return fmt.Sprint(val)
		}
		if hasFallback {
			return groups[2]
		}
		return match
	})
}

// Lookup 按 a.b[0].c 的形式在 JSON 解码后的数据中取值。
func Lookup(data any, path string) (any, bool) {
	if data == nil || path == "" {
		return nil, false
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		key, indexes, ok := splitSegment(segment)
		if !ok {
			return nil, false
		}
		if key != "" {
			m, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			if current, ok = m[key]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			list, isList := current.([]any)
			if !isList || idx < 0 || idx >= len(list) {
				return nil, false
			}
			current = list[idx]
		}
	}
	return current, true
}

// splitSegment 解析 "items[1][0]" 形式的路径片段。
func splitSegment(segment string) (string, []int, bool) {
	open := strings.IndexByte(segment, '[')
	if open == -1 {
		return segment, nil, true
	}
	key := segment[:open]
	rest := segment[open:]
	var indexes []int
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return "", nil, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(rest[1:end]))
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, n)
		rest = rest[end+1:]
	}
	return key, indexes, true
}
