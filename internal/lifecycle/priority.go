package lifecycle

import "strings"

// Priority 任务优先级
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityNormal Priority = "Normal"
)

// ParsePriority 解析优先级字符串,大小写不敏感
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh, nil
	case "normal":
		return PriorityNormal, nil
	}
	return "", ErrInvalidPriority
}

// Valid 优先级是否为合法枚举值
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityNormal
}
