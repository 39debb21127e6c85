package source

import (
	"errors"
	"fmt"
	"strings"
)

// HTTPStatusError 表示站点返回了非 2xx 的 HTTP 状态码。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	loc := strings.TrimSpace(e.Location)
	if loc == "" {
		return fmt.Sprintf("HTTP %d url=%s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d url=%s location=%s", e.StatusCode, e.URL, loc)
}

// BlockedError 表示请求被站点引导到了“验证/拦截”页面（通常意味着需要浏览器执行 JS）。
// 不尝试绕过，直接视为失败。
type BlockedError struct {
	URL    string
	Reason string // 例如 "aws-waf"
}

func (e *BlockedError) Error() string {
	if e == nil || strings.TrimSpace(e.Reason) == "" {
		return "blocked"
	}
	return "blocked: " + strings.TrimSpace(e.Reason)
}

// MissingElementError 表示页面结构与预期不符：期望的元素/属性不存在或为空。
type MissingElementError struct {
	Selector string
	Where    string // 例如 "chart row 3" 或页面 URL
}

func (e *MissingElementError) Error() string {
	if strings.TrimSpace(e.Where) == "" {
		return fmt.Sprintf("未找到元素 %q", e.Selector)
	}
	return fmt.Sprintf("%s：未找到元素 %q", e.Where, e.Selector)
}

// IsMissingElement 判断 err 链中是否有 MissingElementError。
func IsMissingElement(err error) bool {
	var e *MissingElementError
	return errors.As(err, &e)
}

// Error 是 source 阶段的可追溯错误。
type Error struct {
	Source string // source name（小写）
	Stage  string // "chart" 或 "lookup"
	Rank   int    // 1-based；chart 阶段为 0
	Err    error
}

func (e *Error) Error() string {
	if e.Rank > 0 {
		return fmt.Sprintf("source=%s stage=%s rank=%d: %v", e.Source, e.Stage, e.Rank, e.Err)
	}
	return fmt.Sprintf("source=%s stage=%s: %v", e.Source, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
