package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
)

// FetchHTML 发起一次 GET 并返回 body。
// 非 2xx、被 WAF 拦截或 body 为空都视为失败；不重试。
func FetchHTML(ctx context.Context, c *http.Client, u string) ([]byte, error) {
	if c == nil {
		return nil, errors.New("http client 不能为空")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// IMDb 的 AWS WAF 会返回 202 + challenge 页面（需要执行 JS），状态码本身是 2xx。
	if strings.EqualFold(strings.TrimSpace(resp.Header.Get("x-amzn-waf-action")), "challenge") {
		return nil, &BlockedError{URL: u, Reason: "aws-waf"}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{URL: u, StatusCode: resp.StatusCode, Location: resp.Header.Get("Location")}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, errors.New("empty response body")
	}
	return b, nil
}
