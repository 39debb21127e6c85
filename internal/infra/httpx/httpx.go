package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout 是每个请求的总超时（含读 body）。超时即失败，不重试。
const DefaultTimeout = 30 * time.Second

// DefaultHeaders 是类浏览器的固定请求头，降低被 IMDb 拦截的概率。
var DefaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
	"Accept-Language": "en-US,en;q=0.9",
}

// Transport 把“固定请求头 + 代理 + keep-alive 策略”固化为统一策略。
//
// 设计目标：source 只负责“定位页面 + 解析内容”，不关心网络策略细节。
// 约束：每个请求只发一次（best-effort），失败直接返回给调用方。
type Transport struct {
	Base *http.Transport

	// Headers 仅在请求未显式设置同名 header 时补齐。
	Headers map[string]string

	// DisableKeepAlives 决定是否对 Request 设置 Close=true（额外保险）。
	// 真正禁用 keep-alive 依赖 Base.DisableKeepAlives。
	DisableKeepAlives bool
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}

	// Clone 会复制 Header 等，避免在 RoundTripper 内部“污染”调用方的 request。
	r := req.Clone(req.Context())
	for k, v := range t.Headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	if t.DisableKeepAlives {
		r.Close = true
	}
	return t.Base.RoundTrip(r)
}

// NewClient 构造用于榜单页、awards 页与 OMDb API 的 HTTP client。
//
// 规则：
// - 固定请求头（User-Agent / Accept-Language）
// - 总超时 30s；不重试
// - proxyURL 非空：走代理，且禁用 keep-alive（每请求新连接）
func NewClient(proxyURL string) (*http.Client, error) {
	base := &http.Transport{
		Proxy:                 nil,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: DefaultTimeout,
	}

	disableKeepAlives := false
	proxyURL = strings.TrimSpace(proxyURL)
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, err
		}
		base.Proxy = http.ProxyURL(u)
		base.DisableKeepAlives = true
		disableKeepAlives = true
	}

	headers := make(map[string]string, len(DefaultHeaders))
	for k, v := range DefaultHeaders {
		headers[k] = v
	}

	return &http.Client{
		Transport: &Transport{
			Base:              base,
			Headers:           headers,
			DisableKeepAlives: disableKeepAlives,
		},
		Timeout: DefaultTimeout,
	}, nil
}
