package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/John-Robertt/imdbtop/internal/csvout"
	"github.com/John-Robertt/imdbtop/internal/source/imdb"
	"github.com/John-Robertt/imdbtop/internal/source/omdb"
)

const (
	// ErrCodeInvalid 表示配置文件/.env 无法读取或解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// EnvAPIKey 是 OMDb API key 的环境变量名；非空时使用 OMDb，否则抓取 IMDb 页面。
	EnvAPIKey = "OMDB_API_KEY"

	// FileName 是可选配置文件名（位于工作目录）。
	FileName = "imdbtop.json"
	// DotEnvName 是可选的 .env 文件名（位于工作目录）。
	DotEnvName = ".env"

	DefaultChartURL = "https://www.imdb.com/chart/top"
)

// FileConfig 对应 imdbtop.json 的解析结构。所有字段可选。
type FileConfig struct {
	ChartURL string       `json:"chart_url"`
	SiteURL  string       `json:"site_url"`
	OMDbURL  string       `json:"omdb_url"`
	Output   string       `json:"output"`
	Proxy    *ProxyConfig `json:"proxy"`
}

type ProxyConfig struct {
	URL string `json:"url"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	// APIKey 只来自环境（进程环境 > .env），不允许写进 imdbtop.json。
	APIKey string

	ChartURL string
	SiteURL  string
	OMDbURL  string

	// Output 是输出 CSV 的绝对路径。
	Output   string
	ProxyURL string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s：配置 %q 无效", e.Code, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 读取 <cwd>/.env 与 <cwd>/imdbtop.json（都可选），与环境变量合并为最终配置。
//
// 覆盖优先级（固定）：
// - api key：进程环境 > .env > 空（空 => 抓取 IMDb 页面）
// - 其他字段：imdbtop.json > 内置默认
//
// getenv 为 nil 时使用 os.Getenv。
func LoadEffective(cwd string, getenv func(string) string) (EffectiveConfig, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	envPath := filepath.Join(cwdAbs, DotEnvName)
	dotenv, err := readDotEnv(envPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: envPath, Err: err}
	}

	cfgPath := filepath.Join(cwdAbs, FileName)
	fc, _, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	apiKey := strings.TrimSpace(getenv(EnvAPIKey))
	if apiKey == "" {
		apiKey = strings.TrimSpace(dotenv[EnvAPIKey])
	}

	return merge(cwdAbs, apiKey, fc, cfgPath)
}

func merge(cwdAbs, apiKey string, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	chartURL, err := httpURL("chart_url", fc.ChartURL, DefaultChartURL)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	siteURL, err := httpURL("site_url", fc.SiteURL, imdb.DefaultSiteURL)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	omdbURL, err := httpURL("omdb_url", fc.OMDbURL, omdb.DefaultBaseURL)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	proxyURL := ""
	if fc.Proxy != nil {
		proxyURL = strings.TrimSpace(fc.Proxy.URL)
	}
	if proxyURL != "" {
		if _, err := url.Parse(proxyURL); err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("proxy.url 无效：%w", err)}
		}
	}

	output := strings.TrimSpace(fc.Output)
	if strings.HasSuffix(output, "/") || strings.HasSuffix(output, string(filepath.Separator)) {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("output 必须是文件路径：%q", fc.Output)}
	}
	if output == "" {
		output = csvout.DefaultFileName
	}
	output = absCleanFrom(cwdAbs, output)

	return EffectiveConfig{
		APIKey:   apiKey,
		ChartURL: chartURL,
		SiteURL:  siteURL,
		OMDbURL:  omdbURL,
		Output:   output,
		ProxyURL: proxyURL,
	}, nil
}

// httpURL 校验可选的 URL 字段；为空时返回默认值。
func httpURL(field, raw, def string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%s 无效：%q", field, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%s 必须是 http/https：%q", field, raw)
	}
	return raw, nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readDotEnv 读取 .env（不存在不算错误）。只读取，不写回进程环境。
func readDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return godotenv.Read(path)
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
