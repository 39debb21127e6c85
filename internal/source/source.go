package source

import (
	"context"
	"net/http"

	"github.com/John-Robertt/imdbtop/internal/domain"
)

const (
	// NameIMDb 是抓取 IMDb 页面的实现（未配置 API key 时使用）。
	NameIMDb = "imdb"
	// NameOMDb 是查询 OMDb API 的实现（配置了 API key 时使用）。
	NameOMDb = "omdb"
)

// Source 把“站点变化”限制在 source 包内部；核心流程只依赖统一接口与稳定的 MovieRecord。
//
// 约束：
// - Lookup 不做缓存、不做重试（每次请求 best-effort，失败直接返回）
// - Lookup 不得返回部分填充的记录：任一字段缺失即返回错误
// - 榜单行由上层统一抓取（两种实现共享同一份榜单），Lookup 只负责补全一行
type Source interface {
	Name() string
	Lookup(ctx context.Context, c *http.Client, row Row) (domain.MovieRecord, error)
}

// Pick 按配置静态选择 source：API key 非空 => omdb，否则 => imdb。
// 这是运行前的一次性决定，不是失败后的降级。
func Pick(apiKey string) string {
	if apiKey != "" {
		return NameOMDb
	}
	return NameIMDb
}
