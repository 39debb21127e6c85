package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/John-Robertt/imdbtop/internal/awards"
	"github.com/John-Robertt/imdbtop/internal/domain"
	"github.com/John-Robertt/imdbtop/internal/source"
)

// DefaultBaseURL 是 OMDb API 的入口。
const DefaultBaseURL = "http://www.omdbapi.com/"

// Source 通过 OMDb API 按 IMDb 标识补全一行榜单。
// 榜单行只用来取标识；评分/投票数/奥斯卡全部来自 API。
type Source struct {
	APIKey string
	// BaseURL 允许替换 API 入口（测试/自建代理）。为空时使用 DefaultBaseURL。
	BaseURL string
}

func (Source) Name() string { return source.NameOMDb }

func (s Source) baseURL() string {
	u := strings.TrimSpace(s.BaseURL)
	if u == "" {
		return DefaultBaseURL
	}
	return u
}

func (s Source) Lookup(ctx context.Context, c *http.Client, row source.Row) (domain.MovieRecord, error) {
	id, err := row.ID()
	if err != nil {
		return domain.MovieRecord{}, err
	}
	body, err := s.Fetch(ctx, c, id)
	if err != nil {
		return domain.MovieRecord{}, err
	}
	return Parse(body)
}

// Fetch 查询单个标识并返回原始 JSON。
func (s Source) Fetch(ctx context.Context, c *http.Client, id string) ([]byte, error) {
	if c == nil {
		return nil, errors.New("http client 不能为空")
	}
	if strings.TrimSpace(s.APIKey) == "" {
		return nil, errors.New("api key 不能为空")
	}
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id 不能为空")
	}

	res, err := resty.NewWithClient(c).R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"i":      id,
			"apikey": s.APIKey,
		}).
		Get(s.baseURL())
	if err != nil {
		return nil, err
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		// 不把带 apikey 的完整 URL 写进错误。
		return nil, &source.HTTPStatusError{URL: s.baseURL() + "?i=" + id, StatusCode: res.StatusCode()}
	}
	if len(res.Body()) == 0 {
		return nil, errors.New("empty response body")
	}
	return res.Body(), nil
}

// FieldError 表示 API 响应缺少字段或字段值无法解析。
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("OMDb 响应缺少字段 %s", e.Field)
	}
	return fmt.Sprintf("OMDb 字段 %s=%q 无法解析：%v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

type response struct {
	Response string  `json:"Response"`
	Error    string  `json:"Error"`
	Title    *string `json:"Title"`
	Rating   *string `json:"imdbRating"`
	Votes    *string `json:"imdbVotes"`
	Awards   *string `json:"Awards"`
}

// Parse 把 OMDb JSON 解析为 MovieRecord（纯函数）。
//
// 规则：
// - Title 原样使用
// - imdbRating 按浮点数解析
// - imdbVotes 去掉千分位逗号后按整数解析
// - Awards 交给 awards.CountOscars
func Parse(body []byte) (domain.MovieRecord, error) {
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return domain.MovieRecord{}, err
	}
	if strings.EqualFold(r.Response, "False") {
		msg := strings.TrimSpace(r.Error)
		if msg == "" {
			msg = "unknown error"
		}
		return domain.MovieRecord{}, fmt.Errorf("OMDb 返回错误：%s", msg)
	}

	if r.Title == nil {
		return domain.MovieRecord{}, &FieldError{Field: "Title"}
	}
	if r.Rating == nil {
		return domain.MovieRecord{}, &FieldError{Field: "imdbRating"}
	}
	if r.Votes == nil {
		return domain.MovieRecord{}, &FieldError{Field: "imdbVotes"}
	}
	if r.Awards == nil {
		return domain.MovieRecord{}, &FieldError{Field: "Awards"}
	}

	rating, err := strconv.ParseFloat(strings.TrimSpace(*r.Rating), 64)
	if err != nil {
		return domain.MovieRecord{}, &FieldError{Field: "imdbRating", Value: *r.Rating, Err: err}
	}
	votes, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(*r.Votes), ",", ""))
	if err != nil {
		return domain.MovieRecord{}, &FieldError{Field: "imdbVotes", Value: *r.Votes, Err: err}
	}

	return domain.NewMovieRecord(*r.Title, rating, votes, awards.CountOscars(*r.Awards))
}
