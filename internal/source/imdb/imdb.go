package imdb

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/imdbtop/internal/awards"
	"github.com/John-Robertt/imdbtop/internal/domain"
	"github.com/John-Robertt/imdbtop/internal/source"
)

// DefaultSiteURL 是详情页/awards 页的站点根。
const DefaultSiteURL = "https://www.imdb.com"

const awardsSummarySel = `div[data-testid='awards'] a[aria-label='See more awards and nominations']`

// Source 通过抓取 IMDb 页面补全一行榜单。
//
// 约束：
// - 标题/评分/投票数直接取自榜单行；奥斯卡数量需要再抓一次 awards 页
// - 任何元素缺失都直接失败，不做默认值替换
type Source struct {
	// SiteURL 允许替换站点根（镜像/测试）。为空时使用 DefaultSiteURL。
	SiteURL string
}

func (Source) Name() string { return source.NameIMDb }

func (s Source) siteURL() string {
	u := strings.TrimSpace(s.SiteURL)
	if u == "" {
		return DefaultSiteURL
	}
	return strings.TrimRight(u, "/")
}

func (s Source) Lookup(ctx context.Context, c *http.Client, row source.Row) (domain.MovieRecord, error) {
	name, err := row.Title()
	if err != nil {
		return domain.MovieRecord{}, err
	}
	rating, err := row.Rating()
	if err != nil {
		return domain.MovieRecord{}, err
	}
	votes, err := row.Votes()
	if err != nil {
		return domain.MovieRecord{}, err
	}
	ref, err := row.Ref()
	if err != nil {
		return domain.MovieRecord{}, err
	}

	pageURL, err := s.AwardsURL(ref)
	if err != nil {
		return domain.MovieRecord{}, err
	}
	html, err := source.FetchHTML(ctx, c, pageURL)
	if err != nil {
		return domain.MovieRecord{}, err
	}
	oscars, err := ParseAwards(html, pageURL)
	if err != nil {
		return domain.MovieRecord{}, err
	}

	return domain.NewMovieRecord(name, rating, votes, oscars)
}

// AwardsURL 把详情页引用路径转为 awards 页 URL：/title/tt0111161/ => <site>/title/tt0111161/awards
func (s Source) AwardsURL(ref string) (string, error) {
	ru, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	p := strings.TrimRight(ru.Path, "/")
	if p == "" {
		return "", errors.New("引用路径为空")
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return s.siteURL() + p + "/awards", nil
}

// ParseAwards 从 awards 页 HTML 中定位奖项摘要并提取获得的奥斯卡数量。
// pageURL 仅用于错误定位。
func ParseAwards(html []byte, pageURL string) (int, error) {
	if len(html) == 0 {
		return 0, errors.New("html 为空")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return 0, err
	}
	a := doc.Find(awardsSummarySel).First()
	if a.Length() == 0 {
		return 0, &source.MissingElementError{Selector: awardsSummarySel, Where: pageURL}
	}
	return awards.CountOscars(a.Text()), nil
}
