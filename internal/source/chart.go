package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	titleLinkSel  = "td.titleColumn a"
	ratingSel     = "strong"
	votesSel      = "span[name='nv']"
	votesAttrName = "data-value"
)

// Row 是榜单中的一行（按排名顺序）。
//
// 各字段按需解析：OMDb 只需要 Ref/ID，抓取实现才需要 Title/Rating/Votes。
// 任一访问器在元素缺失时返回 *MissingElementError。
type Row struct {
	Rank int // 1-based
	sel  *goquery.Selection
}

// FetchChart 抓取榜单页并返回前 limit 行。
func FetchChart(ctx context.Context, c *http.Client, chartURL string, limit int) ([]Row, error) {
	b, err := FetchHTML(ctx, c, chartURL)
	if err != nil {
		return nil, err
	}
	return ParseChart(b, limit)
}

// ParseChart 解析榜单 HTML，返回前 limit 行（页面不足 limit 行时全部返回）。
func ParseChart(html []byte, limit int) ([]Row, error) {
	if len(html) == 0 {
		return nil, fmt.Errorf("html 为空")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	body := doc.Find("tbody.lister-list").First()
	if body.Length() == 0 {
		return nil, &MissingElementError{Selector: "tbody.lister-list", Where: "chart"}
	}

	trs := body.Find("tr")
	n := trs.Length()
	if limit > 0 && n > limit {
		n = limit
	}
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, Row{Rank: i + 1, sel: trs.Eq(i)})
	}
	return rows, nil
}

// Text 返回整行的可见文本（去除首尾空白）。
func (r Row) Text() string {
	if r.sel == nil {
		return ""
	}
	return strings.TrimSpace(r.sel.Text())
}

// Ref 返回详情页的引用路径（例如 /title/tt0111161/）。
func (r Row) Ref() (string, error) {
	a, err := r.find(titleLinkSel)
	if err != nil {
		return "", err
	}
	href, ok := a.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return "", r.missing(titleLinkSel + "[href]")
	}
	return href, nil
}

// ID 返回 IMDb 标识（引用路径的第二段，例如 tt0111161）。
func (r Row) ID() (string, error) {
	ref, err := r.Ref()
	if err != nil {
		return "", err
	}
	return TitleID(ref)
}

// Title 返回片名。
func (r Row) Title() (string, error) {
	a, err := r.find(titleLinkSel)
	if err != nil {
		return "", err
	}
	title := strings.TrimSpace(a.Text())
	if title == "" {
		return "", r.missing(titleLinkSel)
	}
	return title, nil
}

// Rating 返回榜单上展示的评分。
func (r Row) Rating() (float64, error) {
	s, err := r.find(ratingSel)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s.Text()), 64)
	if err != nil {
		return 0, fmt.Errorf("chart row %d：评分无法解析：%w", r.Rank, err)
	}
	return v, nil
}

// Votes 返回投票数（来自 data-value 属性）。
func (r Row) Votes() (int, error) {
	s, err := r.find(votesSel)
	if err != nil {
		return 0, err
	}
	raw, ok := s.Attr(votesAttrName)
	if !ok {
		return 0, r.missing(votesSel + "[" + votesAttrName + "]")
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("chart row %d：投票数无法解析：%w", r.Rank, err)
	}
	return v, nil
}

func (r Row) find(sel string) (*goquery.Selection, error) {
	if r.sel == nil {
		return nil, r.missing(sel)
	}
	s := r.sel.Find(sel).First()
	if s.Length() == 0 {
		return nil, r.missing(sel)
	}
	return s, nil
}

func (r Row) missing(sel string) error {
	return &MissingElementError{Selector: sel, Where: fmt.Sprintf("chart row %d", r.Rank)}
}

// TitleID 从引用路径中取出 IMDb 标识：/title/tt0111161/?ref=x => tt0111161。
func TitleID(ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	parts := strings.Split(u.Path, "/")
	if len(parts) < 3 || strings.TrimSpace(parts[2]) == "" {
		return "", fmt.Errorf("引用路径中没有标识：%q", ref)
	}
	return parts[2], nil
}
