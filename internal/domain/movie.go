package domain

import (
	"errors"
	"strings"
)

// TopN 是榜单截取的固定条数（不做分页）。
const TopN = 20

// MovieRecord 是一部电影的最小可用记录。
//
// 约束：
// - Name 非空
// - Votes / NumOscars 永远 >= 0
// - Rating 在每次评分调整后保留 2 位小数；调整后不做截断（可能 >10 或 <0）
//
// 记录没有独立身份：它在集合中的位置就是它的排名。
type MovieRecord struct {
	Name      string  `json:"name"`
	Rating    float64 `json:"rating"`
	Votes     int     `json:"votes"`
	NumOscars int     `json:"num_oscars"`
}

// NewMovieRecord 在构造时校验字段，避免把非法值带到评分阶段才暴露。
func NewMovieRecord(name string, rating float64, votes, numOscars int) (MovieRecord, error) {
	if strings.TrimSpace(name) == "" {
		return MovieRecord{}, errors.New("name 不能为空")
	}
	if votes < 0 {
		return MovieRecord{}, errors.New("votes 不能为负数")
	}
	if numOscars < 0 {
		return MovieRecord{}, errors.New("num_oscars 不能为负数")
	}
	return MovieRecord{
		Name:      name,
		Rating:    rating,
		Votes:     votes,
		NumOscars: numOscars,
	}, nil
}
