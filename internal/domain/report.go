package domain

import (
	"encoding/json"
	"time"
)

// RunReport 是一次运行的对外稳定输出（stdout JSON）。
type RunReport struct {
	Source string `json:"source"`
	Output string `json:"output"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary `json:"summary"`
	Movies  []MovieRecord `json:"movies"`
}

type ReportSummary struct {
	Movies     int     `json:"movies"`
	MaxVotes   int     `json:"max_votes"`
	TopRating  float64 `json:"top_rating"`
	WithOscars int     `json:"with_oscars"`
}

// Finalize 做两件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) summary 由 movies 计算得出
//
// 注意：不对 movies 排序，输出顺序必须与榜单顺序一致。
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()
	if r.Movies == nil {
		r.Movies = []MovieRecord{}
	}

	var s ReportSummary
	s.Movies = len(r.Movies)
	for i, m := range r.Movies {
		if m.Votes > s.MaxVotes {
			s.MaxVotes = m.Votes
		}
		if i == 0 || m.Rating > s.TopRating {
			s.TopRating = m.Rating
		}
		if m.NumOscars > 0 {
			s.WithOscars++
		}
	}
	r.Summary = s
}

// MarshalJSON 仅用于集中约束输出的稳定性（避免未来不小心引入非确定字段）。
// 当前只是透传 encoding/json 的默认行为。
func (r RunReport) MarshalJSON() ([]byte, error) {
	type Alias RunReport
	return json.Marshal(Alias(r))
}
