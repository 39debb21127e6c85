package domain

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestRunReport_Finalize_KeepOrderAndSummaryAndUTC(t *testing.T) {
	r := RunReport{
		Source:     "imdb",
		Output:     "/abs/modified_top_20_movies.csv",
		StartedAt:  time.Date(2026, 2, 9, 10, 0, 0, 0, time.FixedZone("X", 8*3600)),
		FinishedAt: time.Date(2026, 2, 9, 10, 0, 1, 0, time.FixedZone("X", 8*3600)),
		Movies: []MovieRecord{
			{Name: "B", Rating: 8.1, Votes: 200_000, NumOscars: 0},
			{Name: "A", Rating: 9.8, Votes: 900_000, NumOscars: 3},
			{Name: "C", Rating: 7.0, Votes: 10, NumOscars: 11},
		},
	}

	r.Finalize()

	// 不允许重新排序：输出顺序就是榜单顺序。
	if r.Movies[0].Name != "B" || r.Movies[1].Name != "A" || r.Movies[2].Name != "C" {
		t.Fatalf("movies 顺序被改变：%+v", r.Movies)
	}
	if r.Summary.Movies != 3 || r.Summary.MaxVotes != 900_000 || r.Summary.TopRating != 9.8 || r.Summary.WithOscars != 2 {
		t.Fatalf("summary 统计不正确：%+v", r.Summary)
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	if !bytes.Contains(b, []byte("\"started_at\":\"2026-02-09T02:00:00Z\"")) {
		t.Fatalf("started_at 不是 UTC RFC3339：%s", string(b))
	}
	if !bytes.Contains(b, []byte("\"num_oscars\":11")) {
		t.Fatalf("movies 字段名不符合预期：%s", string(b))
	}
}

func TestRunReport_Finalize_EmptyMoviesIsArray(t *testing.T) {
	var r RunReport
	r.Finalize()

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	if !bytes.Contains(b, []byte("\"movies\":[]")) {
		t.Fatalf("movies 应输出为空数组：%s", string(b))
	}
}
