package run

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/John-Robertt/imdbtop/internal/config"
	"github.com/John-Robertt/imdbtop/internal/csvout"
	"github.com/John-Robertt/imdbtop/internal/domain"
	"github.com/John-Robertt/imdbtop/internal/infra/fsx"
	"github.com/John-Robertt/imdbtop/internal/infra/httpx"
	"github.com/John-Robertt/imdbtop/internal/score"
	"github.com/John-Robertt/imdbtop/internal/source"
)

// Execute 执行一次完整流程：选 source → 抓榜单 → 逐行补全 → 评分调整 → 写 CSV。
//
// 任一步失败立即返回错误，且不会写出（或覆盖）输出文件。
// 成功时返回的 RunReport 已 Finalize。
func Execute(ctx context.Context, eff config.EffectiveConfig, reg source.Registry, obs Observer) (domain.RunReport, error) {
	if obs == nil {
		obs = nopObserver{}
	}
	started := time.Now().UTC()

	src, err := reg.Select(eff.APIKey)
	if err != nil {
		return domain.RunReport{}, err
	}
	obs.OnStart(eff, src.Name())

	rr := domain.RunReport{
		Source:    src.Name(),
		Output:    eff.Output,
		StartedAt: started,
	}

	c, err := httpx.NewClient(eff.ProxyURL)
	if err != nil {
		return domain.RunReport{}, fmt.Errorf("proxy.url 无效：%w", err)
	}

	chartStarted := time.Now()
	rows, err := source.FetchChart(ctx, c, eff.ChartURL, domain.TopN)
	if err != nil {
		return domain.RunReport{}, &source.Error{Source: src.Name(), Stage: "chart", Err: err}
	}
	obs.OnPhaseDone("chart", map[string]any{"rows": len(rows)}, time.Since(chartStarted))

	lookupStarted := time.Now()
	movies := make([]domain.MovieRecord, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return domain.RunReport{}, err
		}
		oneStarted := time.Now()
		rec, err := src.Lookup(ctx, c, row)
		if err != nil {
			return domain.RunReport{}, &source.Error{Source: src.Name(), Stage: "lookup", Rank: row.Rank, Err: err}
		}
		movies = append(movies, rec)
		obs.OnMovieDone(i+1, len(rows), rec, time.Since(oneStarted))
	}
	obs.OnPhaseDone("lookup", map[string]any{"movies": len(movies)}, time.Since(lookupStarted))

	scoreStarted := time.Now()
	maxVotes := score.Adjust(movies)
	obs.OnPhaseDone("score", map[string]any{"max_votes": maxVotes}, time.Since(scoreStarted))

	writeStarted := time.Now()
	b, err := csvout.Encode(movies)
	if err != nil {
		return domain.RunReport{}, fmt.Errorf("生成 CSV 失败：%w", err)
	}
	if err := fsx.WriteFileAtomicReplace(filepath.Dir(eff.Output), filepath.Base(eff.Output), b); err != nil {
		return domain.RunReport{}, fmt.Errorf("写入 %s 失败：%w", eff.Output, err)
	}
	obs.OnPhaseDone("write", map[string]any{"bytes": len(b)}, time.Since(writeStarted))

	rr.Movies = movies
	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr, nil
}

type nopObserver struct{}

func (nopObserver) OnStart(config.EffectiveConfig, string) {}
func (nopObserver) OnPhaseDone(string, map[string]any, time.Duration) {}
func (nopObserver) OnMovieDone(int, int, domain.MovieRecord, time.Duration) {}
