package run

import (
	"time"

	"github.com/John-Robertt/imdbtop/internal/config"
	"github.com/John-Robertt/imdbtop/internal/domain"
)

// Observer 用于把“运行进度/阶段/条目结果”从核心执行流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// - 事件按顺序从调用 Execute 的 goroutine 发出。
type Observer interface {
	// OnStart 在 Execute 开始时调用（早于任何网络请求）。
	OnStart(eff config.EffectiveConfig, sourceName string)
	// OnPhaseDone 在阶段结束时调用："chart" | "lookup" | "score" | "write"。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnMovieDone 在单部电影补全完成时调用（评分调整之前的原始记录）。
	OnMovieDone(idx, total int, rec domain.MovieRecord, dur time.Duration)
}
