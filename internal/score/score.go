// Package score 实现两条确定性的评分调整规则：奥斯卡加分与投票数惩罚。
//
// 计算全部使用十进制（shopspring/decimal），避免 9.3+0.5 这类二进制浮点误差，
// 每一步结束后保留 2 位小数。调整后的评分不做截断。
package score

import (
	"github.com/shopspring/decimal"

	"github.com/John-Robertt/imdbtop/internal/domain"
)

// VoteStep 是投票数惩罚的步长：每偏离最大值 VoteStep 票扣 PenaltyPerStep 分。
const VoteStep = 100_000

var (
	PenaltyPerStep = decimal.RequireFromString("0.1")

	bonusSmall  = decimal.RequireFromString("0.3")
	bonusMedium = decimal.RequireFromString("0.5")
	bonusLarge  = decimal.RequireFromString("1")
	bonusHuge   = decimal.RequireFromString("1.5")
)

// OscarBonus 按获奖数量返回加分档位。
//
//	1–2 => 0.3, 3–5 => 0.5, 6–10 => 1, >10 => 1.5, 0 => 0
func OscarBonus(numOscars int) decimal.Decimal {
	switch {
	case numOscars >= 1 && numOscars <= 2:
		return bonusSmall
	case numOscars >= 3 && numOscars <= 5:
		return bonusMedium
	case numOscars >= 6 && numOscars <= 10:
		return bonusLarge
	case numOscars > 10:
		return bonusHuge
	default:
		return decimal.Zero
	}
}

// VotePenalty 返回相对最大投票数的扣分：floor((maxVotes-votes)/100000) * 0.1。
// 偏离量按整除向下取整；votes >= maxVotes 时不扣分。
func VotePenalty(maxVotes, votes int) decimal.Decimal {
	dev := maxVotes - votes
	if dev <= 0 {
		return decimal.Zero
	}
	return PenaltyPerStep.Mul(decimal.NewFromInt(int64(dev / VoteStep)))
}

// MaxVotes 返回集合中的最大投票数（空集合为 0）。
func MaxVotes(movies []domain.MovieRecord) int {
	top := 0
	for _, m := range movies {
		if m.Votes > top {
			top = m.Votes
		}
	}
	return top
}

// ApplyOscarBonus 给单条记录加上奥斯卡加分（原地修改，结果保留 2 位小数）。
// 每条记录只能调用一次：重复调用会重复加分。
func ApplyOscarBonus(m *domain.MovieRecord) {
	m.Rating = round2(decimal.NewFromFloat(m.Rating).Add(OscarBonus(m.NumOscars)))
}

// ApplyVotePenalty 按给定的最大投票数扣分（原地修改，结果保留 2 位小数）。
func ApplyVotePenalty(m *domain.MovieRecord, maxVotes int) {
	m.Rating = round2(decimal.NewFromFloat(m.Rating).Sub(VotePenalty(maxVotes, m.Votes)))
}

// Adjust 对整个集合依次执行两轮调整并返回本次使用的最大投票数。
//
// 顺序固定：
// 1) 先在未调整的集合上计算 maxVotes（只算一次，之后保持不变）
// 2) 第一轮：逐条奥斯卡加分
// 3) 第二轮：逐条投票数惩罚
//
// 原地修改，不改变记录顺序。
func Adjust(movies []domain.MovieRecord) int {
	maxVotes := MaxVotes(movies)
	for i := range movies {
		ApplyOscarBonus(&movies[i])
	}
	for i := range movies {
		ApplyVotePenalty(&movies[i], maxVotes)
	}
	return maxVotes
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
