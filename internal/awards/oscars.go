package awards

import (
	"regexp"
	"strconv"
)

// 只认 “Won N Oscars”（大小写敏感）；提名文案必须返回 0。
var wonOscarsRE = regexp.MustCompile(`Won (\d+) Oscars`)

// CountOscars 从 awards 描述文本中提取获得的奥斯卡数量。
// 只看第一个匹配；无匹配或数字无法解析时返回 0。
func CountOscars(text string) int {
	m := wonOscarsRE.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 {
		return 0
	}
	return n
}
