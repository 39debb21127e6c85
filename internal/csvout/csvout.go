package csvout

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/John-Robertt/imdbtop/internal/domain"
)

// DefaultFileName 是输出文件名（写入工作目录，每次整体覆盖）。
const DefaultFileName = "modified_top_20_movies.csv"

// Header 是固定表头；不输出行号列。
var Header = []string{"name", "rating", "votes", "num_oscars"}

// Encode 把记录按输入顺序编码为 CSV（含表头）。
func Encode(movies []domain.MovieRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, m := range movies {
		rec := []string{
			m.Name,
			FormatRating(m.Rating),
			strconv.Itoa(m.Votes),
			strconv.Itoa(m.NumOscars),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatRating 输出最短的十进制表示，整数值保留 ".0"（例如 10 => "10.0"）。
func FormatRating(r float64) string {
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
