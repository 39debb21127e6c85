package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/John-Robertt/imdbtop/internal/app/run"
	"github.com/John-Robertt/imdbtop/internal/config"
	"github.com/John-Robertt/imdbtop/internal/csvout"
	"github.com/John-Robertt/imdbtop/internal/domain"
	"github.com/John-Robertt/imdbtop/internal/source"
	"github.com/John-Robertt/imdbtop/internal/source/imdb"
	"github.com/John-Robertt/imdbtop/internal/source/omdb"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		os.Exit(1)
	}
	if code := runMain(os.Args[1:], cwd, os.Getenv, os.Stdout, os.Stderr); code != 0 {
		os.Exit(code)
	}
}

// runMain 是可测试的入口：不直接读 os.Args/os.Getwd，也不调用 os.Exit。
func runMain(args []string, cwd string, getenv func(string) string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		if isHelp(args[0]) {
			printUsage(stdout)
			return 0
		}
		fmt.Fprintf(stderr, "未知参数：%q\n\n", args[0])
		printUsage(stderr)
		return 2
	}

	eff, err := config.LoadEffective(cwd, getenv)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	reg, err := source.NewRegistry(
		imdb.Source{SiteURL: eff.SiteURL},
		omdb.Source{APIKey: eff.APIKey, BaseURL: eff.OMDbURL},
	)
	if err != nil {
		fmt.Fprintf(stderr, "初始化 source registry 失败：%v\n", err)
		return 1
	}

	progressW, interactive := pickProgressWriter(stdout, stderr)
	var obs run.Observer
	var ui *progressUI
	if interactive {
		ui = newProgressUI(progressW)
		obs = ui
	}

	rr, err := run.Execute(context.Background(), eff, reg, obs)
	if ui != nil {
		ui.Close()
	}
	if err != nil {
		fmt.Fprintf(stderr, "失败：%v\n", err)
		return 1
	}

	emitReport(stdout, stderr, rr)
	return 0
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `用法：
  imdbtop

抓取 IMDb Top 250 的前 %d 部电影，按奥斯卡加分与投票数惩罚调整评分，写入 CSV。

数据来源：
  设置了 %s（进程环境或 ./.env）时使用 OMDb API，否则直接抓取 IMDb 页面。

可选配置文件 ./%s：
  chart_url / site_url / omdb_url / output / proxy.url

输出：
  默认 ./%s（整体覆盖）；stdout 非终端时输出 RunReport JSON。
`, domain.TopN, config.EnvAPIKey, config.FileName, csvout.DefaultFileName)
}

func emitReport(stdout, stderr io.Writer, rr domain.RunReport) {
	if isTTY(stdout) {
		renderTable(stdout, rr)
		fmt.Fprintf(stdout, "完成：source=%s movies=%d output=%s\n", rr.Source, rr.Summary.Movies, rr.Output)
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个 RunReport JSON（摘要走 stderr）。
	enc := json.NewEncoder(stdout)
	_ = enc.Encode(rr)
	fmt.Fprintf(stderr, "完成：source=%s movies=%d output=%s\n", rr.Source, rr.Summary.Movies, rr.Output)
}

func renderTable(w io.Writer, rr domain.RunReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Name", "Rating", "Votes", "Oscars"})
	for i, m := range rr.Movies {
		t.AppendRow(table.Row{i + 1, m.Name, csvout.FormatRating(m.Rating), strconv.Itoa(m.Votes), m.NumOscars})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func pickProgressWriter(stdout, stderr io.Writer) (io.Writer, bool) {
	// 进度输出只在交互终端启用；默认走 stderr（不污染 stdout JSON）。
	if isTTY(stderr) {
		return stderr, true
	}
	// 某些环境（例如仅重定向 stderr）下，stdout 仍是 TTY：退化输出到 stdout。
	if isTTY(stdout) {
		return stdout, true
	}
	return nil, false
}
