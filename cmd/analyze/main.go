package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"haranalyzer/internal/analyze"
	"haranalyzer/internal/config"
	"haranalyzer/internal/har"
	"haranalyzer/internal/report"
)

func main() {
	var (
		file     string
		cfgPath  string
		top      int
		probOnly bool
		out      string
		server   string
	)
	flag.StringVar(&file, "file", "", "HAR 文件路径，必填")
	flag.StringVar(&cfgPath, "config", "", "yaml 配置文件路径")
	flag.IntVar(&top, "top", 10, "最慢 endpoint 的数量")
	flag.BoolVar(&probOnly, "problems-only", false, "只输出有问题的记录")
	flag.StringVar(&out, "out", "", "把 JSON 报告写到文件而不是渲染表格")
	flag.StringVar(&server, "server", "", "同时把原始 HAR 上传到该 server")
	flag.Parse()

	if file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败：%v", err)
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("读取 HAR 文件失败：%v", err)
	}

	records, diags, err := har.Parse(raw)
	if err != nil {
		var pe *har.ParseError
		if errors.As(err, &pe) {
			log.Fatalf("解析失败（%s）：%v", pe.Kind, pe)
		}
		log.Fatalf("解析失败：%v", err)
	}
	for _, d := range diags {
		log.Printf("跳过第 %d 条 entry：%s", d.Index, d.Reason)
	}

	rows := analyze.IdentifyProblematicAPIs(records, cfg.Thresholds)

	if server != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := report.NewClient(server, 30*time.Second).UploadCapture(ctx, raw); err != nil {
			log.Fatalf("上传失败：%v", err)
		}
		log.Printf("已上传到 %s", server)
	}

	if out != "" {
		if err := report.WriteJSON(out, report.Build(rows, diags, top)); err != nil {
			log.Fatalf("导出报告失败：%v", err)
		}
		log.Printf("报告已写入 %s", out)
		return
	}

	records = analyze.Records(rows)
	shown := rows
	if probOnly {
		shown = shown[:0:0]
		for _, r := range rows {
			if r.IsProblematic {
				shown = append(shown, r)
			}
		}
	}

	fmt.Println("Summary")
	report.RenderSummary(os.Stdout, analyze.Statistics(rows))
	fmt.Println("Entries")
	report.RenderEntries(os.Stdout, shown)
	fmt.Println("Slowest Endpoints")
	report.RenderSlowest(os.Stdout, analyze.SlowestEndpoints(records, top))
	fmt.Println("Domains")
	report.RenderDomains(os.Stdout, analyze.DomainBreakdown(records))
}
