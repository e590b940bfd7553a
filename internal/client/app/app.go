package app

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"haranalyzer/internal/analyze"
	"haranalyzer/internal/report"
)

type Config struct {
	Server      string
	Problematic bool
	Limit       int
	Top         int
}

// Run 查询运行中的 server 并把当前会话的分析结果渲染成表格。
func Run(cfg Config) error {
	if cfg.Top <= 0 {
		cfg.Top = 10
	}

	var summary analyze.Summary
	if err := getJSON(cfg.Server, "/api/v1/summary", nil, &summary); err != nil {
		return err
	}

	q := url.Values{}
	if cfg.Problematic {
		q.Set("problematic", "true")
	}
	if cfg.Limit > 0 {
		q.Set("limit", strconv.Itoa(cfg.Limit))
	}
	var rows []analyze.AnalyzedEntry
	if err := getJSON(cfg.Server, "/api/v1/entries", q, &rows); err != nil {
		return err
	}

	var slowest []analyze.EndpointTime
	sq := url.Values{}
	sq.Set("n", strconv.Itoa(cfg.Top))
	if err := getJSON(cfg.Server, "/api/v1/slowest", sq, &slowest); err != nil {
		return err
	}

	fmt.Println("Summary")
	report.RenderSummary(os.Stdout, summary)
	fmt.Println("Entries")
	report.RenderEntries(os.Stdout, rows)
	fmt.Println("Slowest Endpoints")
	report.RenderSlowest(os.Stdout, slowest)
	return nil
}

func getJSON(server, path string, query url.Values, out any) error {
	u, err := url.Parse(server)
	if err != nil {
		return fmt.Errorf("server 参数非法：%w", err)
	}
	u.Path = path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(u.String())
	if err != nil {
		return fmt.Errorf("请求失败：%w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("查询失败：status=%s body=%s", resp.Status, string(b))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("解析响应 JSON 失败：%w", err)
	}
	return nil
}
