package report

import (
	"encoding/json"
	"fmt"
	"os"

	"haranalyzer/internal/analyze"
	"haranalyzer/internal/har"
)

// Report 是离线分析的完整产物，写成一份 JSON 交给下游工具。
type Report struct {
	Summary     analyze.Summary         `json:"summary"`
	Entries     []analyze.AnalyzedEntry `json:"entries"`
	Slowest     []analyze.EndpointTime  `json:"slowest_endpoints"`
	Domains     []analyze.DomainStat    `json:"domains"`
	Percentiles analyze.PercentileSet   `json:"percentiles"`
	Outliers    analyze.OutlierReport   `json:"outliers"`
	Skipped     []har.Diagnostic        `json:"skipped,omitempty"`
}

// Build 从打标后的记录组装报告，top 控制最慢 endpoint 的数量。
func Build(rows []analyze.AnalyzedEntry, diags []har.Diagnostic, top int) Report {
	records := analyze.Records(rows)
	return Report{
		Summary:     analyze.Statistics(rows),
		Entries:     rows,
		Slowest:     analyze.SlowestEndpoints(records, top),
		Domains:     analyze.DomainBreakdown(records),
		Percentiles: analyze.Percentiles(records),
		Outliers:    analyze.Outliers(records),
		Skipped:     diags,
	}
}

func WriteJSON(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化报告失败：%w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写报告文件失败：%w", err)
	}
	return nil
}
