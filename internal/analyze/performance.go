package analyze

import (
	"sort"

	"haranalyzer/pkg/model"
)

// Issue 是单条请求上的性能问题标签。五项检查相互独立，一行可以同时
// 命中任意子集。
type Issue string

const (
	IssueSlowResponse    Issue = "Slow Response"
	IssueHighServerWait  Issue = "High Server Wait"
	IssueErrorResponse   Issue = "Error Response"
	IssueConnectionDelay Issue = "Connection Delay"
	IssueDNSDelay        Issue = "DNS Delay"
)

// Thresholds 是各项判定阈值，单位毫秒，严格大于才命中。
// 错误响应按 status >= 400 判定，不走阈值配置。
type Thresholds struct {
	SlowResponseMS    float64 `yaml:"slow_response_ms" json:"slow_response_ms"`
	HighWaitMS        float64 `yaml:"high_wait_ms" json:"high_wait_ms"`
	ConnectionDelayMS float64 `yaml:"connection_delay_ms" json:"connection_delay_ms"`
	DNSDelayMS        float64 `yaml:"dns_delay_ms" json:"dns_delay_ms"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		SlowResponseMS:    1000,
		HighWaitMS:        500,
		ConnectionDelayMS: 1000,
		DNSDelayMS:        100,
	}
}

// AnalyzedEntry 在原始 Entry 之上附加问题标签，原始字段原样保留。
type AnalyzedEntry struct {
	model.Entry
	Issues        []Issue `json:"issues,omitempty"`
	IsProblematic bool    `json:"is_problematic"`
}

// IdentifyProblematicAPIs 对每一行独立执行五项检查，返回新切片，
// 不修改输入的 RecordSet。同样的输入永远产生同样的标签。
func IdentifyProblematicAPIs(records model.RecordSet, th Thresholds) []AnalyzedEntry {
	out := make([]AnalyzedEntry, 0, len(records))
	for _, e := range records {
		issues := identifyIssues(e, th)
		out = append(out, AnalyzedEntry{
			Entry:         e,
			Issues:        issues,
			IsProblematic: len(issues) > 0,
		})
	}
	return out
}

func identifyIssues(e model.Entry, th Thresholds) []Issue {
	var issues []Issue
	if e.TotalTime > th.SlowResponseMS {
		issues = append(issues, IssueSlowResponse)
	}
	if e.Timing.Wait > th.HighWaitMS {
		issues = append(issues, IssueHighServerWait)
	}
	if e.Status >= 400 {
		issues = append(issues, IssueErrorResponse)
	}
	if e.Timing.Connect > th.ConnectionDelayMS {
		issues = append(issues, IssueConnectionDelay)
	}
	if e.Timing.DNS > th.DNSDelayMS {
		issues = append(issues, IssueDNSDelay)
	}
	return issues
}

// Records 取回未增强的原始记录，顺序不变。
func Records(rows []AnalyzedEntry) model.RecordSet {
	out := make(model.RecordSet, len(rows))
	for i, r := range rows {
		out[i] = r.Entry
	}
	return out
}

// Summary 是对整个记录集的汇总统计，每次调用都重新计算，不缓存。
type Summary struct {
	TotalRequests    int     `json:"total_requests"`
	UniqueEndpoints  int     `json:"unique_endpoints"`
	ErrorCount       int     `json:"error_count"`
	ErrorRate        float64 `json:"error_rate"`
	AvgTime          float64 `json:"avg_response_time"`
	MaxTime          float64 `json:"max_response_time"`
	MinTime          float64 `json:"min_response_time"`
	ProblematicCount int     `json:"problematic_count"`
}

// Statistics 在一次遍历里算完全部指标。空输入返回全零值，不会除零。
func Statistics(rows []AnalyzedEntry) Summary {
	s := Summary{TotalRequests: len(rows)}
	if len(rows) == 0 {
		return s
	}

	endpoints := make(map[string]struct{}, len(rows))
	var sum float64
	s.MinTime = rows[0].TotalTime
	s.MaxTime = rows[0].TotalTime
	for _, r := range rows {
		endpoints[r.Endpoint] = struct{}{}
		sum += r.TotalTime
		if r.TotalTime > s.MaxTime {
			s.MaxTime = r.TotalTime
		}
		if r.TotalTime < s.MinTime {
			s.MinTime = r.TotalTime
		}
		if r.Status >= 400 {
			s.ErrorCount++
		}
		if r.IsProblematic {
			s.ProblematicCount++
		}
	}
	s.UniqueEndpoints = len(endpoints)
	s.ErrorRate = float64(s.ErrorCount) / float64(len(rows)) * 100
	s.AvgTime = sum / float64(len(rows))
	return s
}

// EndpointTime 是单个 endpoint 的平均耗时与请求数。
type EndpointTime struct {
	Endpoint string  `json:"endpoint"`
	AvgTime  float64 `json:"avg_response_time"`
	Count    int     `json:"request_count"`
}

// SlowestEndpoints 按 endpoint 平均耗时降序取前 n 个；平均值相同时
// 保持 endpoint 首次出现的顺序。n <= 0 返回空。
func SlowestEndpoints(records model.RecordSet, n int) []EndpointTime {
	if n <= 0 || len(records) == 0 {
		return nil
	}

	type acc struct {
		sum   float64
		count int
	}
	byEndpoint := make(map[string]*acc, len(records))
	order := make([]string, 0, len(records))
	for _, e := range records {
		a := byEndpoint[e.Endpoint]
		if a == nil {
			a = &acc{}
			byEndpoint[e.Endpoint] = a
			order = append(order, e.Endpoint)
		}
		a.sum += e.TotalTime
		a.count++
	}

	out := make([]EndpointTime, 0, len(order))
	for _, ep := range order {
		a := byEndpoint[ep]
		out = append(out, EndpointTime{
			Endpoint: ep,
			AvgTime:  a.sum / float64(a.count),
			Count:    a.count,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgTime > out[j].AvgTime })
	if n < len(out) {
		out = out[:n]
	}
	return out
}
