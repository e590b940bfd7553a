package analyze

import (
	"net/url"
	"sort"

	"haranalyzer/pkg/model"
)

// DomainStat 是按域名聚合后的统计，用来看第三方依赖的耗时占比。
type DomainStat struct {
	Domain       string  `json:"domain"`
	RequestCount int     `json:"request_count"`
	TotalTime    float64 `json:"total_time_sum"`
	AvgTime      float64 `json:"avg_time"`
	MaxTime      float64 `json:"max_time"`
	TotalSize    int64   `json:"total_size"`
	ErrorCount   int     `json:"error_count"`
	RequestShare float64 `json:"request_percentage"`
	TimeShare    float64 `json:"time_percentage"`
}

// DomainBreakdown 按 URL 的 host 分组聚合，按总耗时降序返回。
// URL 解析失败的行归入空域名，不丢行。
func DomainBreakdown(records model.RecordSet) []DomainStat {
	if len(records) == 0 {
		return nil
	}

	type acc struct {
		count   int
		timeSum float64
		maxTime float64
		size    int64
		errors  int
	}
	byDomain := make(map[string]*acc)
	order := make([]string, 0, 8)
	var grandTime float64
	for _, e := range records {
		host := ""
		if u, err := url.Parse(e.URL); err == nil {
			host = u.Host
		}
		a := byDomain[host]
		if a == nil {
			a = &acc{}
			byDomain[host] = a
			order = append(order, host)
		}
		a.count++
		a.timeSum += e.TotalTime
		if e.TotalTime > a.maxTime {
			a.maxTime = e.TotalTime
		}
		a.size += e.ResponseSize
		if e.Status >= 400 {
			a.errors++
		}
		grandTime += e.TotalTime
	}

	total := float64(len(records))
	out := make([]DomainStat, 0, len(order))
	for _, host := range order {
		a := byDomain[host]
		st := DomainStat{
			Domain:       host,
			RequestCount: a.count,
			TotalTime:    a.timeSum,
			AvgTime:      a.timeSum / float64(a.count),
			MaxTime:      a.maxTime,
			TotalSize:    a.size,
			ErrorCount:   a.errors,
			RequestShare: float64(a.count) / total * 100,
		}
		if grandTime > 0 {
			st.TimeShare = a.timeSum / grandTime * 100
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalTime > out[j].TotalTime })
	return out
}
