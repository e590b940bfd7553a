package analyze

import (
	"math"
	"sort"

	"haranalyzer/pkg/model"
)

// PercentileSet 是 total_time 的常用分位数，线性插值。
type PercentileSet struct {
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

func Percentiles(records model.RecordSet) PercentileSet {
	if len(records) == 0 {
		return PercentileSet{}
	}
	times := sortedTimes(records)
	return PercentileSet{
		P25: quantile(times, 0.25),
		P50: quantile(times, 0.50),
		P75: quantile(times, 0.75),
		P90: quantile(times, 0.90),
		P95: quantile(times, 0.95),
		P99: quantile(times, 0.99),
	}
}

// OutlierReport 是 IQR 规则（1.5 倍围栏）的离群点结果，
// Indices 指向抓包原始顺序里的行号。
type OutlierReport struct {
	LowerFence float64 `json:"lower_fence"`
	UpperFence float64 `json:"upper_fence"`
	Indices    []int   `json:"indices,omitempty"`
	Count      int     `json:"count"`
}

func Outliers(records model.RecordSet) OutlierReport {
	if len(records) == 0 {
		return OutlierReport{}
	}
	times := sortedTimes(records)
	q1 := quantile(times, 0.25)
	q3 := quantile(times, 0.75)
	iqr := q3 - q1

	rep := OutlierReport{
		LowerFence: q1 - 1.5*iqr,
		UpperFence: q3 + 1.5*iqr,
	}
	for i, e := range records {
		if e.TotalTime < rep.LowerFence || e.TotalTime > rep.UpperFence {
			rep.Indices = append(rep.Indices, i)
		}
	}
	rep.Count = len(rep.Indices)
	return rep
}

func sortedTimes(records model.RecordSet) []float64 {
	times := make([]float64, len(records))
	for i, e := range records {
		times[i] = e.TotalTime
	}
	sort.Float64s(times)
	return times
}

// quantile 要求输入已排序且非空。
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
