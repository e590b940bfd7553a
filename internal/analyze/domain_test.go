package analyze

import (
	"testing"

	"haranalyzer/pkg/model"
)

func TestDomainBreakdown(t *testing.T) {
	records := model.RecordSet{
		{URL: "https://api.example.com/a", Method: "GET", Status: 200, TotalTime: 100, ResponseSize: 10},
		{URL: "https://api.example.com/b", Method: "GET", Status: 500, TotalTime: 300, ResponseSize: 20},
		{URL: "https://cdn.example.com/x.js", Method: "GET", Status: 200, TotalTime: 600, ResponseSize: 1000},
	}

	stats := DomainBreakdown(records)
	if len(stats) != 2 {
		t.Fatalf("len=%d", len(stats))
	}
	// 按总耗时降序：cdn 600 > api 400。
	if stats[0].Domain != "cdn.example.com" || stats[1].Domain != "api.example.com" {
		t.Fatalf("order=%v %v", stats[0].Domain, stats[1].Domain)
	}

	api := stats[1]
	if api.RequestCount != 2 || api.TotalTime != 400 || api.AvgTime != 200 || api.MaxTime != 300 {
		t.Errorf("api=%+v", api)
	}
	if api.ErrorCount != 1 || api.TotalSize != 30 {
		t.Errorf("api=%+v", api)
	}
	if api.TimeShare < 39.99 || api.TimeShare > 40.01 {
		t.Errorf("time share=%v", api.TimeShare)
	}
	if stats[0].RequestShare < 33.3 || stats[0].RequestShare > 33.4 {
		t.Errorf("request share=%v", stats[0].RequestShare)
	}
}

func TestDomainBreakdownEmpty(t *testing.T) {
	if stats := DomainBreakdown(nil); len(stats) != 0 {
		t.Fatalf("stats=%v", stats)
	}
}

func TestDomainBreakdownZeroTime(t *testing.T) {
	records := model.RecordSet{
		{URL: "https://a/x", Method: "GET", Status: 200},
	}
	stats := DomainBreakdown(records)
	if len(stats) != 1 || stats[0].TimeShare != 0 {
		t.Fatalf("stats=%v", stats)
	}
}
