package analyze

import (
	"reflect"
	"testing"

	"haranalyzer/pkg/model"
)

func entry(endpoint string, total float64) model.Entry {
	return model.Entry{URL: endpoint, Endpoint: endpoint, Method: "GET", Status: 200, TotalTime: total}
}

func TestIdentifyIssuesBoundaries(t *testing.T) {
	th := DefaultThresholds()

	cases := []struct {
		name string
		e    model.Entry
		want []Issue
	}{
		{"at slow threshold", entry("/a", 1000), nil},
		{"above slow threshold", entry("/a", 1001), []Issue{IssueSlowResponse}},
		{"at wait threshold", model.Entry{Method: "GET", Status: 200, Timing: model.Timing{Wait: 500}}, nil},
		{"above wait threshold", model.Entry{Method: "GET", Status: 200, Timing: model.Timing{Wait: 500.5}}, []Issue{IssueHighServerWait}},
		{"status 399", model.Entry{Method: "GET", Status: 399}, nil},
		{"status 400", model.Entry{Method: "GET", Status: 400}, []Issue{IssueErrorResponse}},
		{"at connect threshold", model.Entry{Method: "GET", Status: 200, Timing: model.Timing{Connect: 1000}}, nil},
		{"above connect threshold", model.Entry{Method: "GET", Status: 200, Timing: model.Timing{Connect: 1200}}, []Issue{IssueConnectionDelay}},
		{"at dns threshold", model.Entry{Method: "GET", Status: 200, Timing: model.Timing{DNS: 100}}, nil},
		{"above dns threshold", model.Entry{Method: "GET", Status: 200, Timing: model.Timing{DNS: 101}}, []Issue{IssueDNSDelay}},
	}
	for _, c := range cases {
		got := identifyIssues(c.e, th)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s: got %v want %v", c.name, got, c.want)
		}
	}
}

func TestIdentifyIssuesIndependent(t *testing.T) {
	e := model.Entry{
		Method:    "GET",
		Status:    500,
		TotalTime: 2000,
		Timing:    model.Timing{Wait: 600, Connect: 1500, DNS: 200},
	}
	got := identifyIssues(e, DefaultThresholds())
	want := []Issue{IssueSlowResponse, IssueHighServerWait, IssueErrorResponse, IssueConnectionDelay, IssueDNSDelay}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v", got)
	}
}

func TestIdentifyProblematicAPIsPure(t *testing.T) {
	records := model.RecordSet{
		entry("/a", 1500),
		entry("/b", 100),
	}
	th := DefaultThresholds()

	first := IdentifyProblematicAPIs(records, th)
	second := IdentifyProblematicAPIs(records, th)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("not idempotent: %v vs %v", first, second)
	}

	if !first[0].IsProblematic || first[1].IsProblematic {
		t.Fatalf("rows=%v", first)
	}
	// 输入不被修改。
	if records[0].TotalTime != 1500 || records[1].TotalTime != 100 {
		t.Fatalf("input mutated: %v", records)
	}
	if len(first) != len(records) {
		t.Fatalf("len=%d", len(first))
	}
}

func TestStatisticsEmpty(t *testing.T) {
	s := Statistics(nil)
	if s.TotalRequests != 0 || s.ErrorRate != 0 || s.AvgTime != 0 || s.MaxTime != 0 || s.MinTime != 0 {
		t.Fatalf("summary=%+v", s)
	}
}

func TestStatistics(t *testing.T) {
	records := model.RecordSet{
		entry("/a", 100),
		entry("/a", 300),
		{URL: "/c", Endpoint: "/c", Method: "GET", Status: 500, TotalTime: 2000},
	}
	rows := IdentifyProblematicAPIs(records, DefaultThresholds())
	s := Statistics(rows)

	if s.TotalRequests != 3 {
		t.Errorf("total=%d", s.TotalRequests)
	}
	if s.UniqueEndpoints != 2 {
		t.Errorf("unique=%d", s.UniqueEndpoints)
	}
	if s.ErrorCount != 1 {
		t.Errorf("errors=%d", s.ErrorCount)
	}
	if s.ErrorRate < 33.3 || s.ErrorRate > 33.4 {
		t.Errorf("rate=%v", s.ErrorRate)
	}
	if s.AvgTime != 800 {
		t.Errorf("avg=%v", s.AvgTime)
	}
	if s.MaxTime != 2000 || s.MinTime != 100 {
		t.Errorf("max=%v min=%v", s.MaxTime, s.MinTime)
	}
	if s.ProblematicCount != 1 {
		t.Errorf("problematic=%d", s.ProblematicCount)
	}
}

func TestSlowestEndpoints(t *testing.T) {
	records := model.RecordSet{
		entry("/a", 200),
		entry("/b", 1500),
		entry("/c", 800),
		entry("/d", 1500),
	}

	got := SlowestEndpoints(records, 2)
	if len(got) != 2 {
		t.Fatalf("len=%d", len(got))
	}
	// 平均值相同时按首次出现顺序：/b 在 /d 之前。
	if got[0].Endpoint != "/b" || got[1].Endpoint != "/d" {
		t.Fatalf("got=%v", got)
	}

	if got := SlowestEndpoints(records, 0); len(got) != 0 {
		t.Fatalf("n=0 got=%v", got)
	}
	if got := SlowestEndpoints(records, -3); len(got) != 0 {
		t.Fatalf("n<0 got=%v", got)
	}
	if got := SlowestEndpoints(records, 100); len(got) != 4 {
		t.Fatalf("n>distinct got=%v", got)
	}
}

func TestSlowestEndpointsAveragesPerEndpoint(t *testing.T) {
	records := model.RecordSet{
		entry("/a", 100),
		entry("/a", 300),
		entry("/b", 150),
	}
	got := SlowestEndpoints(records, 10)
	if len(got) != 2 {
		t.Fatalf("len=%d", len(got))
	}
	if got[0].Endpoint != "/a" || got[0].AvgTime != 200 || got[0].Count != 2 {
		t.Fatalf("got=%v", got)
	}
	if got[1].Endpoint != "/b" || got[1].AvgTime != 150 {
		t.Fatalf("got=%v", got)
	}
}

func TestRecords(t *testing.T) {
	rows := []AnalyzedEntry{
		{Entry: entry("/a", 1), Issues: []Issue{IssueSlowResponse}, IsProblematic: true},
		{Entry: entry("/b", 2)},
	}
	records := Records(rows)
	if len(records) != 2 || records[0].Endpoint != "/a" || records[1].Endpoint != "/b" {
		t.Fatalf("records=%v", records)
	}
}
