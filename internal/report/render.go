package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"haranalyzer/internal/analyze"
)

// RenderSummary 把汇总统计渲染成两列表格。
func RenderSummary(w io.Writer, s analyze.Summary) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Metric", "Value"})
	t.SetAutoWrapText(false)
	t.SetRowLine(false)

	t.Append([]string{"Total Requests", fmt.Sprintf("%d", s.TotalRequests)})
	t.Append([]string{"Unique Endpoints", fmt.Sprintf("%d", s.UniqueEndpoints)})
	t.Append([]string{"Errors (status >= 400)", fmt.Sprintf("%d", s.ErrorCount)})
	t.Append([]string{"Error Rate", fmt.Sprintf("%.2f%%", s.ErrorRate)})
	t.Append([]string{"Avg Time (ms)", fmt.Sprintf("%.2f", s.AvgTime)})
	t.Append([]string{"Max Time (ms)", fmt.Sprintf("%.2f", s.MaxTime)})
	t.Append([]string{"Min Time (ms)", fmt.Sprintf("%.2f", s.MinTime)})
	t.Append([]string{"Problematic", fmt.Sprintf("%d", s.ProblematicCount)})
	t.Render()
}

// RenderEntries 按抓包顺序渲染记录，problems 列为空串表示无问题。
func RenderEntries(w io.Writer, rows []analyze.AnalyzedEntry) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Method", "Endpoint", "Status", "Time(ms)", "Wait(ms)", "Size", "Problems"})
	t.SetAutoWrapText(false)
	t.SetRowLine(false)

	for _, r := range rows {
		t.Append([]string{
			r.Method,
			r.Endpoint,
			fmt.Sprintf("%d", r.Status),
			fmt.Sprintf("%.1f", r.TotalTime),
			fmt.Sprintf("%.1f", r.Timing.Wait),
			fmt.Sprintf("%d", r.ResponseSize),
			joinIssues(r.Issues),
		})
	}
	t.Render()
}

func RenderSlowest(w io.Writer, eps []analyze.EndpointTime) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Endpoint", "Avg Time(ms)", "Requests"})
	t.SetAutoWrapText(false)
	t.SetRowLine(false)

	for _, ep := range eps {
		t.Append([]string{
			ep.Endpoint,
			fmt.Sprintf("%.1f", ep.AvgTime),
			fmt.Sprintf("%d", ep.Count),
		})
	}
	t.Render()
}

func RenderDomains(w io.Writer, stats []analyze.DomainStat) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Domain", "Requests", "Total(ms)", "Avg(ms)", "Errors", "Time %"})
	t.SetAutoWrapText(false)
	t.SetRowLine(false)

	for _, d := range stats {
		t.Append([]string{
			d.Domain,
			fmt.Sprintf("%d", d.RequestCount),
			fmt.Sprintf("%.1f", d.TotalTime),
			fmt.Sprintf("%.1f", d.AvgTime),
			fmt.Sprintf("%d", d.ErrorCount),
			fmt.Sprintf("%.1f", d.TimeShare),
		})
	}
	t.Render()
}

func joinIssues(issues []analyze.Issue) string {
	out := ""
	for i, is := range issues {
		if i > 0 {
			out += ", "
		}
		out += string(is)
	}
	return out
}
