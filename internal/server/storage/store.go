package storage

import (
	"context"
	"strings"

	"haranalyzer/internal/analyze"
)

// Store 保存当前分析会话的抓包记录。一次上传对应一份抓包，
// ReplaceCapture 整体换掉上一份，不跨会话累积。
type Store interface {
	ReplaceCapture(ctx context.Context, rows []analyze.AnalyzedEntry) error
	Entries(ctx context.Context, onlyProblematic bool, limit int) ([]analyze.AnalyzedEntry, error)
	Close() error
}

// JoinIssues / SplitIssues 负责标签列的落盘格式，各 driver 共用。
func JoinIssues(issues []analyze.Issue) string {
	if len(issues) == 0 {
		return ""
	}
	parts := make([]string, len(issues))
	for i, is := range issues {
		parts[i] = string(is)
	}
	return strings.Join(parts, ", ")
}

func SplitIssues(s string) []analyze.Issue {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ", ")
	out := make([]analyze.Issue, len(parts))
	for i, p := range parts {
		out[i] = analyze.Issue(p)
	}
	return out
}
