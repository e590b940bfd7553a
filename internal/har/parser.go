package har

import (
	"encoding/json"
	"fmt"
	"strings"

	"haranalyzer/pkg/model"
)

// ErrorKind 区分文档级解析失败的类别。
type ErrorKind int

const (
	// KindMalformedJSON 表示输入不是合法 JSON。
	KindMalformedJSON ErrorKind = iota + 1
	// KindMissingEntries 表示 JSON 合法但缺少 log.entries 路径。
	KindMissingEntries
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformedJSON:
		return "malformed_json"
	case KindMissingEntries:
		return "missing_entries"
	default:
		return "unknown"
	}
}

// ParseError 是文档级解析失败，以返回值交给调用方，解析器不会 panic。
type ParseError struct {
	Kind ErrorKind
	err  error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindMalformedJSON:
		return fmt.Sprintf("HAR 不是合法 JSON：%v", e.err)
	case KindMissingEntries:
		return "HAR 缺少 log.entries"
	default:
		return "HAR 解析失败"
	}
}

func (e *ParseError) Unwrap() error { return e.err }

// Diagnostic 记录一条被跳过的 entry 及原因。行级问题只产生诊断，
// 不会中断整体解析。
type Diagnostic struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Parse 把原始 HAR 文本解析为按抓包顺序排列的 RecordSet。
// 文档级失败返回 *ParseError 且 RecordSet 为 nil；成功时 error 为 nil，
// entries 为空数组属于正常输入，返回零行的 RecordSet。
func Parse(raw []byte) (model.RecordSet, []Diagnostic, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		if !json.Valid(raw) {
			return nil, nil, &ParseError{Kind: KindMalformedJSON, err: err}
		}
		// JSON 本身合法，但顶层结构对不上 log.entries 的形状。
		return nil, nil, &ParseError{Kind: KindMissingEntries, err: err}
	}
	if doc.Log == nil || doc.Log.Entries == nil {
		return nil, nil, &ParseError{Kind: KindMissingEntries}
	}

	records := make(model.RecordSet, 0, len(doc.Log.Entries))
	var diags []Diagnostic
	for i, rawEntry := range doc.Log.Entries {
		entry, reason := convertEntry(rawEntry)
		if reason != "" {
			diags = append(diags, Diagnostic{Index: i, Reason: reason})
			continue
		}
		records = append(records, entry)
	}
	return records, diags, nil
}

// convertEntry 做单条校验与字段映射，非法时返回跳过原因。
func convertEntry(raw json.RawMessage) (model.Entry, string) {
	var he harEntry
	if err := json.Unmarshal(raw, &he); err != nil {
		return model.Entry{}, fmt.Sprintf("entry 结构非法：%v", err)
	}
	if he.Request == nil || he.Request.URL == "" {
		return model.Entry{}, "缺少 request.url"
	}
	if he.Request.Method == "" {
		return model.Entry{}, "缺少 request.method"
	}
	if he.Response == nil {
		return model.Entry{}, "缺少 response"
	}

	status := he.Response.Status
	if status < 0 {
		status = 0
	}
	size := he.Response.Content.Size
	if size < 0 {
		size = 0
	}

	return model.Entry{
		URL:             he.Request.URL,
		Endpoint:        stripQuery(he.Request.URL),
		Method:          strings.ToUpper(he.Request.Method),
		Status:          status,
		StatusText:      he.Response.StatusText,
		TotalTime:       he.Time,
		StartedDateTime: he.StartedDateTime,
		ResponseSize:    size,
		MIMEType:        he.Response.Content.MimeType,
		Timing: model.Timing{
			Blocked: safeTime(he.Timings.Blocked),
			DNS:     safeTime(he.Timings.DNS),
			Connect: safeTime(he.Timings.Connect),
			SSL:     safeTime(he.Timings.SSL),
			Send:    safeTime(he.Timings.Send),
			Wait:    safeTime(he.Timings.Wait),
			Receive: safeTime(he.Timings.Receive),
		},
	}, ""
}

// stripQuery 去掉第一个 ? 之后的查询串，同一 URL 永远得到同一 endpoint。
func stripQuery(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		return url[:i]
	}
	return url
}

// safeTime 把缺失或负值（HAR 的 -1 哨兵）归一化为 0。
func safeTime(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
