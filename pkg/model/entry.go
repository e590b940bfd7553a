package model

// Timing 描述单次请求各网络阶段的耗时，单位毫秒。
// HAR 规范用 -1 表示“不适用”，解析阶段统一归一化为 0。
type Timing struct {
	Blocked float64 `json:"blocked"`
	DNS     float64 `json:"dns"`
	Connect float64 `json:"connect"`
	SSL     float64 `json:"ssl"`
	Send    float64 `json:"send"`
	Wait    float64 `json:"wait"`
	Receive float64 `json:"receive"`
}

// Entry 是一条归一化后的请求记录。TotalTime 直接取自抓包工具上报的
// entry.time，不按阶段重新求和。
type Entry struct {
	URL             string  `json:"url"`
	Endpoint        string  `json:"endpoint"`
	Method          string  `json:"method"`
	Status          int     `json:"status"`
	StatusText      string  `json:"status_text"`
	TotalTime       float64 `json:"total_time"`
	StartedDateTime string  `json:"started_datetime"`
	ResponseSize    int64   `json:"response_size"`
	MIMEType        string  `json:"mime_type"`
	Timing          Timing  `json:"timing"`
}

// RecordSet 按抓包原始顺序保存 Entry，解析后不再变更。
type RecordSet []Entry
