package har

import "encoding/json"

// HAR 文档结构，只声明解析需要的字段，其余内容忽略。
// entries 保留为 RawMessage，单条结构异常时跳过该条而不是整体失败。
type document struct {
	Log *harLog `json:"log"`
}

type harLog struct {
	Entries []json.RawMessage `json:"entries"`
}

type harEntry struct {
	StartedDateTime string       `json:"startedDateTime"`
	Time            float64      `json:"time"`
	Request         *harRequest  `json:"request"`
	Response        *harResponse `json:"response"`
	Timings         harTimings   `json:"timings"`
}

type harRequest struct {
	Method string `json:"method"`
	URL    string `json:"url"`
}

type harResponse struct {
	Status     int        `json:"status"`
	StatusText string     `json:"statusText"`
	Content    harContent `json:"content"`
}

type harContent struct {
	// 部分工具用负数表示大小未知。
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

type harTimings struct {
	Blocked float64 `json:"blocked"`
	DNS     float64 `json:"dns"`
	Connect float64 `json:"connect"`
	SSL     float64 `json:"ssl"`
	Send    float64 `json:"send"`
	Wait    float64 `json:"wait"`
	Receive float64 `json:"receive"`
}
