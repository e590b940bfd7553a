package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client 把原始 HAR 上传到运行中的 server，由 server 端完成解析与打标。
type Client struct {
	url    string
	client *http.Client
}

func NewClient(serverURL string, timeout time.Duration) *Client {
	return &Client{
		url: serverURL + "/api/v1/capture",
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) UploadCapture(ctx context.Context, raw []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("构造 HTTP 请求失败：%w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("POST 上传失败：%w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("POST 上传失败：status=%s body=%s", resp.Status, string(b))
	}
	return nil
}
