package api

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"haranalyzer/internal/analyze"
	"haranalyzer/internal/har"
	"haranalyzer/internal/server/storage"
)

// 单次上传的 HAR 大小上限，超过视为非法输入。
const maxCaptureBytes = 64 << 20

type Handlers struct {
	store      storage.Store
	thresholds analyze.Thresholds
}

func NewHandlers(store storage.Store, th analyze.Thresholds) *Handlers {
	return &Handlers{store: store, thresholds: th}
}

// UploadCapture 接收原始 HAR 文本，跑完 解析→打标 流水线后整体替换
// 当前会话的抓包。entries 为空属于合法输入，返回零行汇总而不是报错。
func (h *Handlers) UploadCapture(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCaptureBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取请求体失败：" + err.Error()})
		return
	}
	if len(raw) > maxCaptureBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "HAR 超过大小上限"})
		return
	}

	records, diags, err := har.Parse(raw)
	if err != nil {
		var pe *har.ParseError
		if errors.As(err, &pe) {
			c.JSON(http.StatusBadRequest, gin.H{"error": pe.Error(), "kind": pe.Kind.String()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, d := range diags {
		log.Printf("跳过第 %d 条 entry：%s", d.Index, d.Reason)
	}

	rows := analyze.IdentifyProblematicAPIs(records, h.thresholds)
	if err := h.store.ReplaceCapture(c.Request.Context(), rows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "写入数据库失败：" + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":     analyze.Statistics(rows),
		"skipped":     len(diags),
		"diagnostics": diags,
	})
}

// Entries 返回当前会话的记录，保持抓包原始顺序。
func (h *Handlers) Entries(c *gin.Context) {
	onlyProblematic := c.Query("problematic") == "true"

	limit := 200
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 2000 {
			limit = v
		}
	}

	rows, err := h.store.Entries(c.Request.Context(), onlyProblematic, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询失败：" + err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Summary 每次都从当前会话的全量记录重新计算，不缓存聚合结果。
func (h *Handlers) Summary(c *gin.Context) {
	rows, err := h.store.Entries(c.Request.Context(), false, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询失败：" + err.Error()})
		return
	}
	c.JSON(http.StatusOK, analyze.Statistics(rows))
}

func (h *Handlers) Slowest(c *gin.Context) {
	n := 10
	if raw := c.Query("n"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			n = v
		}
	}

	rows, err := h.store.Entries(c.Request.Context(), false, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询失败：" + err.Error()})
		return
	}
	c.JSON(http.StatusOK, analyze.SlowestEndpoints(analyze.Records(rows), n))
}

func (h *Handlers) Domains(c *gin.Context) {
	rows, err := h.store.Entries(c.Request.Context(), false, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询失败：" + err.Error()})
		return
	}
	c.JSON(http.StatusOK, analyze.DomainBreakdown(analyze.Records(rows)))
}

// Distribution 返回 total_time 的分位数与 IQR 离群点。
func (h *Handlers) Distribution(c *gin.Context) {
	rows, err := h.store.Entries(c.Request.Context(), false, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询失败：" + err.Error()})
		return
	}
	records := analyze.Records(rows)
	c.JSON(http.StatusOK, gin.H{
		"percentiles": analyze.Percentiles(records),
		"outliers":    analyze.Outliers(records),
	})
}
