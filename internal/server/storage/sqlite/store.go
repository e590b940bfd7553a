package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"haranalyzer/internal/analyze"
	"haranalyzer/internal/server/storage"
)

type Store struct {
	db *sql.DB
}

func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "./capture.sqlite"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("打开 SQLite 失败：%w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	// seq 保存抓包原始顺序，查询时按它升序还原。
	ddl := `
CREATE TABLE IF NOT EXISTS capture_entries (
	seq              INTEGER,
	url              TEXT,
	endpoint         TEXT,
	method           TEXT,
	status           INTEGER,
	status_text      TEXT,
	total_time       REAL,
	blocked          REAL,
	dns              REAL,
	connect          REAL,
	ssl              REAL,
	send             REAL,
	wait             REAL,
	receive          REAL,
	started_datetime TEXT,
	response_size    INTEGER,
	mime_type        TEXT,
	problems         TEXT,
	is_problematic   INTEGER
);
CREATE INDEX IF NOT EXISTS idx_capture_seq      ON capture_entries(seq);
CREATE INDEX IF NOT EXISTS idx_capture_endpoint ON capture_entries(endpoint);
`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("建表失败：%w", err)
	}
	return nil
}

const insertSQL = `
INSERT INTO capture_entries (
	seq, url, endpoint, method, status, status_text, total_time,
	blocked, dns, connect, ssl, send, wait, receive,
	started_datetime, response_size, mime_type, problems, is_problematic
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`

// ReplaceCapture 在一个事务里清掉上一份抓包并写入新的一份。
func (s *Store) ReplaceCapture(ctx context.Context, rows []analyze.AnalyzedEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启事务失败：%w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM capture_entries;`); err != nil {
		return fmt.Errorf("清空旧抓包失败：%w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("准备插入语句失败：%w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		problematic := 0
		if r.IsProblematic {
			problematic = 1
		}
		if _, err := stmt.ExecContext(ctx,
			i,
			r.URL,
			r.Endpoint,
			r.Method,
			r.Status,
			r.StatusText,
			r.TotalTime,
			r.Timing.Blocked,
			r.Timing.DNS,
			r.Timing.Connect,
			r.Timing.SSL,
			r.Timing.Send,
			r.Timing.Wait,
			r.Timing.Receive,
			r.StartedDateTime,
			r.ResponseSize,
			r.MIMEType,
			storage.JoinIssues(r.Issues),
			problematic,
		); err != nil {
			return fmt.Errorf("插入第 %d 行失败：%w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("提交事务失败：%w", err)
	}
	return nil
}

func (s *Store) Entries(ctx context.Context, onlyProblematic bool, limit int) ([]analyze.AnalyzedEntry, error) {
	q := `
SELECT
	url, endpoint, method, status, status_text, total_time,
	blocked, dns, connect, ssl, send, wait, receive,
	started_datetime, response_size, mime_type, problems, is_problematic
FROM capture_entries`
	if onlyProblematic {
		q += `
WHERE is_problematic = 1`
	}
	q += `
ORDER BY seq ASC`

	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, q+`
LIMIT ?;`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, q+`;`)
	}
	if err != nil {
		return nil, fmt.Errorf("查询失败：%w", err)
	}
	defer rows.Close()

	out := make([]analyze.AnalyzedEntry, 0, 64)
	for rows.Next() {
		var (
			r           analyze.AnalyzedEntry
			problems    string
			problematic int
		)
		if err := rows.Scan(
			&r.URL,
			&r.Endpoint,
			&r.Method,
			&r.Status,
			&r.StatusText,
			&r.TotalTime,
			&r.Timing.Blocked,
			&r.Timing.DNS,
			&r.Timing.Connect,
			&r.Timing.SSL,
			&r.Timing.Send,
			&r.Timing.Wait,
			&r.Timing.Receive,
			&r.StartedDateTime,
			&r.ResponseSize,
			&r.MIMEType,
			&problems,
			&problematic,
		); err != nil {
			return nil, fmt.Errorf("读取行失败：%w", err)
		}
		r.Issues = storage.SplitIssues(problems)
		r.IsProblematic = problematic != 0
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历结果失败：%w", err)
	}
	return out, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
