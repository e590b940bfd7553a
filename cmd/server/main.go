package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"haranalyzer/internal/config"
	"haranalyzer/internal/server/app"
)

func main() {
	var (
		cfgPath string
		listen  string
		driver  string
		dbPath  string
	)
	flag.StringVar(&cfgPath, "config", "", "yaml 配置文件路径")
	flag.StringVar(&listen, "listen", "", "监听地址")
	flag.StringVar(&driver, "db-driver", "", "数据库类型：sqlite 或 duckdb")
	flag.StringVar(&dbPath, "db", "", "数据库文件路径")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败：%v", err)
	}
	// 命令行参数优先于配置文件。
	if listen != "" {
		cfg.ListenAddr = listen
	}
	if driver != "" {
		cfg.DBDriver = driver
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := app.NewServer(app.Config{
		ListenAddr: cfg.ListenAddr,
		DBDriver:   cfg.DBDriver,
		DBPath:     cfg.DBPath,
		Thresholds: cfg.Thresholds,
	})
	if err != nil {
		log.Fatalf("server 初始化失败：%v", err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("server 监听：%s", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server 运行失败：%v", err)
	}
}
