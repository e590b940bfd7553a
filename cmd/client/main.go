package main

import (
	"flag"
	"log"
	"os"

	"haranalyzer/internal/client/app"
)

func main() {
	var cfg app.Config
	flag.StringVar(&cfg.Server, "server", "http://127.0.0.1:8080", "Server 地址")
	flag.BoolVar(&cfg.Problematic, "problematic", false, "只看有问题的记录")
	flag.IntVar(&cfg.Limit, "limit", 200, "记录条数上限")
	flag.IntVar(&cfg.Top, "top", 10, "最慢 endpoint 的数量")
	flag.Parse()

	if err := app.Run(cfg); err != nil {
		log.Printf("client 失败：%v", err)
		os.Exit(1)
	}
}
