// nfpproxy is the NFP proxy process started by the extra phase. It runs
// inside the router namespace and serves health and metrics endpoints.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/gbpctl/internal/config"
	"github.com/danmuck/gbpctl/internal/nfpproxy"
	"github.com/danmuck/gbpctl/internal/observability"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to gbpctl TOML config")
	addr := flag.String("addr", "", "listen address override")
	flag.Parse()

	logger := observability.InitLogger("nfp-proxy")

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nfpproxy: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Proxy.Addr = *addr
	}

	server := nfpproxy.NewServer(cfg.Proxy, logger)
	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "nfpproxy: %v\n", err)
		os.Exit(1)
	}
}
