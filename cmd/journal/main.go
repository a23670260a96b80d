package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"trading-journal-analytics/internal/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config.yaml (defaults apply when empty)")
		tradesPath = flag.String("trades", "", "path to a JSON or CSV trade export")
		outPath    = flag.String("out", "", "write the report JSON here instead of stdout")
		useBroker  = flag.Bool("broker", false, "import trades from the Zerodha tradebook")
	)
	flag.Parse()

	if err := initializeSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer logger.Shutdown(context.Background())

	if err := run(ctx, *configPath, *tradesPath, *outPath, *useBroker); err != nil {
		logger.ErrorWithErr(ctx, "Run failed", err)
		os.Exit(1)
	}
}
