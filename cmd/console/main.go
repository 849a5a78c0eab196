package main

import (
	"flag"
	"fmt"
	"os"

	"vigilant-console/core/appbootstrap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()
	if err := appbootstrap.Run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "vigilant-console: %v\n", err)
		os.Exit(1)
	}
}
