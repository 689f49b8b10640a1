// gateway-check reports whether a gateway process is running on this
// host. Exit code 0 means alive, 1 means not found, 2 means the check
// itself failed. Meant for cron and deployment probes.
package main

import (
	"fmt"
	"log"
	"os"

	"notify-gateway/internal/config"
	"notify-gateway/internal/liveness"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	check := liveness.New(cfg.Gateway.ProcessPattern)
	alive, err := check.Alive()
	if err != nil {
		fmt.Fprintln(os.Stderr, "gateway-check:", err)
		os.Exit(2)
	}
	if !alive {
		fmt.Println("gateway is not running")
		os.Exit(1)
	}
	fmt.Println("gateway is running")
}
