package main

import (
	"fmt"
	"os"

	"github.com/jeffleon2/draftea-topup/config"
	"github.com/jeffleon2/draftea-topup/internal/app"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Println("Error reading config file", err)
		os.Exit(1)
	}
	ledger := &app.App{}
	ledger.Initialize(cfg)
	ledger.Run()
}
