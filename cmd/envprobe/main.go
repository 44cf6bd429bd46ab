package main

import (
	"os"

	"github.com/kiani-exchange/otp-probe/config"
	"github.com/kiani-exchange/otp-probe/probe"
)

func main() {
	cfg := config.FromEnv()
	config.SetupLogging(cfg.LogLevel)

	probe.Env(os.Stdout, cfg)
}
