package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kiani-exchange/otp-probe/config"
	"github.com/kiani-exchange/otp-probe/probe"
)

func main() {
	phone := flag.String("phone", probe.DefaultPhone, "recipient mobile number")
	flag.Parse()

	cfg := config.FromEnv()
	config.SetupLogging(cfg.LogLevel)

	ok := probe.SendOTP(context.Background(), os.Stdout, cfg, *phone, probe.GatewaySender(os.Stdout), nil)
	fmt.Println(probe.Result(ok))

	if !ok {
		os.Exit(1)
	}
}
