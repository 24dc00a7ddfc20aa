package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/lightvol"
	"github.com/gekko3d/lightvol/app"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	cfg := lightvol.DefaultConfig()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	log := lightvol.NewDefaultLogger("lightvol", cfg.Debug)
	defer log.Sync()

	if err := app.Run(cfg, log); err != nil {
		log.Errorf("%v", err)
		log.Sync()
		fmt.Fprintln(os.Stderr, "lightvol:", err)
		os.Exit(1)
	}
}
