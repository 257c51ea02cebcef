//go:build cli
// +build cli

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"platform.GO/cmd"
	"platform.GO/config"
	"platform.GO/custom"
	"platform.GO/platform"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()

	res := custom.Resources(config.AppConfig)
	p := platform.New(platform.WithTaskRunner(func() platform.TaskRunner {
		return cmd.NewRunner(cmd.Root(), res)
	}))
	res.SetValue(custom.ResourcePlatform, p)
	custom.Register(p).Init(platform.TypeCLI)
	cmd.Apply(cmd.Root())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.Execute(ctx)
}
