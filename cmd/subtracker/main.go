// Command subtracker keeps track of recurring subscriptions and their renewal
// dates.
//
//	subtracker add -name Netflix -start 2024-01-01 -cadence Monthly
//	subtracker list -q net
//	subtracker backup
//
// Configuration is read from the environment and an optional .env file, see
// package config.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
