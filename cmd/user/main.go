package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	usercmd "github.com/louisbranch/bookshelf/internal/cmd/user"
)

func main() {
	cfg, err := usercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[USER] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := usercmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
