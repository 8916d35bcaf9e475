package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"git.lost.host/meutraa/tutor/internal/config"
	"git.lost.host/meutraa/tutor/internal/log"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		stdlog.Fatalln(err)
	}
}

func run(args []string) error {
	cfg, err := config.New().Parse(args)
	if nil != err {
		return err
	}

	p := NewProgram(cfg, log.New(os.Stderr, cfg.LogLevel))
	defer p.Deinit()
	if err := p.Init(); nil != err {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Command == config.ServeCommand {
		return p.Serve(ctx)
	}
	return p.Play(ctx)
}
