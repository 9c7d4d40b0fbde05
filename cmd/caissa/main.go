package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/caissanet/caissa/config"
	"github.com/caissanet/caissa/shell"
)

var (
	GitVersion string
)

func main() {
	cfg := &config.Config{}
	args := os.Args[1:]

	// key=value arguments configure; anything else is a one-shot command.
	var cfgArgs, cmdArgs []string
	for _, arg := range args {
		if strings.Contains(arg, "=") {
			cfgArgs = append(cfgArgs, arg)
		} else {
			cmdArgs = append(cmdArgs, arg)
		}
	}
	if err := cfg.Load(cfgArgs); err != nil {
		fmt.Fprintln(os.Stderr, "bad configuration:", err)
		os.Exit(1)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	if cfg.GetBool(config.KeyDebug) {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
	if GitVersion != "" {
		log.Info().Str("version", GitVersion).Msg("caissa")
	}

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()

	sc := shell.NewShellController(cfg)
	cmdLine := strings.TrimSpace(strings.Join(cmdArgs, " "))
	if cmdLine == "" {
		go sc.Loop(sig)
	} else {
		sc.Execute(sig, cmdLine)
		sig <- syscall.SIGINT
	}

	<-idleConnsClosed
	log.Debug().Msg("shutting down")
}
