package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/devlights/gomy/output"
	"go.uber.org/zap"
	"tsumikidb/common"
	"tsumikidb/engine"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := common.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logger, err := common.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	e, err := engine.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := e.Close(); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      cfg.Repl.Prompt,
		HistoryFile: cfg.Repl.HistoryFile,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	dir := cfg.Storage.Dir
	if dir == "" {
		dir = "(memory)"
	}
	output.Stdoutl("tsumikidb", "data:", dir, "type exit to quit")

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		line = strings.TrimSpace(line)
		if line == "exit" {
			break
		}
		if line == "" {
			continue
		}

		rs, err := e.Execute(line)
		if err != nil {
			fmt.Println(err)
			continue
		}
		rs.Print(os.Stdout)
		fmt.Println()
	}

	output.Stdoutl("", "Bye!")
	return nil
}
