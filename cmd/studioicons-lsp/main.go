package main

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/jsvensson/studioicons/internal/lsp"
)

var version = "dev"

type config struct {
	Verbosity int `env:"STUDIOICONS_LSP_VERBOSITY" envDefault:"1"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "parse env:", err)
		os.Exit(1)
	}

	s := lsp.NewServer(version)
	if err := s.Run(cfg.Verbosity); err != nil {
		os.Exit(1)
	}
}
