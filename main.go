package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"ory-session-page/internal/config"
	"ory-session-page/internal/server"
	"ory-session-page/internal/version"
)

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", os.Getenv(config.EnvPrefix+"CONFIG"), "path to the configuration file")
	flag.StringVar(&configPath, "c", os.Getenv(config.EnvPrefix+"CONFIG"), "path to the configuration file (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version.Print())
		return
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
