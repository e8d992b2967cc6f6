package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/ryanmoran/docker-mcp/internal"
	"github.com/ryanmoran/docker-mcp/internal/docker"
	"github.com/ryanmoran/docker-mcp/internal/mcpserver"
	"github.com/ryanmoran/docker-mcp/internal/sshhost"
	"github.com/ryanmoran/docker-mcp/internal/tools"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic occurred: %v", r)
			os.Exit(1)
		}
	}()

	if err := run(os.Args, os.Environ(), os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args, env []string, stdin io.Reader, stdout io.Writer) error {
	cleanupMgr := internal.NewCleanupManager(zerolog.Nop())
	defer cleanupMgr.Execute()

	config, err := internal.ParseConfig(args[1:], env)
	if err != nil {
		return err
	}

	if config.ShowVersion {
		_, err := fmt.Fprintf(stdout, "%s %s\n", internal.ServerName, version)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, closeLog, err := internal.NewLogger(config.LogLevel, config.LogFile)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	cleanupMgr.Add("log-file", closeLog)
	cleanupMgr.SetLogger(logger)

	report := sshhost.Bootstrap(ctx, string(config.DockerHost), sshhost.Options{
		ConfigPath:      config.SSHConfigPath,
		KnownHostsPath:  config.KnownHostsPath,
		Scanner:         sshhost.KeyScanner{Timeout: config.KeyscanTimeout},
		SkipHostKeyScan: config.SkipHostKeyScan,
	})
	event := logger.Info()
	if !report.OK() {
		event = logger.Warn()
	}
	event.EmbedObject(report).Msg("docker host prepared")

	client, err := docker.NewDefaultClient(report.Host)
	if err != nil {
		return fmt.Errorf("failed to create docker client for %q: %w", report.Host, err)
	}
	cleanupMgr.Add("docker-client", client.Close)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	apiVersion, err := client.Ping(pingCtx)
	cancel()
	if err != nil {
		logger.Warn().Err(err).Str("docker_host", report.Host).Msg("docker engine is not reachable yet; tool calls will fail until it is")
	} else {
		logger.Info().Str("api_version", apiVersion).Msg("connected to docker engine")
	}

	server := mcpserver.New(tools.NewDefaultRouter(client), client, logger, version)

	if err := server.Serve(ctx, stdin, stdout); err != nil {
		return err
	}

	logger.Info().Msg("shutting down")
	return nil
}
