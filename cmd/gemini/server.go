package main

import (
	"crypto/tls"
	"fmt"
	"os"

	// Packages
	assistant "github.com/mutablelogic/go-gemini/pkg/assistant"
	httphandler "github.com/mutablelogic/go-gemini/pkg/httphandler"
	version "github.com/mutablelogic/go-gemini/pkg/version"
	httprouter "github.com/mutablelogic/go-server/pkg/httprouter"
	httpserver "github.com/mutablelogic/go-server/pkg/httpserver"
	prometheus "github.com/prometheus/client_golang/prometheus"
	zap "go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ServerCommands struct {
	Serve ServeCommand `cmd:"" name:"serve" help:"Serve threads, messages and runs over HTTP." group:"THREAD"`
}

type ServeCommand struct {
	Addr    string `name:"addr" env:"GEMINI_ADDR" help:"Listen address" default:"localhost:8084"`
	Prefix  string `name:"prefix" help:"Path prefix for the API" default:"/api/gemini"`
	Origin  string `name:"origin" help:"Allowed cross-origin requests" optional:""`
	Metrics bool   `name:"metrics" help:"Log thread and run counters on shutdown"`

	// TLS server options
	TLS struct {
		ServerName string `name:"name" help:"TLS server name"`
		CertFile   string `name:"cert" help:"TLS certificate file" type:"existingfile"`
		KeyFile    string `name:"key" help:"TLS key file" type:"existingfile"`
	} `embed:"" prefix:"tls."`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ServeCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// Thread manager
	registry := prometheus.NewRegistry()
	manager, err := assistant.New(client,
		assistant.WithLogger(ctx.log),
		assistant.WithTracer(ctx.tracer),
		assistant.WithRegisterer(registry),
	)
	if err != nil {
		return err
	}
	if cmd.Metrics {
		defer logMetrics(ctx.log, registry)
	}

	// TLS
	tlsConfig, err := cmd.tlsConfig()
	if err != nil {
		return err
	}

	// Router and handlers
	info := version.New(execName())
	router, err := httprouter.NewRouter(ctx.ctx, cmd.Prefix, cmd.Origin, "Gemini Threads", info.Version)
	if err != nil {
		return err
	} else if err := httphandler.RegisterHandlers(manager, router, true); err != nil {
		return err
	}

	// Run until the context is cancelled
	server, err := httpserver.New(cmd.Addr, router, tlsConfig)
	if err != nil {
		return err
	}
	ctx.log.Info("started", zap.String("name", info.Name), zap.String("version", info.Version), zap.String("addr", cmd.Addr), zap.String("prefix", cmd.Prefix))
	if err := server.Run(ctx.ctx); err != nil {
		return err
	}
	ctx.log.Info("stopped", zap.String("name", info.Name))
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// tlsConfig returns nil when no certificate or key is given
func (cmd *ServeCommand) tlsConfig() (*tls.Config, error) {
	if cmd.TLS.CertFile == "" && cmd.TLS.KeyFile == "" {
		return nil, nil
	}
	var pem [][]byte
	for _, path := range []string{cmd.TLS.CertFile, cmd.TLS.KeyFile} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("tls: %w", err)
		}
		pem = append(pem, data)
	}
	return httpserver.TLSConfig(cmd.TLS.ServerName, false, pem...)
}
