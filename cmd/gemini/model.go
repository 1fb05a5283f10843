package main

import (
	"context"
	"fmt"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ModelCommands struct {
	ListModels ListModelsCommand `cmd:"" name:"models" help:"List models." group:"MODEL"`
	GetModel   GetModelCommand   `cmd:"" name:"model" help:"Get a model by name." group:"MODEL"`
}

type ListModelsCommand struct {
	Method string `name:"method" help:"Only models which support this method, for example generateContent" optional:""`
}

type GetModelCommand struct {
	Name string `arg:"" help:"Model name"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ListModelsCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ListModelsCommand")
	defer func() { endSpan(err) }()

	models, err := retry(ctx, parent, func(parent context.Context) ([]schema.Model, error) {
		return client.ListModels(parent)
	})
	if err != nil {
		return err
	}

	// Filter by method
	if cmd.Method != "" {
		filtered := make([]schema.Model, 0, len(models))
		for _, model := range models {
			if model.Supports(cmd.Method) {
				filtered = append(filtered, model)
			}
		}
		models = filtered
	}

	// Print
	if ctx.Format != "text" {
		return ctx.write(models)
	}
	for _, model := range models {
		fmt.Printf("%-40s %s\n", model.Name, model.DisplayName)
	}
	return nil
}

func (cmd *GetModelCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "GetModelCommand")
	defer func() { endSpan(err) }()

	model, err := retry(ctx, parent, func(parent context.Context) (*schema.Model, error) {
		return client.GetModel(parent, cmd.Name)
	})
	if err != nil {
		return err
	}
	return ctx.write(model)
}
