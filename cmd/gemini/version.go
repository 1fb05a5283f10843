package main

import (
	"fmt"

	// Packages
	version "github.com/mutablelogic/go-gemini/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type VersionCommand struct{}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *VersionCommand) Run(ctx *Globals) error {
	info := version.New(execName())
	if ctx.Format != "text" {
		return ctx.write(info)
	}
	fmt.Println(info)
	return nil
}
