package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	gemini "github.com/mutablelogic/go-gemini"
	assistant "github.com/mutablelogic/go-gemini/pkg/assistant"
	httpclient "github.com/mutablelogic/go-gemini/pkg/httpclient"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	prometheus "github.com/prometheus/client_golang/prometheus"
	zap "go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ThreadCommands struct {
	Chat ChatCommand `cmd:"" name:"chat" help:"Chat on a thread, reading prompts from standard input." group:"THREAD"`
}

type ChatCommand struct {
	System  string `name:"system" help:"Instructions sent with each run" optional:""`
	Metrics bool   `name:"metrics" help:"Log thread and run counters on exit"`
	Server  string `name:"server" env:"GEMINI_SERVER" help:"Use threads on a server started with the serve command, for example http://localhost:8084/api/gemini" optional:""`
}

// threads is implemented by the local manager and the server client
type threads interface {
	CreateThread(context.Context, schema.ThreadMeta) (*schema.Thread, error)
	GetThread(context.Context, string) (*schema.Thread, error)
	ListThreads(context.Context) ([]*schema.Thread, error)
	UpdateThread(context.Context, string, schema.ThreadMeta) (*schema.Thread, error)
	DeleteThread(context.Context, string) (*schema.DeletedThread, error)
	AddMessage(context.Context, string, string, string) (*schema.Message, error)
	ListMessages(context.Context, string) ([]*schema.Message, error)
	CreateRun(context.Context, string, schema.RunMeta, ...opt.Opt) (*schema.Run, error)
	GetRun(context.Context, string, string) (*schema.Run, error)
	ListRuns(context.Context, string) ([]*schema.Run, error)
}

// remote adapts the server client, which takes no run options
type remote struct {
	*httpclient.Client
}

// chat holds the state of an interactive session
type chat struct {
	*Globals
	manager threads
	thread  *schema.Thread
	system  string
	out     io.Writer
}

var _ threads = (*assistant.Manager)(nil)
var _ threads = remote{}

const chatHelp = `/new [model]      start a new thread
/threads          list threads
/thread <id>      switch to a thread
/model <name>     change the model of the current thread
/messages         list messages on the current thread
/runs             list runs on the current thread
/run <id>         show a run
/delete           delete the current thread and start a new one
/quit             exit`

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ChatCommand) Run(ctx *Globals) (err error) {
	var manager threads
	if cmd.Server != "" {
		client, err := httpclient.New(cmd.Server, ctx.clientOpts()...)
		if err != nil {
			return err
		}
		manager = remote{client}
	} else {
		client, err := ctx.Client()
		if err != nil {
			return err
		}

		// Thread manager, with counters in a private registry
		registry := prometheus.NewRegistry()
		if manager, err = assistant.New(client,
			assistant.WithLogger(ctx.log),
			assistant.WithTracer(ctx.tracer),
			assistant.WithRegisterer(registry),
		); err != nil {
			return err
		}
		if cmd.Metrics {
			defer logMetrics(ctx.log, registry)
		}
	}

	// Start with a new thread
	session := &chat{Globals: ctx, manager: manager, system: cmd.System, out: os.Stdout}
	if err := session.new(ctx.Model); err != nil {
		return err
	}

	// Read prompts until end of input
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprintf(os.Stderr, "%s> ", session.thread.Model)
		if !scanner.Scan() {
			fmt.Fprintln(os.Stderr)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Slash commands, otherwise send the line as a user message
		var quit bool
		if strings.HasPrefix(line, "/") {
			quit, err = session.command(line)
		} else {
			err = session.send(line)
		}
		switch {
		case quit:
			return nil
		case errors.Is(err, context.Canceled):
			return nil
		case err != nil:
			ctx.log.Error("chat", zap.Error(err))
		}
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// send appends the prompt to the thread, runs it and prints the reply
func (c *chat) send(prompt string) (err error) {
	parent, endSpan := otel.StartSpan(c.tracer, c.ctx, "ChatCommand.send")
	defer func() { endSpan(err) }()

	if _, err := c.manager.AddMessage(parent, c.thread.ID, schema.RoleUser, prompt); err != nil {
		return err
	}
	run, err := retry(c.Globals, parent, func(parent context.Context) (*schema.Run, error) {
		return c.manager.CreateRun(parent, c.thread.ID, schema.RunMeta{Instructions: c.system})
	})
	if err != nil {
		return err
	}
	if c.Format != "text" {
		return c.write(run)
	}

	// The reply is the last message when it came from the model
	messages, err := c.manager.ListMessages(parent, c.thread.ID)
	if err != nil {
		return err
	}
	if n := len(messages); n > 0 && messages[n-1].Role == schema.RoleModel {
		fmt.Fprintln(c.out, messages[n-1].Content)
	} else {
		fmt.Fprintln(c.out, "(no reply)")
	}
	return nil
}

// command handles a slash command, returning true when the session ends
func (c *chat) command(line string) (bool, error) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(c.out, chatHelp)
		return false, nil
	case "new":
		return false, c.new(arg)
	case "threads":
		list, err := c.manager.ListThreads(c.ctx)
		if err != nil {
			return false, err
		}
		if c.Format != "text" {
			return false, c.write(list)
		}
		for _, thread := range list {
			marker := " "
			if thread.ID == c.thread.ID {
				marker = "*"
			}
			fmt.Fprintf(c.out, "%s %s %s\n", marker, thread.ID, thread.Model)
		}
		return false, nil
	case "thread":
		thread, err := c.manager.GetThread(c.ctx, arg)
		if err != nil {
			return false, err
		}
		c.thread = thread
		return false, nil
	case "model":
		if arg == "" {
			return false, gemini.ErrBadParameter.With("model name is required")
		}
		thread, err := c.manager.UpdateThread(c.ctx, c.thread.ID, schema.ThreadMeta{Model: arg})
		if err != nil {
			return false, err
		}
		c.thread = thread
		return false, nil
	case "messages":
		messages, err := c.manager.ListMessages(c.ctx, c.thread.ID)
		if err != nil {
			return false, err
		}
		if c.Format != "text" {
			return false, c.write(messages)
		}
		for _, message := range messages {
			fmt.Fprintf(c.out, "[%s] %s\n", message.Role, message.Content)
		}
		return false, nil
	case "runs":
		runs, err := c.manager.ListRuns(c.ctx, c.thread.ID)
		if err != nil {
			return false, err
		}
		if c.Format != "text" {
			return false, c.write(runs)
		}
		for _, run := range runs {
			fmt.Fprintf(c.out, "%s %s %s\n", run.ID, run.Status, run.Model)
		}
		return false, nil
	case "run":
		run, err := c.manager.GetRun(c.ctx, c.thread.ID, arg)
		if err != nil {
			return false, err
		}
		return false, c.write(run)
	case "delete":
		if _, err := c.manager.DeleteThread(c.ctx, c.thread.ID); err != nil {
			return false, err
		}
		return false, c.new(c.thread.Model)
	default:
		return false, gemini.ErrNotImplemented.Withf("unknown command %q, try /help", name)
	}
}

func (r remote) CreateRun(ctx context.Context, thread string, meta schema.RunMeta, _ ...opt.Opt) (*schema.Run, error) {
	return r.Client.CreateRun(ctx, thread, meta)
}

// new creates a thread and makes it current
func (c *chat) new(model string) error {
	thread, err := c.manager.CreateThread(c.ctx, schema.ThreadMeta{Model: model})
	if err != nil {
		return err
	}
	c.thread = thread
	return nil
}

// logMetrics writes the registry's counters to the log
func logMetrics(log *zap.Logger, registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		log.Warn("metrics", zap.Error(err))
		return
	}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			fields := []zap.Field{zap.Float64("value", metric.GetCounter().GetValue())}
			for _, label := range metric.GetLabel() {
				fields = append(fields, zap.String(label.GetName(), label.GetValue()))
			}
			log.Info(family.GetName(), fields...)
		}
	}
}
