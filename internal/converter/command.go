package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"text/template"

	"conversion-factory/internal/factory"
)

// Command runs an external program for each conversion. Every argument is a
// text/template rendered against the request, e.g.
//
//	wkhtmltoimage --format {{.OutputType}} {{.Input}} {{.Output}}
//
// Available fields: Input, ContentType, OutputFilename, OutputPath,
// OutputExtension, OutputType and Output (the full target path).
type Command struct {
	name      string
	program   string
	args      []*template.Template
	extension  string
	outType    string
	inputTypes []string
}

// CommandOption configures a Command.
type CommandOption func(*Command)

// WithName sets the display name used in diagnostics.
func WithName(name string) CommandOption {
	return func(c *Command) { c.name = name }
}

// WithDefaults sets the extension and type reported when neither the input
// file nor the performer supplies one.
func WithDefaults(extension, outputType string) CommandOption {
	return func(c *Command) {
		c.extension = extension
		c.outType = outputType
	}
}

// WithInputTypes restricts the content types the command accepts. Other
// inputs fail with factory.ErrInvalidInputType before the program starts.
func WithInputTypes(types ...string) CommandOption {
	return func(c *Command) { c.inputTypes = append(c.inputTypes, types...) }
}

// NewCommand parses line into a program and templated arguments. Arguments
// are split on whitespace; quoting is not supported.
func NewCommand(line string, opts ...CommandOption) (*Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errors.New("command line is empty")
	}

	c := &Command{program: fields[0], name: fields[0]}
	for i, raw := range fields[1:] {
		tmpl, err := template.New(fmt.Sprintf("arg%d", i)).Option("missingkey=error").Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse argument %q: %w", raw, err)
		}
		c.args = append(c.args, tmpl)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Command) Name() string                   { return c.name }
func (c *Command) DefaultOutputExtension() string { return c.extension }
func (c *Command) DefaultOutputType() string      { return c.outType }

type commandData struct {
	factory.Request
	Output string
}

// Args renders the argument list for req.
func (c *Command) Args(req factory.Request) ([]string, error) {
	data := commandData{Request: req, Output: req.Target()}
	args := make([]string, 0, len(c.args))
	for _, tmpl := range c.args {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("render argument: %w", err)
		}
		args = append(args, buf.String())
	}
	return args, nil
}

// CommandError reports a failed external program with its captured stderr.
type CommandError struct {
	Program  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s failed (exit=%d)", e.Program, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (c *Command) Convert(ctx context.Context, req factory.Request) error {
	if err := acceptInput(c.name, c.inputTypes, req); err != nil {
		return err
	}
	args, err := c.Args(req)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, c.program, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &CommandError{Program: c.program, ExitCode: exitCode, Stderr: stderr.String(), Err: err}
	}
	return nil
}
