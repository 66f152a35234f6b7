// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/wgsl"

	"github.com/gogpu/hellotriangle"
)

// Stage identifies a programmable pipeline stage.
type Stage uint8

const (
	Vertex Stage = iota
	Fragment
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", s)
	}
}

func (s Stage) irStage() ir.ShaderStage {
	if s == Fragment {
		return ir.StageFragment
	}
	return ir.StageVertex
}

// CompileError reports a shader that failed to compile. Log holds the
// compiler diagnostics, with source context when available.
type CompileError struct {
	Stage Stage
	Log   string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader: %s compile failed: %s", e.Stage, e.Log)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Shader is a compiled, validated shader stage.
type Shader struct {
	Stage  Stage
	Source string
	Module *ir.Module

	// Entry is the stage's entry point inside Module.
	Entry *ir.EntryPoint
}

// EntryPoint returns the entry point name.
func (s *Shader) EntryPoint() string { return s.Entry.Name }

// Compile parses, lowers and validates WGSL source and selects the first
// entry point of the given stage.
func Compile(stage Stage, source string) (*Shader, error) {
	fail := func(err error, log string) error {
		return &CompileError{Stage: stage, Log: log, Err: err}
	}

	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fail(err, diagnostics(err))
	}

	lowered, err := wgsl.LowerWithWarnings(ast, source)
	if err != nil {
		return nil, fail(err, diagnostics(err))
	}
	for _, w := range lowered.Warnings {
		hellotriangle.Logger().Warn("shader warning",
			"stage", stage.String(),
			"line", w.Span.Start.Line,
			"msg", w.Message)
	}
	module := lowered.Module

	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fail(err, diagnostics(err))
	}
	if len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i := range verrs {
			msgs[i] = verrs[i].Error()
		}
		return nil, fail(&verrs[0], strings.Join(msgs, "\n"))
	}

	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		if ep.Stage == stage.irStage() {
			return &Shader{Stage: stage, Source: source, Module: module, Entry: ep}, nil
		}
	}
	return nil, fail(nil, fmt.Sprintf("no @%s entry point", stage))
}

// diagnostics returns the richest text naga offers for err.
func diagnostics(err error) string {
	var formatter interface{ FormatAll() string }
	if errors.As(err, &formatter) {
		return formatter.FormatAll()
	}
	return err.Error()
}
