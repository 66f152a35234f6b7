// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shader compiles and links the triangle's WGSL program.
//
// Compile runs a source through the naga front end (parse, lower, validate)
// and requires an entry point of the requested stage. Link checks that every
// fragment input is produced by the vertex stage with the same type and
// resolves the program's bindings by name. The resolved bindings must equal
// the Expected table, which the renderer and the geometry layout are built
// against.
//
//	prog, err := shader.Load()
//	if err != nil {
//		var ce *shader.CompileError
//		if errors.As(err, &ce) {
//			log.Print(ce.Log)
//		}
//	}
package shader
