// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	_ "embed"
)

// Embedded WGSL shader sources.

//go:embed shaders/triangle_vert.wgsl
var VertexSource string

//go:embed shaders/triangle_frag.wgsl
var FragmentSource string

// Entry point names in the embedded sources.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)
