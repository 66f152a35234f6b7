// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu draws the triangle through the wgpu HAL.
//
// A Renderer owns every GPU object the program needs: the vertex buffer
// (uploaded once), a 64-byte uniform buffer holding the MVP matrix, the two
// shader modules, the bind group and the render pipeline. Each frame it
// writes the matrix, clears the target view and issues one three-vertex draw.
//
// The device and queue are borrowed. They come from a gpucontext provider
// (the gogpu window) via DeviceFromProvider, or from hal/noop in tests.
// Destroy releases the renderer's objects in reverse order of creation and
// never destroys the borrowed device.
package gpu
