// Package hellotriangle renders a single rotating, vertex-coloured triangle.
//
// # Overview
//
// The program opens a window with a GPU surface, compiles a vertex and a
// fragment shader, uploads three vertices once and then, every frame,
// rotates the triangle about +Z by the elapsed time and presents it under an
// aspect-correct orthographic projection.
//
// # Quick Start
//
//	cfg := hellotriangle.DefaultConfig().
//		WithTitle("Hello Triangle").
//		WithSize(640, 480)
//
//	if err := app.Run(context.Background(), cfg); err != nil {
//		log.Fatal(err)
//	}
//
// # Headless Mode
//
// With Headless set, frames are rasterized in software on a deterministic
// clock and the final frame can be written to a PNG file. No window system or
// GPU is required.
//
// # Architecture
//
// The program is organized into:
//   - Root: Config, LoadConfig, logger
//   - internal/window: window/context providers (gogpu window, headless)
//   - internal/geometry: vertex data and its byte layout
//   - internal/shader: WGSL sources, compile and link with binding checks
//   - internal/transform: rotation, projection and MVP composition
//   - internal/gpu: hal renderer (buffers, pipeline, draw)
//   - internal/softraster: software triangle rasterizer and PNG output
//   - internal/frameloop: per-frame state machine
//
// # Logging
//
// Nothing is logged unless [SetLogger] is called. See [SetLogger] for the
// levels in use.
package hellotriangle
