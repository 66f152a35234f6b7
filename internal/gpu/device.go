// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrNoHAL is returned when a device provider does not expose HAL objects.
var ErrNoHAL = errors.New("gpu: provider does not expose HAL types")

// DefaultFormat is used when the provider reports no surface format.
const DefaultFormat = gputypes.TextureFormatBGRA8Unorm

// Target describes the device, queue and color format a Renderer draws with.
type Target struct {
	Device hal.Device
	Queue  hal.Queue
	Format gputypes.TextureFormat
}

// DeviceFromProvider extracts the HAL device and queue from a gpucontext
// provider. Providers may expose HalDevice/HalQueue directly, or hand out a
// device that does.
func DeviceFromProvider(provider gpucontext.DeviceProvider) (Target, error) {
	if provider == nil {
		return Target{}, fmt.Errorf("%w: nil provider", ErrNoHAL)
	}

	format := provider.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		format = DefaultFormat
	}

	type anyHAL interface {
		HalDevice() any
		HalQueue() any
	}
	if hp, ok := provider.(anyHAL); ok {
		device, ok := hp.HalDevice().(hal.Device)
		if !ok || device == nil {
			return Target{}, fmt.Errorf("%w: HalDevice is %T", ErrNoHAL, hp.HalDevice())
		}
		queue, ok := hp.HalQueue().(hal.Queue)
		if !ok || queue == nil {
			return Target{}, fmt.Errorf("%w: HalQueue is %T", ErrNoHAL, hp.HalQueue())
		}
		return Target{Device: device, Queue: queue, Format: format}, nil
	}

	type typedHAL interface {
		HalDevice() hal.Device
		HalQueue() hal.Queue
	}
	dev, ok := provider.Device().(typedHAL)
	if !ok {
		return Target{}, fmt.Errorf("%w: device is %T", ErrNoHAL, provider.Device())
	}
	device, queue := dev.HalDevice(), dev.HalQueue()
	if device == nil || queue == nil {
		return Target{}, fmt.Errorf("%w: device not ready", ErrNoHAL)
	}
	return Target{Device: device, Queue: queue, Format: format}, nil
}
