// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package canvas animates the neural particle field drawn behind the chat.
//
// A Field holds a batch of point particles that drift across a Surface,
// bounce off its edges and are joined by faint lines when two of them come
// within LinkDistance of each other. The Animator owns one Field, redraws it
// once per frame and regenerates it whenever the surface is resized or the
// animation is restarted with a new intensity.
//
// # Key Types
//
//   - Particle: one moving point (position, velocity, radius)
//   - Params: counts, speeds, alphas and link distance of the field
//   - Animator: start/resize/stop lifecycle and the per-frame draw
//   - FrameScheduler: host frame clock (QueueScheduler, TickerScheduler)
//   - Raster: braille terminal surface implementing Surface and Context
//
// # Usage
//
//	sched := canvas.NewQueueScheduler()
//	raster := canvas.NewRaster(80, 12)
//	anim := canvas.NewAnimator(sched)
//	anim.Start(raster, 0.2)
//	defer anim.Stop()
//
//	// once per display frame:
//	sched.Flush(time.Now())
//	fmt.Println(raster.Render())
package canvas
