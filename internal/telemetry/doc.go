// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry produces the synthetic node metrics behind the
// assimilation map and efficiency sparkline.
//
// Nothing here is measured. The series is seeded with random jitter at boot
// and advanced by the session after each reply.
//
// # Key Types
//
//   - ChartPoint: one sample (time label, efficiency, saturation)
//   - Monitor: rolling, mutex-guarded series of ChartPoints
//
// # Usage
//
//	mon := telemetry.NewMonitor(rng)
//	mon.Push(99.4, 7)
//	fmt.Println(telemetry.Sparkline(mon.Efficiencies(), 24))
package telemetry
