// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/leoprime/internal/canvas"
)

// pipedFieldDuration bounds a field run whose output is not a terminal.
const pipedFieldDuration = time.Second

type fieldOptions struct {
	intensity  float64
	duration   time.Duration
	fps        int
	cols, rows int
}

func newFieldCmd(a *app) *cobra.Command {
	var (
		opts fieldOptions
		size string
	)

	cmd := &cobra.Command{
		Use:   "field",
		Short: "Render the neural particle field full screen",
		Long: `Render the neural particle field full screen.

The field runs until Ctrl+C or --duration. When stdout is not a
terminal the last frame is printed once after the run (1s by default).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("intensity") {
				opts.intensity = a.cfg.Canvas.ActiveIntensity
			}
			if opts.intensity < 0 || opts.intensity > 1 {
				return NewValidationErrorWithExample("--intensity", fmt.Sprint(opts.intensity), "must be within 0..1", "leoprime field --intensity 0.5")
			}
			if opts.fps <= 0 {
				opts.fps = a.cfg.Canvas.FPS
			}
			if size != "" {
				if _, err := fmt.Sscanf(size, "%dx%d", &opts.cols, &opts.rows); err != nil || opts.cols <= 0 || opts.rows <= 0 {
					return NewValidationErrorWithExample("--size", size, "must be COLSxROWS", "leoprime field --size 80x20")
				}
			}
			return a.runField(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().Float64Var(&opts.intensity, "intensity", 1, "field energy from 0 (idle) to 1 (active)")
	cmd.Flags().DurationVar(&opts.duration, "duration", 0, "stop after this long (0 runs until Ctrl+C)")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "frames per second (default canvas.fps)")
	cmd.Flags().StringVar(&size, "size", "", "fixed COLSxROWS instead of the terminal size")
	return cmd
}

// runField drives an animator from a TickerScheduler and paints the raster
// after every animation frame. Both callbacks run on the ticker goroutine.
func (a *app) runField(ctx context.Context, out io.Writer, opts fieldOptions) error {
	tty := isTerminalWriter(out)
	fixed := opts.cols > 0
	cols, rows := opts.cols, opts.rows
	if !fixed {
		cols, rows = fieldSize(out)
	}
	if !tty && opts.duration <= 0 {
		opts.duration = pipedFieldDuration
	}

	cc := a.cfg.Canvas
	raster := canvas.NewRaster(cols, rows)
	raster.SetCellSize(cc.CellWidth, cc.CellHeight)
	if cc.Gain > 0 {
		raster.Gain = cc.Gain
	}
	if !lipgloss.HasDarkBackground() {
		raster.Background = colorful.Color{R: 0.98, G: 0.98, B: 0.97}
	}

	sched := canvas.NewTickerScheduler(opts.fps)
	anim := canvas.NewAnimator(sched,
		canvas.WithParams(cc.Params()),
		canvas.WithLogger(a.logger))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	screen := termenv.NewOutput(out)
	if tty {
		screen.AltScreen()
		screen.HideCursor()
		defer func() {
			screen.ShowCursor()
			screen.ExitAltScreen()
		}()
	}

	var frames uint64
	var paint func(time.Time)
	paint = func(time.Time) {
		frames++
		if tty {
			if !fixed {
				if c, r := fieldSize(out); c != cols || r != rows {
					cols, rows = c, r
					raster.Resize(cols, rows)
				}
			}
			screen.MoveCursor(1, 1)
			fmt.Fprint(out, raster.Render())
			fmt.Fprint(out, "\n"+fieldStatus(anim, frames))
		}
		sched.RequestFrame(paint)
	}

	a.logger.Info("field start",
		zap.Int("cols", cols), zap.Int("rows", rows),
		zap.Float64("intensity", opts.intensity), zap.Int("fps", opts.fps))

	anim.Start(raster, opts.intensity)
	sched.RequestFrame(paint)

	<-ctx.Done()
	haltField(sched, anim)

	if !tty {
		fmt.Fprintln(out, raster.Render())
	}
	a.logger.Info("field stop", zap.Uint64("frames", frames), zap.Uint64("animated", anim.Frames()))
	return nil
}

// haltField stops the clock before the animator. Close waits out the
// frame in flight, so paint can no longer touch the raster while Stop
// drops the animator's resize observer.
func haltField(sched *canvas.TickerScheduler, anim *canvas.Animator) {
	_ = sched.Close()
	anim.Stop()
}

// fieldSize leaves the bottom row for the status line.
func fieldSize(out io.Writer) (cols, rows int) {
	w, h := terminalSize(out)
	return w, max(h-1, 1)
}

func fieldStatus(anim *canvas.Animator, frames uint64) string {
	snap := anim.Snapshot()
	return DimStyle.Render(fmt.Sprintf(" NEURAL FIELD  intensity %.2f  particles %d  frame %d  Ctrl+C to exit ",
		anim.Intensity(), len(snap.Particles), frames))
}
