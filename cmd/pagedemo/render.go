package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/pagecanvas"
	"github.com/gogpu/pagecanvas/internal/config"
	"github.com/gogpu/pagecanvas/internal/synthpage"
	"github.com/gogpu/pagecanvas/surface"
)

// errIncomplete is returned when pages are still rendering after the
// scene's max_cycles paint cycles.
var errIncomplete = errors.New("pagedemo: scene not complete")

var backgroundColor = color.RGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	config string // scene file; empty selects the built-in scene
	output string // overrides the scene's output path
}

// renderResult summarizes one scene render.
type renderResult struct {
	Output   string
	Canvas   image.Point
	Pages    int
	Cycles   int
	Complete bool
	Elapsed  time.Duration
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene of synthetic pages to PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := loadScene(opts.config)
			if err != nil {
				return err
			}
			if opts.output != "" {
				scene.Render.Output = opts.output
			}

			res, err := renderScene(cmd.Context(), scene)
			if err != nil && !errors.Is(err, errIncomplete) {
				return err
			}
			printSummary(cmd.OutOrStdout(), res)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "scene file (TOML); built-in scene if empty")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PNG path (overrides the scene)")
	return cmd
}

func loadScene(path string) (*config.Scene, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// renderScene lays the scene out, runs paint cycles until every page is
// final or max_cycles is reached, and writes the canvas. The PNG is written
// even when the scene did not complete.
func renderScene(ctx context.Context, scene *config.Scene) (renderResult, error) {
	logger := loggerFromContext(ctx)
	start := time.Now()

	rects, size := layoutGrid(scene.Pages, scene.Render.Columns, scene.Render.Gap)
	if scene.Canvas.Width > 0 {
		size.X = scene.Canvas.Width
	}
	if scene.Canvas.Height > 0 {
		size.Y = scene.Canvas.Height
	}

	pages := make([]*synthpage.Page, 0, len(scene.Pages))
	defer func() {
		for _, p := range pages {
			p.Dispose()
		}
	}()
	views := make([]pagecanvas.PageView, len(scene.Pages))
	for i, sp := range scene.Pages {
		page := synthpage.New(sp.Width, sp.Height,
			synthpage.WithLabel(sp.Label),
			synthpage.WithSteps(sp.StepCount()),
			synthpage.WithFailAt(sp.FailAt),
			synthpage.WithStepDelay(sp.StepDelay.Duration),
		)
		pages = append(pages, page)
		flags, progressive, err := sp.RenderMode()
		if err != nil {
			return renderResult{}, err
		}
		rotation, _ := pagecanvas.RotationFromDegrees(sp.Rotation)
		views[i] = pagecanvas.PageView{
			Page:        page,
			Rect:        rects[i],
			Rotation:    rotation,
			Flags:       flags,
			Progressive: progressive,
		}
		logger.Debug("page", "label", sp.Label, "id", page.ID(), "rect", rects[i], "flags", flags)
	}

	o := pagecanvas.New(
		pagecanvas.WithWaitTime(scene.Render.WaitTime.Duration),
		pagecanvas.WithThumbnailFilter(scene.Render.ThumbnailFilter()),
		pagecanvas.WithSurfaceFactory(scene.Render.SurfaceFactory()),
	)
	defer o.ReleaseCanvas()

	if err := o.InitCanvas(size); err != nil {
		return renderResult{}, err
	}
	o.Canvas().FillRect(image.Rectangle{Max: size}, backgroundColor)

	res := renderResult{
		Output: scene.Render.Output,
		Canvas: size,
		Pages:  len(pages),
	}
	for res.Cycles < scene.Render.MaxCycles {
		res.Cycles++
		complete, err := o.PaintCycle(ctx, size, views)
		if err != nil {
			return res, err
		}
		logger.Debug("paint cycle", "cycle", res.Cycles, "complete", complete)
		if complete {
			res.Complete = true
			break
		}
	}

	if err := surface.WritePNG(res.Output, o.Canvas()); err != nil {
		return res, fmt.Errorf("pagedemo: %w", err)
	}

	res.Elapsed = time.Since(start)

	if !res.Complete {
		logger.Warn("scene not complete", "cycles", res.Cycles)
		return res, fmt.Errorf("%w after %d cycles", errIncomplete, res.Cycles)
	}
	logger.Info("scene rendered", "output", res.Output, "cycles", res.Cycles, "elapsed", res.Elapsed.Round(time.Millisecond))
	return res, nil
}

func printSummary(w io.Writer, res renderResult) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%s: %d pages, %dx%d canvas (%d pixels), %d paint cycles\n",
		res.Output, res.Pages, res.Canvas.X, res.Canvas.Y, res.Canvas.X*res.Canvas.Y, res.Cycles)
}
