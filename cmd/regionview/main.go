// Command regionview generates a voxel terrain and draws it region by region,
// resorting translucent faces on the GPU every frame.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"regionview/internal/config"
	"regionview/internal/graphics"
	"regionview/internal/graphics/device"
	"regionview/internal/input"
	"regionview/internal/meshing"
	"regionview/internal/profiling"
	"regionview/internal/render"
	"regionview/internal/render/arena"
	"regionview/internal/render/chunk"
	"regionview/internal/render/region"
	"regionview/internal/world"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

type flags struct {
	width, height int
	shaders       string
	capture       string
	logLevel      string
	workers       int
}

func parseFlags() flags {
	var f flags
	flag.IntVar(&f.width, "width", 1280, "window width")
	flag.IntVar(&f.height, "height", 720, "window height")
	flag.StringVar(&f.shaders, "shaders", graphics.ShadersDir, "shader source directory")
	flag.StringVar(&f.capture, "capture", "", "render one frame, write it to this BMP file and exit")
	flag.StringVar(&f.logLevel, "log-level", "info", "debug, info, warn or error")
	flag.IntVar(&f.workers, "workers", runtime.NumCPU(), "mesh worker goroutines")

	distance := flag.Int("distance", config.GetRenderDistance(), "render distance in chunks")
	cull := flag.Bool("cull", config.GetUseBlockFaceCulling(), "skip chunk facings behind the camera")
	sortTranslucent := flag.Bool("sort", config.GetUseTranslucentFaceSorting(), "resort translucent faces on the GPU")
	workGroup := flag.Int("workgroup", config.GetComputeWorkGroupSize(), "sort work group width")
	fence := flag.Duration("fence", config.GetSortFenceTimeout(), "advisory wait after each sort, 0 disables")
	timing := flag.Bool("timing", config.GetSortTimingEnabled(), "measure sorts with GPU timer queries")
	timingBudget := flag.Duration("timing-budget", config.GetSortTimingBudget(), "warn when the average sort time exceeds this")
	fps := flag.Int("fps", config.GetFPSLimit(), "frame rate cap, 0 for unlimited")
	seed := flag.Int64("seed", config.GetSeed(), "terrain seed")
	sea := flag.Int("sea", config.GetSeaLevel(), "sea level in blocks")
	glass := flag.Bool("glass", config.GetGlass(), "scatter glass pillars")
	flag.Parse()

	config.SetRenderDistance(*distance)
	config.SetUseBlockFaceCulling(*cull)
	config.SetUseTranslucentFaceSorting(*sortTranslucent)
	config.SetComputeWorkGroupSize(*workGroup)
	config.SetSortFenceTimeout(*fence)
	config.SetSortTimingEnabled(*timing)
	config.SetSortTimingBudget(*timingBudget)
	config.SetFPSLimit(*fps)
	config.SetSeed(*seed)
	config.SetSeaLevel(*sea)
	config.SetGlass(*glass)
	return f
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	defer closer.Close()

	opts := parseFlags()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(opts.logLevel)}))
	slog.SetDefault(logger)
	render.SetLogger(logger)

	if err := glfw.Init(); err != nil {
		closer.Fatalln("glfw init:", err)
	}
	closer.Bind(glfw.Terminate)

	// Window setup
	window, err := setupWindow(opts.width, opts.height, opts.capture != "")
	if err != nil {
		closer.Fatalln("create window:", err)
	}
	if err := gl.Init(); err != nil {
		closer.Fatalln("gl init:", err)
	}

	app, err := newApp(opts, logger)
	if err != nil {
		closer.Fatalln(err)
	}
	closer.Bind(app.Delete)

	setupInputHandlers(window, app)
	if err := app.run(window); err != nil {
		closer.Fatalln(err)
	}
}

func setupWindow(width, height int, hidden bool) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	if hidden {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	window, err := glfw.CreateWindow(width, height, "regionview", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	glfw.SwapInterval(0)
	if !hidden {
		window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	}
	return window, nil
}

type app struct {
	logger   *slog.Logger
	capture  string
	dev      *device.GLDevice
	world    *world.World
	manager  *region.Manager
	renderer *render.RegionChunkRenderer
	camera   *graphics.Camera
	list     *region.ChunkRenderList
	limiter  *FPSLimiter
	input    *input.InputManager
	stats    bool
}

func newApp(opts flags, logger *slog.Logger) (*app, error) {
	a := &app{
		logger:  logger,
		capture: opts.capture,
		dev:     device.NewGLDevice(),
		list:    region.NewChunkRenderList(),
		limiter: NewFPSLimiter(),
		input:   input.NewInputManager(),
		camera:  graphics.NewCamera(opts.width, opts.height),
	}

	renderer, err := render.NewRegionChunkRenderer(a.dev,
		graphics.NewChunkPrograms(filepath.Join(opts.shaders, "chunk")), render.OptionsFromConfig())
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	a.renderer = renderer
	a.manager = region.NewManager(a.dev, arena.DefaultConfig, logger)

	gen := world.NewGenerator(config.GetSeed(), config.GetSeaLevel(), config.GetGlass())
	a.world = world.New(gen)
	if err := a.loadTerrain(opts.workers); err != nil {
		return nil, err
	}

	a.camera.Y = float64(max(gen.HeightAt(0, 0), gen.SeaLevel()) + 12)
	a.camera.Pitch = -20
	return a, nil
}

// loadTerrain generates every chunk within the render distance, meshes them
// on the worker pool and uploads the results.
func (a *app) loadTerrain(workers int) error {
	defer profiling.Track("app.loadTerrain")()

	d := config.GetRenderDistance()
	start := time.Now()
	coords := a.world.Generate(world.ChunkCoord{X: -d, Y: 0, Z: -d}, world.ChunkCoord{X: d - 1, Y: 3, Z: d - 1})

	pool := meshing.NewWorkerPool(workers, 2*workers)
	defer pool.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	results, err := pool.MeshAll(ctx, a.world, coords)
	if err != nil {
		return fmt.Errorf("mesh terrain: %w", err)
	}
	for _, r := range results {
		if r.Error != nil {
			a.logger.Warn("chunk mesh failed", "chunk", r.Coord, "error", r.Error)
			continue
		}
		a.manager.Upload(r.Mesh)
	}

	a.logger.Info("terrain loaded",
		"chunks", len(coords), "regions", a.manager.RegionCount(), "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func setupInputHandlers(window *glfw.Window, a *app) {
	a.input.SetKeyCallback(window)

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		a.camera.HandleMouseMovement(xpos, ypos)
	})

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
		a.camera.SetViewport(width, height)
	})
}

// update applies this frame's input and reports whether a capture was requested.
func (a *app) update(window *glfw.Window, dt float64) bool {
	defer a.input.PostUpdate()

	in := a.input
	if in.JustPressed(input.ActionQuit) {
		window.SetShouldClose(true)
	}
	if in.JustPressed(input.ActionToggleCulling) {
		enabled := !config.GetUseBlockFaceCulling()
		config.SetUseBlockFaceCulling(enabled)
		a.renderer.SetFaceCulling(enabled)
		a.logger.Info("face culling toggled", "enabled", enabled)
	}
	if in.JustPressed(input.ActionToggleStats) {
		a.stats = !a.stats
	}

	if in.IsActive(input.ActionBoost) {
		dt *= 4
	}
	a.camera.Move(
		in.Axis(input.ActionMoveForward, input.ActionMoveBackward),
		in.Axis(input.ActionMoveRight, input.ActionMoveLeft),
		in.Axis(input.ActionMoveUp, input.ActionMoveDown),
		dt,
	)
	return in.JustPressed(input.ActionCapture)
}

func (a *app) run(window *glfw.Window) error {
	gl.ClearColor(0.62, 0.78, 0.95, 1)
	gl.Enable(gl.DEPTH_TEST)

	frames := 0
	lastFPSCheck := time.Now()
	lastTime := time.Now()

	for !window.ShouldClose() {
		profiling.ResetFrame()
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		glfw.PollEvents()
		snapshot := a.update(window, dt)
		a.renderFrame()

		if a.capture != "" {
			return a.writeCapture(window, a.capture)
		}
		if snapshot {
			path := fmt.Sprintf("regionview-%s.bmp", now.Format("20060102-150405"))
			if err := a.writeCapture(window, path); err != nil {
				a.logger.Warn("capture failed", "error", err)
			}
		}

		window.SwapBuffers()
		frames++
		if time.Since(lastFPSCheck) >= time.Second {
			level := slog.LevelDebug
			if a.stats {
				level = slog.LevelInfo
			}
			a.logger.Log(context.Background(), level, "frame stats",
				"fps", frames, "cpu", profiling.TopN(4), "gpu", profiling.TopGPU(2))
			frames = 0
			lastFPSCheck = time.Now()
		}
		a.limiter.Wait()
	}
	return nil
}

func (a *app) renderFrame() {
	defer profiling.Track("app.renderFrame")()

	projection := a.camera.GetProjectionMatrix()
	rotation := a.camera.GetRotationMatrix()
	ctx := a.camera.Context()

	frustum := region.NewFrustum(projection.Mul4(a.camera.GetViewMatrix()))
	a.manager.BuildRenderList(a.list, frustum, ctx)

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.CULL_FACE)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	a.renderer.Render(rotation, projection, a.list, chunk.PassSolid, ctx)
	a.renderer.Render(rotation, projection, a.list, chunk.PassCutout, ctx)

	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	a.renderer.Render(rotation, projection, a.list, chunk.PassTranslucent, ctx)
	gl.DepthMask(true)
}

func (a *app) writeCapture(window *glfw.Window, path string) error {
	gl.Finish()
	width, height := window.GetFramebufferSize()
	img := graphics.ReadFramebuffer(width, height)
	graphics.Annotate(img, []string{
		fmt.Sprintf("regions %d  sorting %v  width %d", a.manager.RegionCount(), a.renderer.SortsTranslucent(), a.renderer.WorkGroupWidth()),
		"cpu " + profiling.TopN(3),
	})
	if err := graphics.WriteBMP(path, img); err != nil {
		return err
	}
	a.logger.Info("frame captured", "path", path, "width", width, "height", height)
	return nil
}

// Delete releases GPU resources in reverse creation order.
func (a *app) Delete() {
	if a.manager != nil {
		a.manager.Delete()
	}
	if a.renderer != nil {
		a.renderer.Delete()
	}
}
