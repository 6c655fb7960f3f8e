package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/vi-operator/audio"
	"github.com/lixenwraith/vi-operator/catalog"
	"github.com/lixenwraith/vi-operator/config"
	"github.com/lixenwraith/vi-operator/display"
	"github.com/lixenwraith/vi-operator/engine"
	"github.com/lixenwraith/vi-operator/event"
	"github.com/lixenwraith/vi-operator/observe"
	"github.com/lixenwraith/vi-operator/operator"
	"github.com/lixenwraith/vi-operator/parameter"
	"github.com/lixenwraith/vi-operator/render"
	"github.com/lixenwraith/vi-operator/scenario"
	"github.com/lixenwraith/vi-operator/service"
)

var version = "dev"

// errQuit ends a run without reporting failure
var errQuit = errors.New("quit")

type appOptions struct {
	scenarioPath string
	catalogPath  string
	seed         uint64
	headless     bool
	loop         bool
	limit        time.Duration
	out          io.Writer

	// screen replaces the terminal, for tests
	screen tcell.Screen
}

// app owns one scenario run: services, the tick loop and everything it drives
type app struct {
	cfg  config.Config
	opts appOptions
	log  *slog.Logger

	hub     *service.Hub
	metrics *observe.Provider
	audio   *audio.Service
	screen  *render.ScreenService

	clock  *engine.PausableClock
	timers *engine.TimerScheduler
	bus    *event.Bus
	driver *display.Driver
	op     *operator.Operator
	script *scenario.Script
	player *scenario.Player
	loop   *engine.TickLoop
	panel  *render.Panel

	controls   chan func()
	failures   chan error
	finished   chan struct{}
	finishOnce sync.Once
}

func newApp(ctx context.Context, cfg config.Config, opts appOptions, logger *slog.Logger) (*app, error) {
	if opts.out == nil {
		opts.out = io.Discard
	}

	var sel catalog.Selector = catalog.NewRandomSelector()
	if opts.seed != 0 {
		sel = catalog.NewSeededSelector(opts.seed, opts.seed^0x9e3779b97f4a7c15)
	}

	catalogPath := cfg.Catalog
	if opts.catalogPath != "" {
		catalogPath = opts.catalogPath
	}
	book, err := catalog.LoadFile(catalogPath, sel)
	if err != nil {
		return nil, err
	}
	script, err := scenario.Load(opts.scenarioPath)
	if err != nil {
		return nil, err
	}
	if opts.loop {
		script.Loop = true
	}
	palette, err := cfg.Palette()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		opts:     opts,
		log:      logger,
		script:   script,
		controls: make(chan func(), 16),
		failures: make(chan error, 1),
		finished: make(chan struct{}),
	}

	a.hub = service.NewHub(logger)
	a.metrics = observe.NewProvider(observe.ProviderConfig{ServiceVersion: version, Logger: logger})
	a.audio = audio.NewService(audio.Config{
		Enabled:   cfg.Audio.Enabled,
		VoiceRoot: cfg.Audio.VoiceRoot,
		Volume:    cfg.Audio.Volume,
	}, logger)
	services := []service.Service{a.metrics, a.audio}
	if !opts.headless {
		a.screen = render.NewScreenService(opts.screen)
		services = append(services, a.screen)
	}
	for _, svc := range services {
		if err := a.hub.Register(svc); err != nil {
			return nil, err
		}
	}
	if err := a.hub.InitAll(ctx); err != nil {
		return nil, err
	}
	if err := a.hub.StartAll(ctx); err != nil {
		return nil, err
	}

	if err := a.build(book, sel, palette); err != nil {
		_ = a.hub.StopAll()
		return nil, err
	}
	return a, nil
}

// build assembles the notification pipeline once services are up
func (a *app) build(book *catalog.Book, sel catalog.Selector, palette display.Palette) error {
	a.clock = engine.NewPausableClock(engine.NewMonotonicTimeProvider())
	a.timers = engine.NewTimerScheduler(a.clock)
	a.bus = event.NewBus()

	var panel display.Panel
	if a.opts.headless {
		panel = &textPanel{out: a.opts.out}
	} else {
		a.panel = render.NewPanel(a.screen.Screen(), a.clock)
		panel = a.panel
	}

	var err error
	a.driver, err = display.New(a.cfg.DisplayConfig(), panel, a.audio.Voice(), a.timers,
		display.WithLogger(a.log),
		display.WithMetrics(a.metrics.Metrics()),
		display.WithStyles(display.DefaultStyles(palette)),
		display.WithNames(book.Name),
	)
	if err != nil {
		return err
	}

	a.op, err = operator.New(a.driver, book, a.cfg.OperatorRoster(), a.cfg.PanelLifetime(),
		operator.WithLogger(a.log),
		operator.WithMetrics(a.metrics.Metrics()),
		operator.WithSelector(sel),
		operator.WithPalette(palette),
		operator.WithLanguage(a.cfg.LanguageTag()),
		operator.WithFailHandler(a.fail),
	)
	if err != nil {
		return err
	}
	if err := a.bind(); err != nil {
		return err
	}
	a.bus.Subscribe(event.EventOperatorReset, func(event.GameEvent) {
		if err := a.bind(); err != nil {
			a.fail(err)
		}
	})

	a.player = scenario.NewPlayer(a.script, a.bus, a.clock)
	a.loop = engine.NewTickLoop(a.cfg.TickInterval())
	a.loop.Register(engine.TickerFunc(a.drainControls))
	a.loop.Register(a.player)
	a.loop.Register(a.bus)
	a.loop.Register(engine.TickerFunc(func() { a.timers.Update() }))
	a.loop.Register(a.driver)
	a.loop.Register(engine.TickerFunc(a.checkFinished))
	return nil
}

// bind attaches the operator to the stage the script describes
func (a *app) bind() error {
	if a.script.Mode == scenario.ModeTutorial {
		return a.op.InitTutorial(a.bus, a.script.TutorialStage())
	}
	return a.op.Init(a.bus, a.script.MissionStage())
}

// restart rebinds the operator and replays the script from now
func (a *app) restart() {
	if err := a.bind(); err != nil {
		a.fail(err)
		return
	}
	a.player.Restart()
	a.log.Info("scenario restarted", "mode", a.script.Mode)
}

// fail stops the run on the first content error
func (a *app) fail(err error) {
	a.log.Error("operator content error", "error", err)
	select {
	case a.failures <- err:
	default:
	}
}

// control schedules fn on the tick goroutine
func (a *app) control(fn func()) {
	select {
	case a.controls <- fn:
	default:
		a.log.Warn("control dropped, tick loop busy")
	}
}

func (a *app) drainControls() {
	for {
		select {
		case fn := <-a.controls:
			fn()
		default:
			return
		}
	}
}

// checkFinished ends a headless run once the script and panel are drained
func (a *app) checkFinished() {
	if !a.opts.headless || !a.player.Done() {
		return
	}
	if a.driver.State() != display.StateIdle || a.driver.Pending() > 0 || a.bus.Pending() > 0 {
		return
	}
	a.finishOnce.Do(func() { close(a.finished) })
}

func (a *app) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.loop.Run(gctx)
	})
	g.Go(func() error {
		select {
		case err := <-a.failures:
			return err
		case <-a.finished:
			return errQuit
		case <-gctx.Done():
			return nil
		}
	})
	if a.opts.limit > 0 {
		g.Go(func() error {
			t := time.NewTimer(a.opts.limit)
			defer t.Stop()
			select {
			case <-t.C:
				return errQuit
			case <-gctx.Done():
				return nil
			}
		})
	}
	if a.panel != nil {
		g.Go(func() error { return a.renderLoop(gctx) })
		g.Go(func() error { return a.pollInput(gctx) })
	}

	a.log.Info("scenario started",
		"mode", a.script.Mode,
		"steps", len(a.script.Steps),
		"operator", a.op.Name(),
		"stacking", a.driver.Stacking(),
	)
	err := g.Wait()
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func (a *app) renderLoop(ctx context.Context) error {
	screen := a.screen.Screen()
	t := time.NewTicker(parameter.FrameUpdateInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			a.panel.Draw()
			a.drawStatus(screen)
			screen.Show()
		}
	}
}

func (a *app) drawStatus(screen tcell.Screen) {
	w, h := screen.Size()
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(120, 120, 130))
	line := " q quit  p pause  h hide  c clear  r restart "
	if a.clock.IsPaused() {
		line += " PAUSED "
	}
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		screen.SetContent(x, h-1, r, nil, style)
	}
}

func (a *app) pollInput(ctx context.Context) error {
	screen := a.screen.Screen()
	go func() {
		<-ctx.Done()
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		ev := screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if a.handleKey(ev) {
				return errQuit
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

// handleKey reports whether the key quits
func (a *app) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}
	switch ev.Rune() {
	case 'q':
		return true
	case 'p':
		if a.clock.IsPaused() {
			a.clock.Resume()
		} else {
			a.clock.Pause()
		}
	case 'h':
		a.control(a.driver.Hide)
	case 'c':
		a.control(a.driver.Clear)
	case 'r':
		a.control(a.restart)
	}
	return false
}

func (a *app) close() {
	a.op.Clear()
	if n := a.bus.Dropped(); n > 0 {
		a.log.Warn("events lost to bus overflow", "count", n)
	}
	if err := a.hub.StopAll(); err != nil {
		a.log.Warn("service shutdown", "error", err)
	}
}

// textPanel prints frames for headless runs
type textPanel struct {
	out io.Writer
}

func (p *textPanel) Show(f display.Frame) {
	fmt.Fprintf(p.out, "[%s] %s\n", f.Speaker, f.Text)
}

func (p *textPanel) Hide() {}
