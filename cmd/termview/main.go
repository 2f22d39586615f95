// Command termview runs the simulation and draws it in the terminal.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/collide/config"
	"github.com/pthm-cable/collide/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	workers := flag.Int("workers", 0, "Worker goroutines (0 = config value)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Frames per redraw")
	fps := flag.Int("fps", 30, "Redraws per second")
	logFile := flag.String("log", "", "Write JSON logs to this file (default: discard)")
	flag.Parse()

	// The terminal belongs to tcell; logs go to a file or nowhere.
	logOut, err := openLog(*logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logOut.Close()
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           time.Now().UnixNano(),
		Headless:       true,
		StepsPerUpdate: *stepsPerUpdate,
		Workers:        *workers,
	})
	if err != nil {
		screen.Fini()
		fmt.Fprintln(os.Stderr, "failed to start:", err)
		os.Exit(1)
	}

	run(screen, g, newView(cfg.Derived.WorldW32, cfg.Derived.WorldH32), *fps)

	g.Unload()
	screen.Fini()
}

// run drives the simulation and redraws until the user quits.
func run(screen tcell.Screen, g *game.Game, v *view, fps int) {
	if fps < 1 {
		fps = 1
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !handleEvent(ev, g, screen) {
				return
			}

		case <-ticker.C:
			if !g.Paused() {
				g.UpdateHeadless()
			}
			v.draw(screen, g.Snapshot(), status(g))
		}
	}
}

// handleEvent applies a key or resize event; false means quit.
func handleEvent(ev tcell.Event, g *game.Game, screen tcell.Screen) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'k':
				g.Kick()
			case 'e':
				g.ToggleEmitters()
			case ' ':
				g.TogglePause()
			}
		}
	case *tcell.EventResize:
		screen.Sync()
	}
	return true
}

func status(g *game.Game) string {
	state := "running"
	if g.Paused() {
		state = "paused"
	}
	fs := g.LastFrame()
	return fmt.Sprintf(" frame %d | %d particles | %d contacts | %s | q quit  k kick  e emitters  space pause",
		g.Frame(), len(g.Snapshot()), fs.Collisions, state)
}

func openLog(path string) (*os.File, error) {
	if path == "" {
		return os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
