// Command player loads a movie file, drives its frame loop from a
// stepping REPL, and can attach the breakpoint debugger mid-session.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"shockcore/builtins"
	"shockcore/cast"
	"shockcore/chunk"
	"shockcore/config"
	"shockcore/datum"
	"shockcore/debug"
	"shockcore/host"
	"shockcore/render"
	"shockcore/resolve"
	"shockcore/scheduler"
	"shockcore/trace"
	"shockcore/vm"
)

func main() {
	moviePath := flag.String("movie", "", "Path to a movie file (RIFF-style tagged container)")
	configPath := flag.String("config", "", "Path to a player config YAML file")
	breakpointFile := flag.String("breakpoints", "", "Path to a breakpoint JSON/YAML file to load at startup")
	traceEnabled := flag.Bool("trace", false, "Enable script:handler trace output")
	traceFilter := flag.String("trace-filter", "", "Trace filter pattern(s), comma-separated globs (e.g. 'Ball:*,*:exitFrame')")
	preloadCast := flag.String("preload-cast", "", "Cast library number to eagerly preload via EnsureLoaded, with a progress bar")
	frames := flag.Int("frames", 1, "Number of ticks to step before exiting non-interactively")
	interactive := flag.Bool("i", false, "Drop into the stepping REPL after loading")
	flag.Parse()

	if *moviePath == "" {
		log.Fatalf("player: -movie is required")
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("player: %v", err)
		}
		cfg = loaded
	}

	var filters []string
	if *traceFilter != "" {
		filters = strings.Split(*traceFilter, ",")
		for i := range filters {
			filters[i] = strings.TrimSpace(filters[i])
		}
	} else {
		filters = cfg.Trace.Filters
	}
	tracer := trace.New(*traceEnabled || cfg.Trace.Enabled, filters, os.Stderr)

	data, err := os.ReadFile(*moviePath)
	if err != nil {
		log.Fatalf("player: read %s: %v", *moviePath, err)
	}
	raws, err := chunk.SplitRawChunks(data)
	if err != nil {
		log.Fatalf("player: decode %s: %v", *moviePath, err)
	}
	movie := chunk.Decode(raws)

	manager := cast.NewManager()
	internal := cast.NewInternal(1, "Internal", movie, firstCastEntry(movie))
	manager.Add(internal)
	addExternalCasts(manager, movie, cfg)

	resolver := resolve.NewResolver(movie, manager)
	manager.SetHandlerResolver(
		func(castLib, member int32, name string) (host.ScriptHandle, bool) {
			return resolver.FindHandlerInScript(castLib, member, name)
		},
		func(scriptID int32, name string) (host.ScriptHandle, bool) {
			return resolver.FindHandlerByScriptID(scriptID, name)
		},
	)

	reg := builtins.NewRegistry()
	v := vm.NewVM(resolver, manager, reg, tracer)
	v.Platform = "win"

	sched := scheduler.New(v, movie)
	driver := render.New(sched, manager)

	var ctl *debug.Controller
	if *breakpointFile != "" || cfg.Debug.Enabled || cfg.Debug.BreakpointFile != "" {
		store := debug.NewStore()
		path := *breakpointFile
		if path == "" {
			path = cfg.Debug.BreakpointFile
		}
		if path != "" {
			if err := loadBreakpoints(store, path); err != nil {
				log.Printf("player: %v", err)
			}
		}
		ctl = debug.NewController(v, store, consoleDebugListener{})
		ctl.SetEnabled(true)
		v.Trace = traceBroadcast{tracer, ctl}
	}

	if *preloadCast != "" {
		n, err := strconv.Atoi(*preloadCast)
		if err != nil {
			log.Fatalf("player: -preload-cast must be a number: %v", err)
		}
		preloadWithProgress(manager, int32(n))
	}

	sched.Start()
	defer sched.Stop()

	if *interactive {
		runREPL(sched, driver, ctl)
		return
	}

	for i := 0; i < *frames; i++ {
		sched.Step(time.Now().UnixMilli())
		sched.Advance()
	}
	sprites, err := driver.BuildFrame()
	if err != nil {
		log.Fatalf("player: build frame: %v", err)
	}
	printFrame(sched.CurrentFrame, sprites)
}

func firstCastEntry(m *chunk.Movie) *chunk.CastEntry {
	if m.CastList == nil || len(m.CastList.Entries) == 0 {
		return nil
	}
	return m.CastEntry[m.CastList.Entries[0].CasID]
}

// addExternalCasts registers every non-first MCsL entry as an external
// cast library, wired to an HTTPS-capable ByteLoader so EnsureLoaded
// follows the HTTPS->HTTP->file fallback.
func addExternalCasts(mgr *cast.Manager, m *chunk.Movie, cfg config.Player) {
	if m.CastList == nil {
		return
	}
	loader := httpByteLoader{timeout: cfg.Network.ConnectTimeout() + cfg.Network.ReadTimeout()}
	for i, entry := range m.CastList.Entries {
		if i == 0 {
			continue
		}
		if entry.FilePath == "" {
			continue
		}
		cl := cast.NewExternal(int32(i+1), entry.Name, entry.FilePath, loader)
		mgr.Add(cl)
	}
}

// httpByteLoader implements host.ByteLoader over net/http, the concrete
// transport behind the cast package's injectable Loader seam.
type httpByteLoader struct {
	timeout time.Duration
}

func (l httpByteLoader) TryFetch(url string) ([]byte, error) {
	client := &http.Client{Timeout: l.timeout}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("player: fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// preloadWithProgress triggers EnsureLoaded on a named cast library with a
// progress bar over the fetch, mirroring five82-reel's use of
// schollz/progressbar for long-running transcode progress.
func preloadWithProgress(mgr *cast.Manager, number int32) {
	cl, ok := mgr.Get(number)
	if !ok {
		color.New(color.FgRed, color.Bold).Printf("player: no cast library #%d\n", number)
		return
	}
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription(fmt.Sprintf("preloading cast %q", cl.Name())),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
	bar.Add(10)
	err := cl.EnsureLoaded()
	bar.Finish()
	if err != nil {
		color.New(color.FgRed, color.Bold).Printf("player: preload cast #%d failed: %v\n", number, err)
		return
	}
	color.New(color.FgGreen).Printf("player: cast #%d loaded\n", number)
}

func loadBreakpoints(store *debug.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open breakpoints %s: %w", path, err)
	}
	defer f.Close()
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		bps, err := debug.LoadProfile(f)
		if err != nil {
			return fmt.Errorf("parse breakpoint profile %s: %w", path, err)
		}
		for _, bp := range bps {
			store.Set(bp)
		}
		return nil
	}
	return store.LoadJSON(f)
}

// traceBroadcast fans TraceListener callbacks out to both the plain
// tracer and the debugger's own trace hook, so -trace output and
// breakpoints work simultaneously.
type traceBroadcast struct {
	a, b host.TraceListener
}

func (t traceBroadcast) OnHandlerEnter(info host.HandlerInfo) {
	t.a.OnHandlerEnter(info)
	t.b.OnHandlerEnter(info)
}

func (t traceBroadcast) OnHandlerExit(info host.HandlerInfo, v datum.Value) {
	t.a.OnHandlerExit(info, v)
	t.b.OnHandlerExit(info, v)
}

func (t traceBroadcast) OnInstruction(info host.InstructionInfo) {
	t.a.OnInstruction(info)
	t.b.OnInstruction(info)
}

func (t traceBroadcast) OnVariableSet(kind, name string, v datum.Value) {
	t.a.OnVariableSet(kind, name, v)
	t.b.OnVariableSet(kind, name, v)
}

func (t traceBroadcast) OnError(message string, cause error) {
	t.a.OnError(message, cause)
	t.b.OnError(message, cause)
}

func (t traceBroadcast) OnDebugMessage(msg string) {
	t.a.OnDebugMessage(msg)
	t.b.OnDebugMessage(msg)
}

// consoleDebugListener colorizes pause/resume/breakpoint/log-point
// notifications to stderr, the way five82-reel's TerminalReporter
// colorizes stage transitions.
type consoleDebugListener struct {
	host.NopDebugStateListener
}

func (consoleDebugListener) OnPaused(snap host.DebugSnapshot) {
	color.New(color.FgYellow, color.Bold).Fprintf(os.Stderr,
		"paused: script %d %s @%d (op 0x%02x)\n", snap.ScriptID, snap.HandlerName, snap.Offset, snap.Opcode)
}

func (consoleDebugListener) OnResumed() {
	color.New(color.FgCyan).Fprintln(os.Stderr, "resumed")
}

func (consoleDebugListener) OnBreakpointsChanged() {
	color.New(color.Faint).Fprintln(os.Stderr, "breakpoints changed")
}

func (consoleDebugListener) OnLogPointHit(bp host.Breakpoint, msg string) {
	color.New(color.FgMagenta).Fprintf(os.Stderr, "log [%d:%d] %s\n", bp.ScriptID, bp.Offset, msg)
}

// runREPL drives the frame loop interactively: "step" ticks one frame,
// "go N" navigates, "continue"/"into"/"over"/"out" drive an attached
// debugger, "quit" exits.
func runREPL(sched *scheduler.Scheduler, driver *render.Driver, ctl *debug.Controller) {
	bold := color.New(color.Bold)
	reader := bufio.NewScanner(os.Stdin)
	bold.Println("shockcore player — type 'help' for commands")
	for {
		fmt.Print("> ")
		if !reader.Scan() {
			return
		}
		line := strings.TrimSpace(reader.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "help":
			fmt.Println("step | go N | label NAME | frame | continue | into | over | out | quit")
		case "step":
			sched.Step(time.Now().UnixMilli())
			sched.Advance()
			sprites, err := driver.BuildFrame()
			if err != nil {
				color.New(color.FgRed).Println(err)
				continue
			}
			printFrame(sched.CurrentFrame, sprites)
		case "go":
			if len(fields) < 2 {
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				color.New(color.FgRed).Println("go: expected a frame number")
				continue
			}
			sched.Go(int32(n))
		case "label":
			if len(fields) < 2 {
				continue
			}
			sched.GoToLabel(fields[1])
		case "frame":
			fmt.Println(sched.CurrentFrame)
		case "continue":
			if ctl != nil {
				ctl.Continue()
			}
		case "into":
			if ctl != nil {
				ctl.StepInto()
			}
		case "over":
			if ctl != nil {
				ctl.StepOver()
			}
		case "out":
			if ctl != nil {
				ctl.StepOut()
			}
		case "quit", "exit":
			return
		default:
			color.New(color.FgRed).Printf("unknown command %q\n", fields[0])
		}
	}
}

func printFrame(frame int32, sprites []render.Sprite) {
	color.New(color.FgCyan, color.Bold).Printf("frame %d\n", frame)
	for _, s := range sprites {
		if !s.Visible {
			continue
		}
		fmt.Printf("  ch%02d  loc(%d,%d) %dx%d z=%d member=%d:%d\n",
			s.Channel, s.LocH, s.LocV, s.Width, s.Height, s.LocZ, s.CastLib, s.Member)
	}
}
