package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/massung/chip-8/chip8"
	"github.com/massung/chip-8/logger"
	"github.com/massung/chip-8/sound"
	"github.com/massung/chip-8/statsview"
	"github.com/massung/chip-8/termview"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	version = "0.2.0"
	commit  = ""
	date    = ""
)

var (
	/// Window is the main SDL window.
	///
	Window *sdl.Window

	/// Renderer draws into Window.
	///
	Renderer *sdl.Renderer

	/// VM is the running CHIP-8 virtual machine.
	///
	VM *chip8.CPU
)

type optionFlags struct {
	rom   string
	rate  int
	scale int
	seed  int64

	wav  string
	tone string

	debug     bool
	term      bool
	mute      bool
	statsview bool
}

func init() {
	runtime.LockOSThread()
}

func main() {
	options := readArguments()

	printBanner()

	if err := run(options); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.IntVar(&options.rate, "rate", chip8.DefaultRate, "instructions executed per second")
	flags.IntVar(&options.scale, "scale", 10, "window pixels per CHIP-8 pixel")
	flags.Int64Var(&options.seed, "seed", 0, "random number seed, 0 seeds from the clock")
	flags.StringVar(&options.wav, "wav", "", "record the beeper to a .wav file")
	flags.StringVar(&options.tone, "tone", "", "play a .wav or .mp3 sample instead of the square wave")
	flags.BoolVar(&options.debug, "debug", false, "trace every instruction and wait for the C key")
	flags.BoolVar(&options.term, "term", false, "run in the terminal instead of a window")
	flags.BoolVar(&options.mute, "mute", false, "do not open an audio device")
	flags.BoolVar(&options.statsview, "statsview", false, "serve runtime statistics (statsview builds only)")

	if err := flags.Parse(os.Args[1:]); err != nil || options.rate <= 0 || options.scale <= 0 {
		fmt.Printf("usage: chip-8 [options] [rom]\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}

	if args := flags.Args(); len(args) > 0 {
		options.rom = args[0]
	}

	return options
}

func printBanner() {
	fmt.Println("[------------------------------------]")
	fmt.Println("[ chip-8 - CHIP-8 virtual machine    ]")
	fmt.Printf("[------------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}

func run(options optionFlags) (err error) {
	if options.rom == "" {
		if options.rom, err = dialog.File().Filter("CHIP-8 ROM", "ch8", "c8", "asm").Title("Load ROM").Load(); err != nil {
			return fmt.Errorf("no rom selected: %w", err)
		}
	}

	program, err := loadROM(options.rom)
	if err != nil {
		return err
	}

	// the terminal front end owns stdout
	if !options.term {
		logger.SetEcho(os.Stderr)
	} else {
		defer func() {
			_ = logger.Tail(os.Stderr, 20)
		}()
	}

	VM = chip8.New(program, nil, nil)
	defer VM.Stop()

	if options.seed != 0 {
		VM.Seed(options.seed)
	}

	runner := &chip8.Runner{
		CPU:   VM,
		Rate:  options.rate,
		Debug: options.debug,
		Trace: os.Stdout,
	}

	if options.term {
		runner.Trace = os.Stderr
	}

	gates := chip8.AudioGates{}

	if options.wav != "" {
		rec, err := sound.New(options.wav, options.rate)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Logf("main", "%v", err)
			}
		}()

		gates = append(gates, rec)
	}

	if options.statsview {
		if !statsview.Available() {
			logger.Log("main", "statsview requested but not built in, rebuild with -tags statsview")
		}

		stop := statsview.Launch(os.Stdout)
		defer stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if options.term {
		runner.Audio = gates
		return runTerminal(ctx, cancel, runner)
	}

	return runWindow(ctx, cancel, runner, gates, options)
}

// loadROM reads a ROM image, assembling it first if it is source.
func loadROM(file string) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(file), ".asm") {
		return chip8.ReadFile(file)
	}

	src, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chip8.ErrROMUnreadable, err)
	}

	asm, err := chip8.Assemble(src)
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", file, err)
	}

	logger.Logf("main", "assembled %s to %d bytes", file, len(asm.ROM))

	return asm.ROM, nil
}

// finish turns the runner result into the exit error.
func finish(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runTerminal(ctx context.Context, cancel context.CancelFunc, runner *chip8.Runner) error {
	errc := make(chan error, 1)

	// a halted machine stops the view as well
	go func() {
		errc <- runner.Run(ctx)
		cancel()
	}()

	view := termview.New(VM.Display(), VM.Keypad(), os.Stdout)

	viewErr := view.Run(ctx)
	cancel()

	if err := finish(<-errc); err != nil {
		return err
	}
	return viewErr
}

func runWindow(ctx context.Context, cancel context.CancelFunc, runner *chip8.Runner, gates chip8.AudioGates, options optionFlags) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}
	defer sdl.Quit()

	var err error

	scale := int32(options.scale)
	title := fmt.Sprintf("CHIP-8 - %s", filepath.Base(options.rom))

	if Window, err = sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, chip8.Width*scale, chip8.Height*scale, sdl.WINDOW_SHOWN); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}
	defer Window.Destroy()

	if Renderer, err = sdl.CreateRenderer(Window, -1, sdl.RENDERER_ACCELERATED); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}
	defer Renderer.Destroy()

	if !options.mute {
		beeper, err := InitAudio(options.tone)
		if err != nil {
			return err
		}
		defer beeper.Close()

		gates = append(gates, beeper)
	}

	runner.Audio = gates

	errc := make(chan error, 1)
	go func() {
		errc <- runner.Run(ctx)
	}()

	DebugHelp()

	// the window outlives a halted machine so the last frame stays visible
	var halted error

	video := time.NewTicker(time.Second / 60)
	defer video.Stop()

	for ProcessEvents() {
		select {
		case err := <-errc:
			halted = err
			errc = nil
			Window.SetTitle(title + " (halted)")
		case <-video.C:
			RefreshScreen(scale)
		}
	}

	cancel()

	if errc != nil {
		halted = <-errc
	}

	return finish(halted)
}
