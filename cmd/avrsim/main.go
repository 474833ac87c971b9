// Command avrsim loads a flash image into an AVR XMEGA device and runs it,
// optionally single-stepping interactively.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/mbirtwell/avrxmega"
)

type cli struct {
	Run      runCmd      `cmd:"" default:"1" help:"Load a flash image and run it"`
	DumpRegs dumpRegsCmd `cmd:"" help:"Load a flash image, run a fixed number of steps, and dump registers"`
}

func main() {
	var c cli
	ctx := kong.Parse(&c, kong.Name("avrsim"), kong.Description("AVR XMEGA instruction-level simulator"))
	ctx.FatalIfErrorf(ctx.Run())
}

type runCmd struct {
	Flash       string `arg:"" type:"existingfile" help:"Raw flash image to load"`
	Steps       uint   `default:"0" help:"Stop after this many CPU steps (0 = run until BREAK or interactive quit)"`
	Interactive bool   `help:"Single-step under a raw terminal, dumping registers after each step"`
	Verbose     bool   `help:"Enable debug-level logging"`
}

func (r *runCmd) Run() error {
	log := newLogger(r.Verbose)

	dev, err := newDevice(r.Flash, log)
	if err != nil {
		return err
	}

	if r.Interactive {
		return runInteractive(dev)
	}
	return runHeadless(dev, r.Steps)
}

type dumpRegsCmd struct {
	Flash string `arg:"" type:"existingfile" help:"Raw flash image to load"`
	Steps uint   `default:"1" help:"Number of CPU steps to run before dumping"`
}

func (c *dumpRegsCmd) Run() error {
	dev, err := newDevice(c.Flash, newLogger(false))
	if err != nil {
		return err
	}
	for i := uint(0); i < c.Steps; i++ {
		dev.Step()
	}
	printRegs(dev)
	return nil
}

func newDevice(flashPath string, log avrxmega.Logger) (*avrxmega.Device, error) {
	data, err := os.ReadFile(flashPath)
	if err != nil {
		return nil, fmt.Errorf("avrsim: %w", err)
	}

	dev, err := avrxmega.NewDevice(avrxmega.ModelATxmega128A1(), avrxmega.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("avrsim: %w", err)
	}
	if err := dev.LoadFlash(data); err != nil {
		return nil, fmt.Errorf("avrsim: %w", err)
	}
	return dev, nil
}

func newLogger(verbose bool) avrxmega.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	return avrxmega.ZerologAdapter{L: l}
}

func runHeadless(dev *avrxmega.Device, steps uint) error {
	if steps == 0 {
		for !dev.Breaked() {
			dev.Step()
		}
		return nil
	}
	for i := uint(0); i < steps && !dev.Breaked(); i++ {
		dev.Step()
	}
	return nil
}

func printRegs(dev *avrxmega.Device) {
	regs := dev.RegFile()
	fmt.Printf("pc=%#06x sp=%#06x sreg=%#04x tick=%d\n", dev.PC(), dev.SP(), dev.SREG(), dev.ClkSysTick())
	for i := 0; i < 32; i += 8 {
		fmt.Printf("r%-2d: %02x %02x %02x %02x %02x %02x %02x %02x\n",
			i, regs[i], regs[i+1], regs[i+2], regs[i+3], regs[i+4], regs[i+5], regs[i+6], regs[i+7])
	}
}
