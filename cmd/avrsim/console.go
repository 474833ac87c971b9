package main

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/mbirtwell/avrxmega"
)

// runInteractive puts stdin in raw mode and single-steps the device one
// key press at a time: 's' steps, 'q' quits. Only used from main.go; tests
// never drive a real terminal.
func runInteractive(dev *avrxmega.Device) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("avrsim: --interactive requires a terminal on stdin")
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("avrsim: failed to set raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	fmt.Fprint(out, "avrsim interactive: 's' to step, 'q' to quit\r\n")
	out.Flush()

	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return nil
		}
		switch buf[0] {
		case 'q', 'Q', 0x03: // 0x03 = Ctrl-C
			return nil
		case 's', 'S':
			dev.Step()
			printRegsCRLF(out, dev)
			if dev.Breaked() {
				fmt.Fprint(out, "BREAK\r\n")
			}
			out.Flush()
		}
	}
}

// printRegsCRLF is printRegs with raw-mode-safe line endings.
func printRegsCRLF(out *bufio.Writer, dev *avrxmega.Device) {
	regs := dev.RegFile()
	fmt.Fprintf(out, "pc=%#06x sp=%#06x sreg=%#04x tick=%d\r\n", dev.PC(), dev.SP(), dev.SREG(), dev.ClkSysTick())
	for i := 0; i < 32; i += 8 {
		fmt.Fprintf(out, "r%-2d: %02x %02x %02x %02x %02x %02x %02x %02x\r\n",
			i, regs[i], regs[i+1], regs[i+2], regs[i+3], regs[i+4], regs[i+5], regs[i+6], regs[i+7])
	}
}
