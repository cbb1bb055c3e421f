package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mserlin/chip8vm/internal/audio"
	"github.com/mserlin/chip8vm/internal/chip8"
	"github.com/mserlin/chip8vm/internal/display"
)

// cpuHz is the CPU step rate; timerHz is the delay/sound timer rate. The
// two run on independent tickers so timer-sensitive roms don't speed up
// or slow down with the CPU rate.
const (
	cpuHz   = 500
	timerHz = 60
)

// runCmd runs the chip8vm virtual machine and blocks until the window closes.
var runCmd = &cobra.Command{
	Use:   "run `path/to/rom`",
	Short: "run a rom in the chip8vm interpreter",
	Args:  cobra.ExactArgs(1),
	Run:   runROM,
}

func runROM(cmd *cobra.Command, args []string) {
	romPath := args[0]

	rom, err := os.ReadFile(romPath)
	if err != nil {
		fmt.Printf("error reading rom %q: %v\n", romPath, err)
		os.Exit(1)
	}

	vm := chip8.New(chip8.Config{
		Quirks: chip8.Quirks{
			ShiftUsesVY:          quirkShiftUsesVY,
			LoadStoreIncrementsI: quirkLoadStoreIncrementsI,
		},
		Strict: strictOpcodes,
	})
	if err := vm.LoadROM(rom); err != nil {
		fmt.Printf("error loading rom %q: %v\n", romPath, err)
		os.Exit(1)
	}

	win, err := display.New()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	beep := audio.New(audioAssetPath)
	defer beep.Close()

	cpuTicker := time.NewTicker(time.Second / cpuHz)
	defer cpuTicker.Stop()
	timerTicker := time.NewTicker(time.Second / timerHz)
	defer timerTicker.Stop()

	for !win.Closed() {
		select {
		case <-cpuTicker.C:
			if err := vm.Step(); err != nil {
				fmt.Printf("chip8vm: fatal: %v\n", err)
				return
			}
		case <-timerTicker.C:
			vm.Tick60Hz()
			beep.Tick(vm.SoundActive())
			win.DrawGraphics(vm.Framebuffer())
			win.HandleKeyInput(vm)
		}
	}
	fmt.Println("window closed, shutting down...")
}
