// Package display renders a chip8.VM's framebuffer to a window and
// forwards keyboard events back into the VM's keypad. It is a host
// collaborator: the core package never imports it.
package display

import (
	"fmt"
	"time"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"

	"github.com/mserlin/chip8vm/internal/chip8"
)

const (
	cellsWide     float64 = 64
	cellsHigh     float64 = 32
	screenWidth   float64 = 1024
	screenHeight  float64 = 768
	keyRepeatTime         = time.Second / 5
)

// Window embeds a pixelgl window, a hex-keypad keymap, and per-key repeat
// tickers so a held key keeps reporting pressed between host frames.
type Window struct {
	*pixelgl.Window
	keyMap   map[uint8]pixelgl.Button
	keysDown [16]*time.Ticker
}

// New creates the 1024x768 pixelgl window chip8vm renders into, with the
// classic 4x4 hex-keypad-to-QWERTY layout.
func New() (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title:  "chip8vm",
		Bounds: pixel.R(0, 0, screenWidth, screenHeight),
		VSync:  true,
	}
	w, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating new window: %v", err)
	}
	return &Window{
		Window: w,
		keyMap: map[uint8]pixelgl.Button{
			0x1: pixelgl.Key1, 0x2: pixelgl.Key2, 0x3: pixelgl.Key3, 0xC: pixelgl.Key4,
			0x4: pixelgl.KeyQ, 0x5: pixelgl.KeyW, 0x6: pixelgl.KeyE, 0xD: pixelgl.KeyR,
			0x7: pixelgl.KeyA, 0x8: pixelgl.KeyS, 0x9: pixelgl.KeyD, 0xE: pixelgl.KeyF,
			0xA: pixelgl.KeyZ, 0x0: pixelgl.KeyX, 0xB: pixelgl.KeyC, 0xF: pixelgl.KeyV,
		},
	}, nil
}

// DrawGraphics clears the window and redraws every lit pixel from rows
// (chip8.VM.Framebuffer's bit-63-is-leftmost row encoding) as a scaled
// rectangle.
func (w *Window) DrawGraphics(rows [32]uint64) {
	w.Clear(colornames.Black)
	draw := imdraw.New(nil)
	draw.Color = pixel.RGB(1, 1, 1)
	cellW, cellH := screenWidth/cellsWide, screenHeight/cellsHigh

	for y := 0; y < 32; y++ {
		row := rows[y]
		for x := 0; x < 64; x++ {
			if row&(1<<uint(63-x)) == 0 {
				continue
			}
			fx, fy := float64(x), float64(31-y)
			draw.Push(pixel.V(cellW*fx, cellH*fy))
			draw.Push(pixel.V(cellW*fx+cellW, cellH*fy+cellH))
			draw.Rectangle(0)
		}
	}
	draw.Draw(w)
	w.Update()
}

// HandleKeyInput polls pixelgl's input state and forwards press/release
// transitions into vm's keypad, re-asserting a press every keyRepeatTime
// while a key stays physically down (CHIP-8 ROMs expect autorepeat, not a
// single edge, from a held key).
func (w *Window) HandleKeyInput(vm *chip8.VM) {
	for hexKey, button := range w.keyMap {
		switch {
		case w.JustReleased(button):
			if w.keysDown[hexKey] != nil {
				w.keysDown[hexKey].Stop()
				w.keysDown[hexKey] = nil
			}
			vm.Release(hexKey)
		case w.JustPressed(button):
			if w.keysDown[hexKey] == nil {
				w.keysDown[hexKey] = time.NewTicker(keyRepeatTime)
			}
			vm.Press(hexKey)
		}

		if w.keysDown[hexKey] == nil {
			continue
		}
		select {
		case <-w.keysDown[hexKey].C:
			vm.Press(hexKey)
		default:
		}
	}
}
