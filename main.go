package main

import (
	"github.com/faiface/pixel/pixelgl"

	"github.com/mserlin/chip8vm/cmd"
)

func main() {
	// pixelgl needs access to the main thread so this pattern is suggested
	pixelgl.Run(cmd.Execute)
}
