package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// currentReleaseVersion is used to print the version the user currently has downloaded
const currentReleaseVersion = "v0.1.0"

// rootCmd is the base for all commands.
var rootCmd = &cobra.Command{
	Use:   "chip8vm [command]",
	Short: "chip8vm is a CHIP-8 interpreter",
	Long:  "chip8vm is a CHIP-8 interpreter",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 {
			return errors.New("requires at least 1 argument")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Unknown command. Try `chip8vm help` for more information")
	},
}

// flags for run and validate; only --strict is registered on both
var (
	quirkShiftUsesVY          bool
	quirkLoadStoreIncrementsI bool
	strictOpcodes             bool
	audioAssetPath            string
)

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(validateCmd)

	runCmd.Flags().BoolVar(&quirkShiftUsesVY, "quirk-shift-vy", false, "shift 8xy6/8xyE read from Vy instead of Vx")
	runCmd.Flags().BoolVar(&quirkLoadStoreIncrementsI, "quirk-load-store-increments-i", false, "Fx55/Fx65 leave I at I+x+1 instead of unchanged")
	runCmd.Flags().BoolVar(&strictOpcodes, "strict", false, "treat unknown opcodes as fatal instead of a warning")
	runCmd.Flags().StringVar(&audioAssetPath, "beep", "assets/beep.mp3", "path to the beep sound asset")

	validateCmd.Flags().BoolVar(&strictOpcodes, "strict", false, "also fail on any unknown opcode found in the rom")
}

// Execute runs chip8vm according to the user's command/subcommand/flags
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
