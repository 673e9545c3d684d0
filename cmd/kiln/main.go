package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jbweber/kiln/internal/launch"
	"github.com/jbweber/kiln/internal/logging"
	"github.com/jbweber/kiln/internal/profile"
	"github.com/jbweber/kiln/internal/qemu"
)

var (
	version = "dev"
	commit  = "unknown"
)

// Root flags.
var (
	profilesPath string
	logLevel     string
	logFormat    string
	privilege    string
	firmwarePath string
)

var (
	levelVar = new(slog.LevelVar)
	logger   = logging.NewCLI(os.Stderr, levelVar)
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kiln",
	Short: "Kiln - interactive QEMU launcher",
	Long: `Kiln assembles a QEMU virtual machine configuration interactively
(disks, ISO, firmware, network, USB passthrough, snapshots) and starts the
hypervisor with the exact command line it compiles.

Run without arguments to open the menu. Named configurations are kept as
profiles and can be listed, exported and compiled without the menu.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configureLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return newMenu(a.newSession(), os.Stdin, os.Stdout).Run(cmd.Context())
	},
}

func init() {
	defaultProfiles, err := profile.DefaultPath()
	if err != nil {
		defaultProfiles = profile.FileName
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&profilesPath, "profiles", defaultProfiles, "Path to the profiles file")
	flags.StringVar(&logLevel, "log-level", "warning", "Log level (debug, info, warning, error)")
	flags.StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	flags.StringVar(&privilege, "privilege", launch.DefaultPrivilege, "Command prefix used to start QEMU (empty to run directly)")
	flags.StringVar(&firmwarePath, "firmware", qemu.DefaultFirmwarePath, "Path to the OVMF firmware image used for UEFI boots")

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(compileCmd)
}

func configureLogging() error {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	levelVar.Set(level)

	mode, err := logging.ParseMode(logFormat)
	if err != nil {
		return err
	}
	logger = logging.New(mode, os.Stderr, levelVar)
	slog.SetDefault(logger)
	return nil
}
