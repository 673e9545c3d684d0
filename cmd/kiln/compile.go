package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile <profile>",
	Short: "Print the QEMU command line for a saved profile",
	Long: `Compile a saved profile into the QEMU command line the menu would run,
without starting anything. Warnings (missing firmware, unavailable KVM)
are printed to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		cfg, err := a.store.Load(args[0])
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		var usbArgs []string
		if len(cfg.USB) > 0 {
			usbArgs = a.resolver.Resolve(cfg.USB).Args
		}

		inv := a.compiler.Preview(*cfg, usbArgs)
		for _, w := range inv.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", w)
		}
		line := inv.CommandLine()
		argv := a.launcher.Argv(inv.Args)
		if prefix := argv[:len(argv)-len(inv.Args)]; len(prefix) > 0 {
			line = strings.Join(prefix, " ") + " " + line
		}
		fmt.Println(line)
		return nil
	},
}
