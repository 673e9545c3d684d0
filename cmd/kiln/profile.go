package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jbweber/kiln/internal/config"
	"github.com/jbweber/kiln/internal/libvirt"
	"github.com/jbweber/kiln/internal/naming"
	"github.com/jbweber/kiln/internal/output"
	"github.com/jbweber/kiln/internal/profile"
)

var (
	outputFormat string
	noHeaders    bool
	exportFile   string
	importName   string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved profiles",
	Long: `Manage the named VM configurations saved from the menu.

Profiles live in a single JSON file (see --profiles). They can be listed,
shown, exported as libvirt domain XML, imported from YAML or JSON, and
deleted.`,
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved profiles",
	Long: `List all saved profiles.

Output formats:
  -o table  Human-readable table (default)
  -o yaml   YAML documents, one per profile
  -o json   JSON array`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := output.ValidateFormat(outputFormat); err != nil {
			return err
		}

		store := profile.NewStore(profilesPath, logger)
		names, err := store.List()
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}
		records, err := store.Records()
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}

		formatter, err := output.NewFormatter(output.Options{
			Format:    output.Format(outputFormat),
			NoHeaders: noHeaders,
		})
		if err != nil {
			return err
		}

		result, err := formatter.FormatProfileList(output.NewEntries(names, records))
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}

		fmt.Print(result)
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a saved profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := output.ValidateFormat(outputFormat); err != nil {
			return err
		}

		record, err := profile.NewStore(profilesPath, logger).Get(args[0])
		if err != nil {
			return fmt.Errorf("failed to get profile: %w", err)
		}

		formatter, err := output.NewFormatter(output.Options{
			Format:    output.Format(outputFormat),
			NoHeaders: noHeaders,
		})
		if err != nil {
			return err
		}

		result, err := formatter.FormatProfile(output.Entry{Name: args[0], Record: *record})
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}

		fmt.Print(result)
		return nil
	},
}

var profileExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Export a profile as libvirt domain XML",
	Long: `Render a saved profile as a libvirt domain definition.

The domain is named after the profile and gets a UUID derived from that
name, so exporting the same profile twice yields the same domain. The XML
can be fed to "virsh define".`,
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

		opts := libvirt.DomainOptions{
			KVMAvailable: a.probe.KVMSupported(),
			Logger:       logger,
		}
		if cfg.Firmware == config.FirmwareUEFI && a.probe.FileExists(a.compiler.FirmwarePath()) {
			opts.FirmwarePath = a.compiler.FirmwarePath()
		}
		if len(cfg.USB) > 0 {
			opts.USB = a.resolver.Resolve(cfg.USB).Attachments
		}

		xml, err := libvirt.GenerateDomainXML(naming.DomainName(args[0]), cfg, opts)
		if err != nil {
			return fmt.Errorf("failed to generate domain XML: %w", err)
		}

		if exportFile == "" {
			fmt.Println(xml)
			return nil
		}
		if err := os.WriteFile(exportFile, []byte(xml+"\n"), profile.FilePermissions); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportFile, err)
		}
		fmt.Printf("Domain XML for profile %q written to %s\n", args[0], exportFile)
		return nil
	},
}

var profileImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a profile from a YAML or JSON file",
	Long: `Import a profile from a file in the format "kiln profile show -o yaml"
prints. JSON is accepted too. An existing profile with the same name is
overwritten.

The profile name defaults to the file name without its extension.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		record, err := profile.ReadRecordFile(args[0])
		if err != nil {
			return err
		}

		name := importName
		if name == "" {
			base := filepath.Base(args[0])
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}

		if err := profile.NewStore(profilesPath, logger).Put(name, *record); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		fmt.Printf("Profile %q imported\n", name)
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a saved profile",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := profile.NewStore(profilesPath, logger).Delete(args[0]); err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}
		fmt.Printf("Profile %q deleted\n", args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{profileListCmd, profileShowCmd} {
		c.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, yaml, json)")
		c.Flags().BoolVar(&noHeaders, "no-headers", false, "Omit table headers")
	}
	profileExportCmd.Flags().StringVarP(&exportFile, "file", "f", "", "Write the XML to a file instead of stdout")
	profileImportCmd.Flags().StringVar(&importName, "name", "", "Profile name (default: file name without extension)")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileExportCmd)
	profileCmd.AddCommand(profileImportCmd)
	profileCmd.AddCommand(profileDeleteCmd)
}
