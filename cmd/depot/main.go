package main

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
	"strings"

	"depot/internal/app"
	"depot/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var verbose bool

// newApp reads the config and creates a DepotApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "PutUnit", "LinkUnits").
func newApp(operation string) (*app.DepotApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewDepotApp(cfg, operation, app.Options{Verbose: verbose})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// lines yields the non-blank lines of r. A read error ends the sequence and is
// reported through errp once iteration stops.
func lines(r io.Reader, errp *error) iter.Seq[string] {
	return func(yield func(string) bool) {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
		*errp = scanner.Err()
	}
}

var rootCmd = &cobra.Command{
	Use:   "depot",
	Short: "Content-addressed unit storage",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Storage Dir: %s\n", cfg.Server.StorageDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Storage Dir:  %s\n", cfg.Server.StorageDir)
		fmt.Printf("Log Dir:      %s\n", cfg.Server.LogDir)
		fmt.Printf("Storage Type: %s\n", cfg.Storage.Type)
		if cfg.Storage.Provider != "" {
			fmt.Printf("Provider:     %s\n", cfg.Storage.Provider)
			fmt.Printf("Storage ID:   %s\n", cfg.Storage.StorageID)
		}
		fmt.Printf("Page Size:    %d\n", cfg.Storage.PageSize)
		return nil
	},
}

// path command
var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the storage path of a unit",
	RunE: func(cmd *cobra.Command, args []string) error {
		typeID, _ := cmd.Flags().GetString("type")
		key, _ := cmd.Flags().GetStringToString("key")

		a, err := newApp("UnitPath")
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.UnitPath(typeID, key)
		if err != nil {
			return err
		}

		fmt.Println(path)
		return nil
	},
}

// put command
var putCmd = &cobra.Command{
	Use:   "put SOURCE",
	Short: "Store a file as unit content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeID, _ := cmd.Flags().GetString("type")
		key, _ := cmd.Flags().GetStringToString("key")
		location, _ := cmd.Flags().GetString("location")
		noVerify, _ := cmd.Flags().GetBool("no-verify")

		a, err := newApp("PutUnit")
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.PutUnit(typeID, key, args[0], location, !noVerify)
		if err != nil {
			return err
		}

		fmt.Printf("Stored unit %s at %s\n", u.ID(), u.StoragePath())
		return nil
	},
}

// shared command
var sharedCmd = &cobra.Command{
	Use:   "shared",
	Short: "Manage shared storage",
}

var sharedStoreCmd = &cobra.Command{
	Use:   "store SOURCE",
	Short: "Store a file in shared content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		rawID, _ := cmd.Flags().GetString("id")
		location, _ := cmd.Flags().GetString("location")

		a, err := newApp("StoreShared")
		if err != nil {
			return err
		}
		defer a.Close()

		dir, err := a.StoreShared(provider, rawID, args[0], location)
		if err != nil {
			return err
		}

		fmt.Printf("Stored %s in %s\n", location, dir)
		return nil
	},
}

// link command
var linkCmd = &cobra.Command{
	Use:   "link [UNIT_ID...]",
	Short: "Link units to shared content",
	Long:  "Link units to shared content. Unit ids are read from stdin, one per line, when none are given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		rawID, _ := cmd.Flags().GetString("id")

		a, err := newApp("LinkUnits")
		if err != nil {
			return err
		}
		defer a.Close()

		var readErr error
		ids := slices.Values(args)
		if len(args) == 0 {
			ids = lines(cmd.InOrStdin(), &readErr)
		}

		count, err := a.LinkUnits(provider, rawID, ids)
		fmt.Printf("Linked %d unit(s)\n", count)
		if err != nil {
			return err
		}
		if readErr != nil {
			return fmt.Errorf("reading unit ids: %w", readErr)
		}
		return nil
	},
}

// publish command
var publishCmd = &cobra.Command{
	Use:   "publish PATH",
	Short: "Publish a unit at PATH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeID, _ := cmd.Flags().GetString("type")
		key, _ := cmd.Flags().GetStringToString("key")

		a, err := newApp("Publish")
		if err != nil {
			return err
		}
		defer a.Close()

		target, err := a.Publish(typeID, key, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s -> %s\n", args[0], target)
		return nil
	},
}

// clear command
var clearCmd = &cobra.Command{
	Use:   "clear DIR",
	Short: "Remove the contents of a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skip, _ := cmd.Flags().GetStringSlice("skip")

		a, err := newApp("Clear")
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Clear(args[0], skip)
	},
}

func addUnitFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", "", "Unit type")
	cmd.Flags().StringToStringP("key", "k", nil, "Unit key field (name=value), repeatable")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("key")
}

func addSharedFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "", "Shared storage provider (defaults to config)")
	cmd.Flags().String("id", "", "Raw shared storage id (defaults to config)")
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// shared subcommands
	sharedCmd.AddCommand(sharedStoreCmd)
	addSharedFlags(sharedStoreCmd)
	sharedStoreCmd.Flags().StringP("location", "l", "", "Relative path inside the shared content")
	_ = sharedStoreCmd.MarkFlagRequired("location")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(pathCmd)
	addUnitFlags(pathCmd)
	rootCmd.AddCommand(putCmd)
	addUnitFlags(putCmd)
	putCmd.Flags().StringP("location", "l", "", "Relative path inside the unit's storage path")
	putCmd.Flags().Bool("no-verify", false, "Skip size verification of the stored copy")
	rootCmd.AddCommand(sharedCmd)
	rootCmd.AddCommand(linkCmd)
	addSharedFlags(linkCmd)
	rootCmd.AddCommand(publishCmd)
	addUnitFlags(publishCmd)
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().StringSliceP("skip", "s", nil, "Entry names to keep")
}
