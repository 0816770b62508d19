package cmd

import (
	"fmt"

	"github.com/rnwolfe/reps/internal/config"
	"github.com/rnwolfe/reps/internal/store"
	"github.com/rnwolfe/reps/internal/ui"
	"github.com/rnwolfe/reps/internal/version"
	"github.com/spf13/cobra"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print reps version, toolchain and database schema",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
}

func runVersion(_ *cobra.Command, _ []string) error {
	if versionShort {
		fmt.Println(version.Short())
		return nil
	}
	fmt.Printf("reps %s\n", version.Full())
	ui.Kv("Build", version.Platform())
	ui.Kv("Schema", fmt.Sprintf("v%d", store.SchemaVersion))
	ui.Kv("Database", config.GetPaths().DBFile)
	return nil
}
