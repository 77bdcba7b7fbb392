package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/cloudkv/cmd/kv"
	"github.com/ValentinKolb/cloudkv/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:     "cloudkv",
		Short:   "client for the cloudkv key-value service",
		Version: Version,
		Long: fmt.Sprintf(`cloudkv (v%s)

Command line client for cloudkv, a hosted key-value store where every
namespace is addressed by a read token and written with a write token.`, Version),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return util.PrepareCommand(cmd)
		},
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of cloudkv",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cloudkv v%s\n", Version)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add Commands
	RootCmd.AddCommand(createCmd)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupClientFlags(RootCmd)
	RootCmd.SetVersionTemplate("cloudkv v{{.Version}}\n")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
