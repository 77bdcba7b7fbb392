package kv

import (
	"github.com/ValentinKolb/cloudkv/cmd/util"
	"github.com/ValentinKolb/cloudkv/rpc/client"
	"github.com/ValentinKolb/cloudkv/rpc/common"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Logger = logger.GetLogger(common.LoggerCLI)

	kvClient *client.Client

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:                "kv",
		Short:              "Perform key-value operations on a namespace",
		PersistentPreRunE:  setupKVClient,
		PersistentPostRunE: printMetrics,
	}
)

func init() {
	// Add namespace flags to the KV command
	key := "read-token"
	KeyValueCommands.PersistentFlags().String(key, "", util.WrapString("Read token of the namespace"))
	key = "write-token"
	KeyValueCommands.PersistentFlags().String(key, "", util.WrapString("Write token of the namespace (only needed for set and del)"))
	key = "print-metrics"
	KeyValueCommands.PersistentFlags().Bool(key, false, util.WrapString("Print the client metrics in Prometheus text format after the command"))

	// Add subcommands
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(keysCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupKVClient initializes the client of the namespace
func setupKVClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper and configure logging
	if err := util.PrepareCommand(cmd); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()

	// Create the client, it is opened by the commands that need it
	var err error
	kvClient, err = client.New(
		viper.GetString("read-token"),
		viper.GetString("write-token"),
		*config,
	)

	return err
}

// printMetrics writes the client metrics if requested
func printMetrics(cmd *cobra.Command, _ []string) error {
	if viper.GetBool("print-metrics") {
		client.WriteMetrics(cmd.OutOrStdout())
	}
	return nil
}
