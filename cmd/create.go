package cmd

import (
	"fmt"

	"github.com/ValentinKolb/cloudkv/cmd/util"
	"github.com/ValentinKolb/cloudkv/rpc/client"
	"github.com/ValentinKolb/cloudkv/rpc/common"
	"github.com/spf13/cobra"
)

var (
	createCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a new namespace",
		Long: `Create a new namespace and print its tokens.

The read token is needed to get values and list keys, the write token
to set and delete values. Keep the write token secret.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := util.GetClientConfig()
			fmt.Fprintln(cmd.ErrOrStderr(), "creating namespace...")

			details, err := client.CreateNamespace(cmd.Context(), *config)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), FormatNamespace(details))
			return err
		},
	}
)

// FormatNamespace renders the details of a created namespace as printed by
// the create command. The base URL is only included when it differs from
// the default.
func FormatNamespace(details *common.NamespaceDetails) string {
	out := "Namespace created successfully.\n\n"
	out += fmt.Sprintf("cloudkv_read_token = %q\n", details.ReadToken)
	out += fmt.Sprintf("cloudkv_write_token = %q\n", details.WriteToken)
	if common.TrimBaseURL(details.BaseURL) != common.TrimBaseURL(common.DefaultBaseURL) {
		out += fmt.Sprintf("cloudkv_base_url = %q\n", details.BaseURL)
	}
	return out
}
