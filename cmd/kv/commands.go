package kv

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ValentinKolb/cloudkv/cmd/util"
	"github.com/ValentinKolb/cloudkv/lib/codec"
	"github.com/ValentinKolb/cloudkv/lib/query"
	"github.com/ValentinKolb/cloudkv/rpc/client"
	"github.com/ValentinKolb/cloudkv/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			value, err := parseValue(args[1], viper.GetBool("json"))
			if err != nil {
				return err
			}

			var opts []client.SetOption
			if cmd.Flags().Changed("content-type") {
				opts = append(opts, client.WithContentType(viper.GetString("content-type")))
			}
			if ttl := viper.GetDuration("ttl"); ttl > 0 {
				opts = append(opts, client.WithTTL(ttl))
			}

			url, err := kvClient.Set(cmd.Context(), key, value, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "set successfully: %s\n", url)
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			item, err := kvClient.GetWithContentType(cmd.Context(), key)
			if err != nil {
				return err
			}
			if !item.Found {
				fmt.Fprintf(cmd.OutOrStdout(), "key=%s, found=false\n", key)
				return nil
			}
			if viper.GetBool("raw") {
				_, err = cmd.OutOrStdout().Write(item.Value)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "key=%s, found=true, content-type=%q, value=%s\n", key, item.ContentType, item.Value)
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			deleted, err := kvClient.Delete(cmd.Context(), key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "key=%s, deleted=%t\n", key, deleted)
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Lists the keys of the namespace",
		Long: `Lists the keys of the namespace.

At most one filter is applied, if more than one is given the first one in the
order --starts-with, --ends-with, --contains, --like wins. The wildcards % and _
are matched literally except in --like patterns.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := query.Query{Filter: query.FromOptions(query.Options{
				StartsWith: changedString(cmd, "starts-with"),
				EndsWith:   changedString(cmd, "ends-with"),
				Contains:   changedString(cmd, "contains"),
				Like:       changedString(cmd, "like"),
			})}
			if cmd.Flags().Changed("offset") {
				q = q.WithOffset(viper.GetInt("offset"))
			}
			Logger.Debugf("listing keys with filter %s", q.Filter)

			keys, err := kvClient.ListKeys(cmd.Context(), q)
			if err != nil {
				return err
			}
			return WriteKeys(cmd.OutOrStdout(), keys, viper.GetString("output"))
		},
	}
)

func init() {
	key := "content-type"
	setCmd.Flags().String(key, "", util.WrapString("Content type to store instead of the inferred one"))
	key = "ttl"
	setCmd.Flags().Duration(key, 0, util.WrapString("How long the value is kept (e.g. 1h, whole seconds), the service default is used if unset"))
	key = "json"
	setCmd.Flags().Bool(key, false, util.WrapString("Parse the value as JSON and store it as a structured value"))

	key = "raw"
	getCmd.Flags().Bool(key, false, util.WrapString("Only print the raw value"))

	key = "starts-with"
	keysCmd.Flags().String(key, "", util.WrapString("Only list keys starting with this prefix"))
	key = "ends-with"
	keysCmd.Flags().String(key, "", util.WrapString("Only list keys ending with this suffix"))
	key = "contains"
	keysCmd.Flags().String(key, "", util.WrapString("Only list keys containing this string"))
	key = "like"
	keysCmd.Flags().String(key, "", util.WrapString("Only list keys matching this LIKE pattern (% and _ are wildcards)"))
	key = "offset"
	keysCmd.Flags().Int(key, 0, util.WrapString("Skip the first keys of the listing"))
	key = "output"
	keysCmd.Flags().StringP(key, "o", "table", util.WrapString("Output format (table, json, yaml)"))
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// changedString returns the value of a string flag or nil if it was not set
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v := viper.GetString(name)
	return &v
}

// parseValue converts a command line argument into a value. With asJSON the
// argument must be a JSON document, otherwise it is stored as text.
func parseValue(arg string, asJSON bool) (codec.Value, error) {
	if !asJSON {
		return codec.Text(arg), nil
	}
	var v any
	if err := json.Unmarshal([]byte(arg), &v); err != nil {
		return nil, fmt.Errorf("value is not valid JSON: %w", err)
	}
	return codec.JSON(v), nil
}

// WriteKeys writes a key listing in the given format (table, json or yaml)
func WriteKeys(w io.Writer, keys []common.KeyRecord, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(keys)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(keys); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tCONTENT TYPE\tSIZE\tEXPIRES")
		for _, k := range keys {
			contentType := k.ContentType
			if contentType == "" {
				contentType = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", k.Key, contentType, k.Size, k.Expiration.Format(time.RFC3339))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("invalid output format %s", format)
	}
}
