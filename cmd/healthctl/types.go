package main

import (
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

func init() {
	typesCmd := &cobra.Command{Use: "types", Short: "Type support diagnostics"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all registered record types",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := resty.New().R().Get(apiFlag + "/v1/types")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
			}
			_, _ = fmt.Fprintln(os.Stdout, resp.String())
			return nil
		},
	}
	typesCmd.AddCommand(listCmd)

	checkCmd := &cobra.Command{
		Use:   "check TYPE_ID",
		Short: "Check whether a record type is supported",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := resty.New().R().Get(apiFlag + "/v1/types/" + args[0])
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
			}
			_, _ = fmt.Fprintln(os.Stdout, resp.String())
			return nil
		},
	}
	typesCmd.AddCommand(checkCmd)

	rootCmd.AddCommand(typesCmd)
}
