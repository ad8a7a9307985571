package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

func init() {
	recordsCmd := &cobra.Command{Use: "records", Short: "Record operations"}

	// write
	var file string
	writeCmd := &cobra.Command{
		Use:   "write",
		Short: "Submit a batch of generic records from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			// accept either a bare array or a {"records": [...]} object
			var body []byte
			var arr []json.RawMessage
			if err := json.Unmarshal(data, &arr); err == nil {
				wrapped, _ := json.Marshal(map[string]interface{}{"records": arr})
				body = wrapped
			} else {
				body = data
			}

			resp, err := resty.New().R().
				SetHeader("Content-Type", "application/json").
				SetBody(body).
				Post(apiFlag + "/v1/records/batch")
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
	writeCmd.Flags().StringVarP(&file, "file", "f", "", "JSON batch file (required)")
	_ = writeCmd.MarkFlagRequired("file")
	recordsCmd.AddCommand(writeCmd)

	// list
	var recordType string
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored records",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := resty.New().R()
			if recordType != "" {
				req.SetQueryParam("type", recordType)
			}
			if limit > 0 {
				req.SetQueryParam("limit", fmt.Sprintf("%d", limit))
			}
			resp, err := req.Get(apiFlag + "/v1/records")
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
	listCmd.Flags().StringVarP(&recordType, "type", "t", "", "Filter by record type")
	listCmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum records to return")
	recordsCmd.AddCommand(listCmd)

	rootCmd.AddCommand(recordsCmd)
}
