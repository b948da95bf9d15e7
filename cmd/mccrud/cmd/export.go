package cmd

import (
	"context"
	"io"
	"net/url"
	"os"

	"github.com/apex/log"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <entity> <action> [key=value...]",
	Short: "Run an export action (csv, xml, json, yaml, ...) of an entity",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		params, err := parseParams(args[2:])
		if err != nil {
			log.Fatalf("%s", err)
		}

		values := url.Values{}
		for key, value := range params {
			values.Set(key, value)
		}

		if fields, _ := cmd.Flags().GetString("fields"); fields != "" {
			values.Set("fields", fields)
		}

		ids, _ := cmd.Flags().GetString("ids")
		out, _ := cmd.Flags().GetString("out")

		var w io.Writer = os.Stdout
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				log.Fatalf("Unable to create %s: %s", out, err)
			}
			defer f.Close()
			w = f
		}

		if err := newClient().Export(context.Background(), args[0], args[1], ids, values, w); err != nil {
			log.Fatalf("Export failed: %s", err)
		}
	},
}

func init() {
	exportCmd.Flags().String("ids", "", "Comma separated ids to export (default all matching records)")
	exportCmd.Flags().String("fields", "", "Fields to export, for example 'id as ID,owner.name as Owner'")
	exportCmd.Flags().String("out", "", "Write the export to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
