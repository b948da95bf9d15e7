package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema <entity>",
	Short: "Show the schema of an entity",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		schema, err := newClient().Schema(context.Background(), args[0])
		if err != nil {
			log.Fatalf("%s", err)
		}

		b, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			log.Fatalf("%s", err)
		}

		fmt.Println(string(b))
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
