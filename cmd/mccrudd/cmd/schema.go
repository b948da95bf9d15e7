package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/materials-commons/mccrud/pkg/crud"
	"github.com/materials-commons/mccrud/pkg/mcdb"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema <entity>",
	Short: "Print the schema of an entity",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, err := newService(mustLoadSettings(), mcdb.MustConnectToDB())
		if err != nil {
			log.Fatalf("Unable to create crud service: %s", err)
		}

		e, err := service.Entity(args[0])
		if err != nil {
			log.Fatalf("%s", err)
		}

		schema, err := e.Schema()
		if err != nil {
			log.Fatalf("Invalid schema: %s", err)
		}

		if parse, _ := cmd.Flags().GetBool("parse"); parse {
			js, err := crud.JSONWithParse(schema)
			if err != nil {
				log.Fatalf("%s", err)
			}
			fmt.Println(js)
			return
		}

		b, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			log.Fatalf("%s", err)
		}
		fmt.Println(string(b))
	},
}

func init() {
	schemaCmd.Flags().Bool("parse", false, "Print the schema wrapped in JSON.parse with a function reviver")
	rootCmd.AddCommand(schemaCmd)
}
