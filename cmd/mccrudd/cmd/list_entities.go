package cmd

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/materials-commons/mccrud/pkg/crud"
	"github.com/materials-commons/mccrud/pkg/mcdb"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "List the registered entities",
	Run: func(cmd *cobra.Command, args []string) {
		service, err := newService(mustLoadSettings(), mcdb.MustConnectToDB())
		if err != nil {
			log.Fatalf("Unable to create crud service: %s", err)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"Resource", "Title", "Operations", "Page Size", "Actions", "URI"})
		for _, e := range service.Entities() {
			_ = table.Append(entityRow(e))
		}
		_ = table.Render()
	},
}

func init() {
	rootCmd.AddCommand(entitiesCmd)
}

func entityRow(e *crud.Entity) []string {
	var ops []string
	for _, op := range []rune{crud.OpCreate, crud.OpRead, crud.OpUpdate, crud.OpDelete} {
		if e.Allows(op) {
			ops = append(ops, string(op))
		}
	}

	names := make([]string, 0, len(e.Actions))
	for name := range e.Actions {
		names = append(names, name)
	}
	sort.Strings(names)

	size, _ := e.Pagination()
	pageSize := strconv.Itoa(size)
	if size <= 0 {
		pageSize = "-"
	}

	return []string{
		e.ResourceName(),
		e.Title(),
		strings.Join(ops, ""),
		pageSize,
		strings.Join(names, ","),
		e.ResourceURI(),
	}
}
