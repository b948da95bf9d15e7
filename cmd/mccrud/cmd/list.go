package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/materials-commons/mccrud/pkg/obj"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var listCmd = &cobra.Command{
	Use:   "list <entity> [key=value...]",
	Short: "List the records of an entity, key=value pairs are search params",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		params, err := parseParams(args[1:])
		if err != nil {
			log.Fatalf("%s", err)
		}

		records, err := newClient().List(context.Background(), args[0], params)
		if err != nil {
			log.Fatalf("%s", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			b, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				log.Fatalf("%s", err)
			}
			fmt.Println(string(b))
			return
		}

		columns, _ := cmd.Flags().GetStringSlice("columns")
		if err := showRecords(os.Stdout, records, columns); err != nil {
			log.Fatalf("%s", err)
		}
	},
}

func init() {
	listCmd.Flags().Bool("json", false, "Print the records as JSON")
	listCmd.Flags().StringSlice("columns", nil, "Columns to show, dotted paths read nested values (default all top level keys)")
	rootCmd.AddCommand(listCmd)
}

func parseParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, errors.Errorf("invalid search param '%s', expected key=value", arg)
		}
		params[key] = value
	}

	return params, nil
}

// showRecords renders records as a table with a total in the footer.
func showRecords(w io.Writer, records []any, columns []string) error {
	if len(columns) == 0 {
		columns = recordKeys(records)
	}

	if len(columns) == 0 {
		_, err := fmt.Fprintln(w, "No records")
		return err
	}

	table := tablewriter.NewWriter(w)

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = formatColumnHeader(col)
	}
	table.Header(headers)

	for _, record := range records {
		m, _ := record.(map[string]any)
		row := make([]string, len(columns))
		for i, col := range columns {
			v, _ := obj.Dig(m, col)
			row[i] = cell(v)
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}

	footer := make([]string, len(columns))
	footer[0] = fmt.Sprintf("Total: %d", len(records))
	table.Footer(footer)

	return table.Render()
}

func recordKeys(records []any) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, record := range records {
		m, ok := record.(map[string]any)
		if !ok {
			continue
		}
		for key, value := range m {
			switch value.(type) {
			case map[string]any, []any:
				continue
			}
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}

	sort.Strings(keys)
	return keys
}

func cell(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%f", value), "0"), ".")
	case map[string]any, []any:
		b, _ := json.Marshal(value)
		return string(b)
	default:
		return fmt.Sprint(value)
	}
}

func formatColumnHeader(col string) string {
	words := strings.FieldsFunc(col, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})

	for i, word := range words {
		words[i] = cases.Title(language.English).String(strings.ToLower(word))
	}

	return strings.Join(words, " ")
}
