package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/economic-loss/internal/actuarial"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func tablesCmd() *cobra.Command {
	var (
		path        string
		versionOnly bool
		summary     bool
	)

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Validate and print the actuarial reference tables",
		Long: `Load the actuarial tables (the built-in set, or --path) and print them as
YAML. Loading validates the tables, so this doubles as a check for a custom
tables file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables, err := actuarial.LoadOrDefault(path)
			if err != nil {
				return fmt.Errorf("failed to load actuarial tables: %w", err)
			}

			if versionOnly {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), tables.Version())
				return err
			}

			if summary {
				return writeTablesSummary(cmd.OutOrStdout(), tables)
			}

			encoder := yaml.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent(2)
			if err := encoder.Encode(tables.Document()); err != nil {
				return err
			}
			return encoder.Close()
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "tables file (default: built-in tables)")
	cmd.Flags().BoolVar(&versionOnly, "version-only", false, "print only the tables version")
	cmd.Flags().BoolVar(&summary, "summary", false, "print a short summary instead of the full tables")

	return cmd
}

func writeTablesSummary(w io.Writer, tables *actuarial.Tables) error {
	doc := tables.Document()

	sexes := make([]string, 0, len(doc.LifeExpectancy.Tables))
	for _, sex := range tables.Sexes() {
		table, _ := tables.LifeTable(sex)
		points := table.Points()
		sexes = append(sexes, fmt.Sprintf("%s ages %.0f-%.0f", sex, points[0].Age, points[len(points)-1].Age))
	}

	categories := make([]string, 0, len(doc.WageGrowth.Categories))
	for _, category := range doc.WageGrowth.Categories {
		categories = append(categories, category.Name)
	}

	_, err := fmt.Fprintf(w, "Version:           %s\nLife expectancy:   %s (%s)\nWork-life:         %s\nWage growth:       %s\n",
		tables.Version(),
		strings.Join(sexes, ", "),
		doc.LifeExpectancy.Source,
		doc.WorkLife.Source,
		strings.Join(categories, ", "),
	)
	return err
}
