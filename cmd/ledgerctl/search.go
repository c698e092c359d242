package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/ledgerview/internal/core"
)

var searchPage int

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Run the dashboard search and print one page of results",
	Long: `Runs the public dashboard search: every matching row is printed with the
two rows that follow it. Use "showall" to list every row.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "result page to print")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	view, err := app.Service.Search(ctx, core.ViewState{}.WithQuery(args[0]).WithPage(searchPage))
	if err != nil {
		return err
	}
	return printView(cmd.OutOrStdout(), view)
}

// printView writes the page as a tab-aligned table with a blank line
// between three-row blocks.
func printView(out io.Writer, view core.SearchView) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Sl. No\t%s\n", strings.Join(view.Header, "\t"))

	for i, rec := range view.Page.Rows {
		values := make([]string, 0, len(view.Header))
		for _, f := range rec.Fields() {
			values = append(values, f.Value)
		}
		fmt.Fprintf(tw, "%d\t%s\n", rec.Row, strings.Join(values, "\t"))
		if view.Page.SeparatorAfter(i) {
			fmt.Fprintln(tw)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "\nPage %d of %d (%d rows)\n", view.State.Page, view.Page.TotalPages, view.Page.TotalRows)
	return err
}
