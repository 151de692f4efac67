package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adnanskuyy/ShoppingABTest/internal/ui"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the products on the shelves",
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

var catalogJSON bool

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "Output as JSON")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cat, err := cfg.loadCatalog()
	if err != nil {
		return err
	}
	products := cat.Products()
	if catalogJSON {
		return encodeJSON(cmd.OutOrStdout(), products)
	}

	table := ui.NewTableBuilder([]string{"NAME", "TYPE", "PRICE", "DESCRIPTION"}, len(products))
	for _, product := range products {
		description := product.Description
		if description == "" {
			description = "-"
		}
		table.AddRow(product.Name, string(product.Type), product.PriceLabel(), description)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), table.String())
	return err
}
