package main

import (
	"github.com/jimyag/taxo/internal/taxo/entity"
	"github.com/spf13/cobra"
)

func newTaxonomyCmd(a *app) *cobra.Command {
	taxonomyCmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Inspect registered taxonomies",
	}

	var objectType string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered taxonomies",
		Long: `List registered taxonomies as JSON.

Use --object-type to only show taxonomies attached to an object type.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.taxonomyService.DescribeTaxonomies(cmd.Context(), &entity.DescribeTaxonomiesRequest{
				ObjectType: objectType,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, resp.Taxonomies)
		},
	}
	listCmd.Flags().StringVarP(&objectType, "object-type", "o", "", "Filter by object type (e.g., post)")

	taxonomyCmd.AddCommand(listCmd)
	return taxonomyCmd
}
