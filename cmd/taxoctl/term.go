package main

import (
	"fmt"
	"strconv"

	"github.com/jimyag/taxo/internal/taxo/entity"
	"github.com/jimyag/taxo/internal/taxo/service"
	"github.com/spf13/cobra"
)

func newTermCmd(a *app) *cobra.Command {
	termCmd := &cobra.Command{
		Use:   "term",
		Short: "Create, inspect and delete terms",
	}
	termCmd.AddCommand(
		newTermAddCmd(a),
		newTermGetCmd(a),
		newTermListCmd(a),
		newTermUpdateCmd(a),
		newTermDeleteCmd(a),
		newTermMetaCmd(a),
	)
	return termCmd
}

func newTermAddCmd(a *app) *cobra.Command {
	var (
		taxonomy string
		opts     service.InsertTermOptions
	)
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a term to a taxonomy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := a.termService.InsertTerm(cmd.Context(), args[0], taxonomy, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, ids)
		},
	}
	cmd.Flags().StringVarP(&taxonomy, "taxonomy", "t", "", "Taxonomy name")
	cmd.Flags().Uint64Var(&opts.Parent, "parent", 0, "Parent term id (hierarchical taxonomies only)")
	cmd.Flags().StringVar(&opts.Slug, "slug", "", "Slug (derived from the name when empty)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "Description")
	cmd.Flags().StringVar(&opts.AliasOf, "alias-of", "", "Slug of a term in the same taxonomy to share a term group with")
	_ = cmd.MarkFlagRequired("taxonomy")
	return cmd
}

func newTermGetCmd(a *app) *cobra.Command {
	var taxonomy, field string
	cmd := &cobra.Command{
		Use:   "get VALUE",
		Short: "Get a term by id, slug, name or term_taxonomy_id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term, err := a.termService.GetTermBy(cmd.Context(), field, args[0], taxonomy)
			if err != nil {
				return err
			}
			if term == nil {
				return service.ErrEmptyTerm
			}
			return printJSON(cmd, term)
		},
	}
	cmd.Flags().StringVarP(&taxonomy, "taxonomy", "t", "", "Taxonomy name")
	cmd.Flags().StringVar(&field, "by", "id", "Lookup field: id, slug, name or term_taxonomy_id")
	return cmd
}

func newTermListCmd(a *app) *cobra.Command {
	var q entity.TermQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List terms",
		Long: `List terms of one or more taxonomies as JSON.

Examples:
  taxoctl term list -t category
  taxoctl term list -t post_tag --hide-empty --orderby count --order DESC`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("parent") {
				parent, _ := cmd.Flags().GetUint64("parent")
				q.Parent = &parent
			}
			terms, err := a.termService.GetTerms(cmd.Context(), &q)
			if err != nil {
				return err
			}
			return printJSON(cmd, terms)
		},
	}
	cmd.Flags().StringArrayVarP(&q.Taxonomies, "taxonomy", "t", nil, "Taxonomy name (repeatable)")
	cmd.Flags().Uint64("parent", 0, "Only direct children of this term")
	cmd.Flags().Uint64Var(&q.ChildOf, "child-of", 0, "All descendants of this term")
	cmd.Flags().StringVar(&q.Search, "search", "", "Substring of name or slug")
	cmd.Flags().BoolVar(&q.HideEmpty, "hide-empty", false, "Skip terms with zero count")
	cmd.Flags().StringVar(&q.OrderBy, "orderby", "name", "name, slug, term_id, term_group, count or none")
	cmd.Flags().StringVar(&q.Order, "order", "ASC", "ASC or DESC")
	cmd.Flags().IntVar(&q.Number, "number", 0, "Maximum number of terms, 0 for all")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "Number of terms to skip")
	_ = cmd.MarkFlagRequired("taxonomy")
	return cmd
}

func newTermUpdateCmd(a *app) *cobra.Command {
	var (
		taxonomy                string
		name, slug, description string
		parent                  uint64
	)
	cmd := &cobra.Command{
		Use:   "update TERM_ID",
		Short: "Update a term, only the given flags are changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			termID, err := parseTermID(args[0])
			if err != nil {
				return err
			}
			var fields service.UpdateTermFields
			if cmd.Flags().Changed("name") {
				fields.Name = &name
			}
			if cmd.Flags().Changed("slug") {
				fields.Slug = &slug
			}
			if cmd.Flags().Changed("description") {
				fields.Description = &description
			}
			if cmd.Flags().Changed("parent") {
				fields.Parent = &parent
			}
			ids, err := a.termService.UpdateTerm(cmd.Context(), termID, taxonomy, fields)
			if err != nil {
				return err
			}
			return printJSON(cmd, ids)
		},
	}
	cmd.Flags().StringVarP(&taxonomy, "taxonomy", "t", "", "Taxonomy name")
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&slug, "slug", "", "New slug")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().Uint64Var(&parent, "parent", 0, "New parent term id, 0 for top level")
	_ = cmd.MarkFlagRequired("taxonomy")
	return cmd
}

func newTermDeleteCmd(a *app) *cobra.Command {
	var (
		taxonomy string
		opts     service.DeleteTermOptions
	)
	cmd := &cobra.Command{
		Use:   "delete TERM_ID",
		Short: "Delete a term from a taxonomy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			termID, err := parseTermID(args[0])
			if err != nil {
				return err
			}
			result, err := a.termService.DeleteTerm(cmd.Context(), termID, taxonomy, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, entity.DeleteTermResponse{Result: result.String()})
		},
	}
	cmd.Flags().StringVarP(&taxonomy, "taxonomy", "t", "", "Taxonomy name")
	cmd.Flags().Uint64Var(&opts.Default, "default", 0, "Replacement term for objects left without terms")
	cmd.Flags().BoolVar(&opts.ForceDefault, "force-default", false, "Add the replacement term to every affected object")
	_ = cmd.MarkFlagRequired("taxonomy")
	return cmd
}

func newTermMetaCmd(a *app) *cobra.Command {
	metaCmd := &cobra.Command{
		Use:   "meta",
		Short: "Manage term metadata",
	}

	var unique bool
	addCmd := &cobra.Command{
		Use:   "add TERM_ID KEY VALUE",
		Short: "Add a metadata value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			termID, err := parseTermID(args[0])
			if err != nil {
				return err
			}
			id, err := a.termService.AddTermMeta(cmd.Context(), termID, args[1], args[2], unique)
			if err != nil {
				return err
			}
			return printJSON(cmd, entity.AddTermMetaResponse{MetaID: id})
		},
	}
	addCmd.Flags().BoolVar(&unique, "unique", false, "Fail if the key already has a value")

	getCmd := &cobra.Command{
		Use:   "get TERM_ID [KEY]",
		Short: "Show metadata of a term",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			termID, err := parseTermID(args[0])
			if err != nil {
				return err
			}
			key := ""
			if len(args) == 2 {
				key = args[1]
			}
			meta, err := a.termService.GetTermMeta(cmd.Context(), termID, key)
			if err != nil {
				return err
			}
			return printJSON(cmd, meta)
		},
	}

	metaCmd.AddCommand(addCmd, getCmd)
	return metaCmd
}

func parseTermID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid term id %q", s)
	}
	return id, nil
}
