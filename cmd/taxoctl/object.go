package main

import (
	"fmt"
	"strconv"

	"github.com/jimyag/taxo/internal/taxo/entity"
	"github.com/spf13/cobra"
)

func newObjectCmd(a *app) *cobra.Command {
	objectCmd := &cobra.Command{
		Use:   "object",
		Short: "Manage object-term relationships",
	}
	objectCmd.AddCommand(
		newObjectSetCmd(a),
		newObjectRemoveCmd(a),
		newObjectTermsCmd(a),
		newObjectClearCmd(a),
	)
	return objectCmd
}

func newObjectSetCmd(a *app) *cobra.Command {
	var (
		taxonomy   string
		appendMode bool
	)
	cmd := &cobra.Command{
		Use:   "set OBJECT_ID [TERM...]",
		Short: "Replace (or append to) the terms of an object",
		Long: `Replace the terms of an object in a taxonomy.

Numeric arguments are term ids, anything else is a term name. Unknown
names are created. With no terms the object is detached from the taxonomy.

Examples:
  taxoctl object set 42 Red Blue -t post_tag
  taxoctl object set 42 7 -t category --append`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objectID, err := parseObjectID(args[0])
			if err != nil {
				return err
			}
			ids, err := a.termService.SetObjectTerms(cmd.Context(), objectID, parseTermRefs(args[1:]), taxonomy, appendMode)
			if err != nil {
				return err
			}
			return printJSON(cmd, entity.SetObjectTermsResponse{TermTaxonomyIDs: ids})
		},
	}
	cmd.Flags().StringVarP(&taxonomy, "taxonomy", "t", "", "Taxonomy name")
	cmd.Flags().BoolVar(&appendMode, "append", false, "Keep existing terms")
	_ = cmd.MarkFlagRequired("taxonomy")
	return cmd
}

func newObjectRemoveCmd(a *app) *cobra.Command {
	var taxonomy string
	cmd := &cobra.Command{
		Use:   "remove OBJECT_ID TERM...",
		Short: "Remove terms from an object",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			objectID, err := parseObjectID(args[0])
			if err != nil {
				return err
			}
			removed, err := a.termService.RemoveObjectTerms(cmd.Context(), objectID, parseTermRefs(args[1:]), taxonomy)
			if err != nil {
				return err
			}
			return printJSON(cmd, entity.RemoveObjectTermsResponse{Removed: removed})
		},
	}
	cmd.Flags().StringVarP(&taxonomy, "taxonomy", "t", "", "Taxonomy name")
	_ = cmd.MarkFlagRequired("taxonomy")
	return cmd
}

func newObjectTermsCmd(a *app) *cobra.Command {
	var taxonomy string
	cmd := &cobra.Command{
		Use:   "terms OBJECT_ID",
		Short: "List the terms of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objectID, err := parseObjectID(args[0])
			if err != nil {
				return err
			}
			terms, err := a.termService.GetObjectTerms(cmd.Context(), objectID, taxonomy)
			if err != nil {
				return err
			}
			return printJSON(cmd, terms)
		},
	}
	cmd.Flags().StringVarP(&taxonomy, "taxonomy", "t", "", "Taxonomy name")
	_ = cmd.MarkFlagRequired("taxonomy")
	return cmd
}

func newObjectClearCmd(a *app) *cobra.Command {
	var taxonomies []string
	cmd := &cobra.Command{
		Use:   "clear OBJECT_ID",
		Short: "Remove all relationships of an object",
		Long: `Remove all relationships of an object.

Without --taxonomy every registered taxonomy is cleared, which is what
should happen when the object itself is deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objectID, err := parseObjectID(args[0])
			if err != nil {
				return err
			}
			if err := a.termService.DeleteObjectTermRelationships(cmd.Context(), objectID, taxonomies); err != nil {
				return err
			}
			return printJSON(cmd, entity.DeleteObjectTermsResponse{ObjectID: objectID})
		},
	}
	cmd.Flags().StringArrayVarP(&taxonomies, "taxonomy", "t", nil, "Taxonomy name (repeatable)")
	return cmd
}

func parseObjectID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid object id %q", s)
	}
	return id, nil
}

// parseTermRefs 数字按 term_id 引用，其余按名称引用
func parseTermRefs(args []string) []entity.TermRef {
	refs := make([]entity.TermRef, 0, len(args))
	for _, arg := range args {
		if id, err := strconv.ParseUint(arg, 10, 64); err == nil && id > 0 {
			refs = append(refs, entity.TermRefID(id))
			continue
		}
		refs = append(refs, entity.TermRefName(arg))
	}
	return refs
}
