package cli

import (
	"fmt"

	"github.com/alexanderramin/syllabus/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSchemeCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scheme",
		Short: "Browse schemes of work",
	}
	cmd.AddCommand(newSchemeListCmd(a), newSchemeShowCmd(a))
	return cmd
}

func newSchemeListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List schemes with planned and reported progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(cmd, a)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSchemeList(tree))
			return nil
		},
	}
}

func newSchemeShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show SCHEME",
		Short: "Show a scheme's chapters, sessions and gates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(cmd, a)
			if err != nil {
				return err
			}
			node, err := resolveScheme(tree, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSchemeTree(node))
			return nil
		},
	}
}

func newPlansCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plans SCHEME",
		Short: "List the stored lesson plans of a scheme with their full ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(cmd, a)
			if err != nil {
				return err
			}
			node, err := resolveScheme(tree, args[0])
			if err != nil {
				return err
			}
			plans, err := a.Plans.ListByScheme(cmd.Context(), node.Scheme.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanList(plans))
			return nil
		},
	}
}
