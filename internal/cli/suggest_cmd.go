package cli

import (
	"fmt"

	"github.com/alexanderramin/syllabus/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSuggestCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest SCHEME CHAPTER SESSION",
		Short: "Draft plan fields for a session with AI",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(cmd, a)
			if err != nil {
				return err
			}
			ref, err := parseRef(tree, args)
			if err != nil {
				return err
			}
			fields, warning := a.Planner.Suggest(cmd.Context(), ref)
			if warning != "" {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleYellow.Render(warning))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSuggestion(fields))
			return nil
		},
	}
}
