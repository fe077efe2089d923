package cli

import (
	"fmt"

	"github.com/alexanderramin/syllabus/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import schemes, timetable and exams from a JSON curriculum file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			summary := formatter.ImportSummary{
				Chapters:  res.ChapterCount,
				Timetable: res.TimetableCount,
				Exams:     res.ExamCount,
			}
			for _, s := range res.Schemes {
				summary.Schemes = append(summary.Schemes, s.DisplayName())
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImportResult(summary))
			return nil
		},
	}
}
