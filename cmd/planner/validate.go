package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/section-planner-api/internal/dto"
	"github.com/noah-isme/section-planner-api/internal/service"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check an offering sheet and list row warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(root.sections)
			if err != nil {
				return fmt.Errorf("open offering sheet: %w", err)
			}
			defer f.Close()

			sections, warnings, err := service.ParseOfferingSheet(f, "", root.program)
			if err != nil {
				return err
			}
			printWarnings(cmd.OutOrStdout(), len(sections), warnings)
			if strict && len(warnings) > 0 {
				return fmt.Errorf("%d warnings", len(warnings))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any warning is reported")
	return cmd
}

func printWarnings(out io.Writer, valid int, warnings []dto.ImportWarning) {
	fmt.Fprintf(out, "%d sections importable, %d warnings\n", valid, len(warnings))
	if len(warnings) == 0 {
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tCOURSE\tSECTION\tFIELD\tSKIPPED\tMESSAGE")
	for _, w := range warnings {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\t%s\n", w.Row, dash(w.CourseCode), dash(w.Section), dash(w.Field), w.Skipped, w.Message)
	}
	_ = tw.Flush()
}
