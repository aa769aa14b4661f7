package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/section-planner-api/internal/models"
	"github.com/noah-isme/section-planner-api/internal/service"
	"github.com/noah-isme/section-planner-api/pkg/logger"
)

type rootOptions struct {
	logLevel string
	sections string
	program  string
	log      *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "planner",
		Short:         "Offline course section schedule planner",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.NewCLI(opts.logLevel)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			opts.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVarP(&opts.sections, "sections", "s", "", "offering sheet CSV")
	cmd.PersistentFlags().StringVar(&opts.program, "program", "", "program stamped on rows without one")
	_ = cmd.MarkPersistentFlagRequired("sections")

	cmd.AddCommand(newGenerateCmd(opts), newValidateCmd(opts))
	return cmd
}

// loadSheet parses the offering sheet named by --sections.
func (o *rootOptions) loadSheet() ([]models.Section, error) {
	f, err := os.Open(o.sections)
	if err != nil {
		return nil, fmt.Errorf("open offering sheet: %w", err)
	}
	defer f.Close()

	sections, warnings, err := service.ParseOfferingSheet(f, "", o.program)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		o.log.Warn("offering sheet row",
			zap.Int("row", w.Row),
			zap.String("course", w.CourseCode),
			zap.String("section", w.Section),
			zap.String("field", w.Field),
			zap.String("message", w.Message),
			zap.Bool("skipped", w.Skipped),
		)
	}
	o.log.Info("offering sheet loaded", zap.String("path", o.sections), zap.Int("sections", len(sections)))
	return sections, nil
}
