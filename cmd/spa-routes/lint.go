package main

import (
	"fmt"

	router "github.com/goliatone/go-spa-router"
	"github.com/spf13/cobra"
)

func lintCmd(opts *globalOptions) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Report routes that can never match",
		Long: `Report routes shadowed by an earlier, more general route.

With --mode strict every overlapping pair is reported too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, sync, err := newLogger(opts.verbose)
			if err != nil {
				return err
			}
			defer sync()

			cfg, err := loadConfig(opts.file)
			if err != nil {
				return err
			}

			table, err := router.BuildTable(cfg.Routes, router.WithTableLogger(logger))
			if err != nil {
				return err
			}

			issues := table.Lint(router.LintOptions{
				PathConflictMode: router.ParsePathConflictMode(mode),
			})
			for _, issue := range issues {
				errorMsg("%s", issue)
			}
			if len(issues) > 0 {
				return &lintError{count: len(issues)}
			}

			success("%d routes, no issues", table.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(router.PathConflictModePreferStatic), "Conflict mode: prefer_static or strict")

	return cmd
}

type lintError struct {
	count int
}

func (e *lintError) Error() string {
	if e.count == 1 {
		return "1 lint issue"
	}
	return fmt.Sprintf("%d lint issues", e.count)
}
