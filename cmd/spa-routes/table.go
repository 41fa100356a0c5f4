package main

import (
	"fmt"
	"os"
	"sort"

	router "github.com/goliatone/go-spa-router"
	"github.com/spf13/cobra"
)

func tableCmd(opts *globalOptions) *cobra.Command {
	var namesOnly bool

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the route table in match order",
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

			if namesOnly {
				names := table.NameMap()
				keys := make([]string, 0, len(names))
				for name := range names {
					keys = append(keys, name)
				}
				sort.Strings(keys)
				for _, name := range keys {
					fmt.Printf("%-20s %s\n", name, names[name].Path())
				}
				return nil
			}

			table.PrintRoutes(os.Stdout)
			return nil
		},
	}

	cmd.Flags().BoolVar(&namesOnly, "names", false, "Print only named routes")

	return cmd
}
