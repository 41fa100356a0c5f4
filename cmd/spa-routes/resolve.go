package main

import (
	"fmt"
	"strings"

	router "github.com/goliatone/go-spa-router"
	"github.com/spf13/cobra"
)

func resolveCmd(opts *globalOptions) *cobra.Command {
	var (
		mode string
		name string
	)

	cmd := &cobra.Command{
		Use:   "resolve [location]",
		Short: "Resolve a location against the route table",
		Example: `  spa-routes resolve /users/42?tab=posts
  spa-routes resolve --name user id=42`,
		Args: cobra.MinimumNArgs(1),
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
			if mode != "" {
				cfg.Mode = router.Mode(mode)
			}

			r, err := router.New(cfg,
				router.WithLogger(logger),
				router.WithBrowser(router.NewMemoryBrowser("http://localhost/")),
			)
			if err != nil {
				return err
			}

			var location router.RawLocation = router.Path(args[0])
			if name != "" {
				location = router.Location{Name: name, Params: parseParams(args)}
			}

			res := r.Resolve(location, router.StartRoute(), false)
			printResolution(res)
			if !res.Route.IsMatched() {
				return fmt.Errorf("no route matches %s", args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Router mode: hash, history or abstract")
	cmd.Flags().StringVar(&name, "name", "", "Resolve a named route, args are key=value params")

	return cmd
}

func parseParams(args []string) map[string]string {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			continue
		}
		params[key] = value
	}
	return params
}

func printResolution(res router.Resolution) {
	route := res.Route
	fmt.Printf("  Name:      %s\n", route.Name())
	fmt.Printf("  Path:      %s\n", route.Path())
	fmt.Printf("  Full path: %s\n", route.FullPath())
	fmt.Printf("  Href:      %s\n", res.Href)
	if from := route.RedirectedFrom(); from != "" {
		fmt.Printf("  Redirected from: %s\n", from)
	}
	if params := route.Params(); len(params) > 0 {
		fmt.Printf("  Params:    %v\n", params)
	}
	if query := route.Query(); len(query) > 0 {
		fmt.Printf("  Query:     %v\n", query)
	}
	for i, record := range route.Matched() {
		fmt.Printf("  %02d: %s\n", i, record)
	}
}
