package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specroute/specroute/models"
	"github.com/specroute/specroute/routes"
	"github.com/specroute/specroute/validator"
)

var routesRunner = runRoutes

func newRoutesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the resolved route table for a contract",
		Long: "Build the route table for a contract file or directory and print every " +
			"resolved (path, method) binding: models, headers, response codes, and metadata.",
		Example: strings.TrimSpace(`  specroute routes --path ./specs/petstore.json
  specroute routes --path ./specs --validator standards --strict`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveValidateConfig(cmd)
			if err != nil {
				return err
			}
			return routesRunner(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	addValidateFlags(cmd.Flags())
	return cmd
}

func runRoutes(ctx context.Context, cfg *ValidateConfig, out io.Writer) error {
	extra := make([]validator.Validator, 0, len(cfg.Validators))
	for _, name := range cfg.Validators {
		v, err := validator.New(name)
		if err != nil {
			return newUsageError(fmt.Sprintf("routes: %v", err))
		}
		extra = append(extra, v)
	}

	var modelOpts []models.Option
	if cfg.Strict {
		modelOpts = append(modelOpts, models.WithStrictValidation())
	}

	router, err := routes.NewSpecRouter(cfg.Path,
		routes.WithExtraValidators(extra...),
		routes.WithModelOptions(modelOpts...),
		routes.WithIncludeGlobs(cfg.Include...),
	)
	if err != nil {
		return err
	}
	table, err := router.Build()
	if err != nil {
		return err
	}

	for _, rt := range table.Routes() {
		printRoute(out, rt)
	}
	fmt.Fprintf(out, "%d routes\n", len(table.Routes()))
	return nil
}

func printRoute(out io.Writer, rt *routes.Route) {
	fmt.Fprintf(out, "%s %s\n", strings.ToUpper(string(rt.Method)), rt.Path)
	if rt.Summary != "" {
		fmt.Fprintf(out, "  Summary:    %s\n", rt.Summary)
	}
	if rt.RequestModel != nil {
		fmt.Fprintf(out, "  Request:    %s\n", rt.RequestModel.Name)
	}
	if rt.ResponseModel != nil {
		fmt.Fprintf(out, "  Response:   %s (%s)\n", rt.ResponseModel.Name, rt.ResponseDescription)
	}
	for _, code := range sortedCodes(rt.Responses) {
		resp := rt.Responses[code]
		if resp.Model != nil {
			fmt.Fprintf(out, "  Response:   %d %s (%s)\n", code, resp.Model.Name, resp.Description)
		} else {
			fmt.Fprintf(out, "  Response:   %d (%s)\n", code, resp.Description)
		}
	}
	if len(rt.Headers) > 0 {
		var names []string
		for name := range rt.Headers {
			names = append(names, name)
		}
		sort.Strings(names)
		for i, name := range names {
			if rt.Headers[name].Required {
				names[i] = name + " (required)"
			}
		}
		fmt.Fprintf(out, "  Headers:    %s\n", strings.Join(names, ", "))
	}
	if len(rt.Tags) > 0 {
		fmt.Fprintf(out, "  Tags:       %s\n", strings.Join(rt.Tags, ", "))
	}
	if rt.Deprecated {
		fmt.Fprintln(out, "  Deprecated: true")
	}
}

func sortedCodes(responses map[int]routes.Response) []int {
	codes := make([]int, 0, len(responses))
	for code := range responses {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}
