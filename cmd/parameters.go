package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davidbz/atelier/internal/domain"
)

func newParametersCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parameters",
		Short: "Print the generation parameter catalog",
		RunE: func(_ *cobra.Command, _ []string) error {
			options := domain.ParameterOptions()

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(options)
			}

			names := make([]string, 0, len(options))
			for name := range options {
				names = append(names, name)
			}
			sort.Strings(names)

			defaults := domain.DefaultParameters().Fields()
			for _, name := range names {
				fmt.Printf("%s (default %s)\n  %s\n", name, defaults[name], strings.Join(options[name], ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
