package main

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-article-admin/pkg/articles"
)

func newOpenAPICmd(_ *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the article API contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := articles.Contract(cmd.Context())
			if err != nil {
				return err
			}
			raw, err := doc.MarshalJSON()
			if err != nil {
				return fmt.Errorf("encode contract: %w", err)
			}
			var tree map[string]any
			if err := sonic.Unmarshal(raw, &tree); err != nil {
				return fmt.Errorf("encode contract: %w", err)
			}

			var out []byte
			switch format {
			case "json":
				out, err = sonic.ConfigStd.MarshalIndent(tree, "", "  ")
				out = append(out, '\n')
			case "yaml":
				out, err = yaml.Marshal(tree)
			default:
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
			if err != nil {
				return fmt.Errorf("encode contract: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: json or yaml")
	return cmd
}
