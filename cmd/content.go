package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nibin-org/portfolio/internal/content"
)

func newContentCmd() *cobra.Command {
	var file string

	contentCmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect the page content",
	}

	checkCmd := &cobra.Command{
		Use:   "check [-f content_file]",
		Short: "Validate a content file and list its warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := content.Load(file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			name := file
			if name == "" {
				name = "built-in content"
			}
			warnings := p.Warnings()
			for _, w := range warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			fmt.Fprintf(out, "%s: ok, %d sections, %d outbound links, %d warnings\n",
				name, len(p.SectionIDs()), len(p.OutboundLinks()), len(warnings))
			return nil
		},
	}
	checkCmd.Flags().StringVarP(&file, "file", "f", "", "content file, the built-in content when empty")

	contentCmd.AddCommand(checkCmd)
	return contentCmd
}

func init() {
	rootCmd.AddCommand(newContentCmd())
}
