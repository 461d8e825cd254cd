package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/page"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Checks the content and prints a summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := content.Load(cmd.Context(), appConfig.Content)
		if err != nil {
			return err
		}
		if _, err := page.ForSite(site); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "content: %s\n", contentName(appConfig.Content))
		fmt.Fprintf(out, "sections: %d (", len(site.Sections))
		for i, id := range site.SectionIDs() {
			if i > 0 {
				fmt.Fprint(out, ", ")
			}
			fmt.Fprint(out, id)
		}
		fmt.Fprintln(out, ")")
		fmt.Fprintf(out, "projects: %d\n", len(site.Projects))
		fmt.Fprintf(out, "skills: %d\n", len(site.Skills))
		fmt.Fprintf(out, "experience: %d\n", len(site.Experience))
		fmt.Fprintf(out, "certificates: %d\n", len(site.Certificates))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
