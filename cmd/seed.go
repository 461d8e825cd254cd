package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zachkp/folio/internal/content"
)

var seedDB string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Copies content into a SQLite database",
	Long: `The seed command loads the configured content (the embedded default when
--content is not set) and writes it to the SQLite database named by --db,
replacing whatever the database held. Point --content at the database
afterwards to serve from it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(os.Stderr, appConfig)

		if !content.IsDatabase(seedDB) {
			return fmt.Errorf("--db %q: expected a .db, .sqlite or .sqlite3 file", seedDB)
		}
		site, err := content.Load(cmd.Context(), appConfig.Content)
		if err != nil {
			return fmt.Errorf("load content: %w", err)
		}

		store, err := content.OpenStore(seedDB)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Save(cmd.Context(), site); err != nil {
			return err
		}
		logger.Info("content seeded",
			slog.String("db", seedDB),
			slog.Int("sections", len(site.Sections)),
			slog.Int("projects", len(site.Projects)))
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", seedDB)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedDB, "db", "folio.db", "target SQLite database")
	rootCmd.AddCommand(seedCmd)
}
