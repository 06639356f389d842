package commands

import (
	"fmt"
	"log"
	"os"

	"bookshelf/config"
	"bookshelf/database"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "bookshelf",
	Short: "Bookshelf - books, libraries and a blog behind one API",
	Long: `Bookshelf serves a book/author REST API, a library catalogue with
role and permission checks, and a small blog with comments and live events.

Configuration comes from the environment; a .env file is loaded first when
present.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			log.Printf("Error loading %s file: %v", envFile, err)
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "File with environment overrides")
}

// openDatabase loads configuration and opens the configured database.
func openDatabase() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
