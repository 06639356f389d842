package commands

import (
	"fmt"

	"bookshelf/database"
	"bookshelf/models"
	"bookshelf/services"

	"github.com/spf13/cobra"
)

var (
	userEmail    string
	userName     string
	userPassword string
	userRole     string
	userGrants   []string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account, optionally with a role and extra permissions",
	Long: `Create an account from the command line. This is the way to bootstrap
the first admin.

Examples:
  bookshelf user create --username admin --email admin@example.com --password s3cret --role admin
  bookshelf user create --username editor --email ed@example.com --password s3cret \
      --grant bookshelf.can_create_book --grant bookshelf.can_edit_book`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		users := services.NewUserService(db)
		user, err := users.CreateUser(cmd.Context(), &models.CreateUserRequest{
			Email:    userEmail,
			Username: userName,
			Password: userPassword,
		}, userRole)
		if err != nil {
			return err
		}

		for _, codename := range userGrants {
			if _, err := users.GrantPermission(cmd.Context(), user.ID, codename); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d, role %s)\n", user.Username, user.ID, user.Role)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)

	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email address")
	userCreateCmd.Flags().StringVar(&userName, "username", "", "Username")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Password")
	userCreateCmd.Flags().StringVar(&userRole, "role", models.RoleMember, "Role: admin, librarian or member")
	userCreateCmd.Flags().StringArrayVar(&userGrants, "grant", nil, "Permission codename to grant (repeatable)")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")
}
