package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/openshelf/openshelf/internal/auth"
	"github.com/openshelf/openshelf/internal/config"
	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/database/users"
	"github.com/openshelf/openshelf/internal/entities"
)

type CreateAdminCommand struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func NewCreateAdminCommand() *CreateAdminCommand {
	return &CreateAdminCommand{}
}

func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Administrator username (required)")
	fs.StringVar(&cmd.Email, "email", "", "Administrator email (required)")
	fs.StringVar(&cmd.Password, "password", "", "Administrator password (required)")
	fs.StringVar(&cmd.FirstName, "first-name", "", "First name")
	fs.StringVar(&cmd.LastName, "last-name", "", "Last name")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an administrator account.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-admin -username admin -email admin@example.com -password secret123\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" || cmd.Email == "" || cmd.Password == "" {
		fs.Usage()
		return fmt.Errorf("username, email and password are required")
	}

	return nil
}

func (cmd *CreateAdminCommand) Run() error {
	cfg := config.NewConfig()

	db, err := database.Open(cfg.Database.Driver, cfg.DatabaseDSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	service := auth.NewService(users.NewRepository(db.DB), cfg.Auth.BcryptCost)
	user, err := service.Register(cmd.Username, cmd.Email, cmd.Password, cmd.FirstName, cmd.LastName, entities.UserRoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	fmt.Printf("Created administrator %s (id=%d)\n", user.Username, user.ID)
	return nil
}
