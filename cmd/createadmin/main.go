// Command createadmin bootstraps an administrator account. It prompts for
// the password without echo, so it is safe to run on a shared terminal.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/devhubhq/devhub/internal/server/config"
	"github.com/devhubhq/devhub/internal/server/repositories/repomanager"
	"github.com/devhubhq/devhub/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"
)

func main() {
	name := flag.String("name", "", "admin display name")
	email := flag.String("email", "", "admin email address")
	flag.Parse()

	reader := bufio.NewReader(os.Stdin)

	if *name == "" {
		fmt.Print("Name: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Fatalf("error reading name: %v", err)
		}
		*name = strings.TrimSpace(line)
	}
	if *email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Fatalf("error reading email: %v", err)
		}
		*email = strings.TrimSpace(line)
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Fatalf("error reading password: %v", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	userService := services.NewUserService(db, m, cfg)

	user, err := userService.Create(ctx, *name, *email, string(password), true)
	if err != nil {
		log.Fatalf("error creating admin: %v", err)
	}

	fmt.Printf("Created admin %s (%s)\n", user.Name, user.Email)
}
