package main

import (
	"aduan/frontend/internal/backend"
	"aduan/frontend/internal/config"
	"aduan/frontend/internal/models"
	"aduan/frontend/internal/storage"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
)

const usage = `Usage: admin <command> [args]

Commands:
  users [role]                       list accounts
  create-user <user> <pass> <room> <role>
  delete-user <id> --yes
  categories                         list categories, inactive included
  deactivate-category <id>
  restore-category <id>
  delete-category <id> --yes         permanent, even when complaints use it
  stats                              dashboard overview
  diagnostics [limit]                recent failed API calls (needs DATABASE_URL)
  purge-diagnostics <days>           drop diagnostic events older than days`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}
	command, args := os.Args[1], os.Args[2:]

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch command {
	case "diagnostics", "purge-diagnostics":
		if !cfg.Database.Enabled() {
			log.Fatal("DATABASE_URL is not set")
		}
		db, err := storage.OpenDatabase(cfg.Database.URL)
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}
		s := storage.NewStorageService(db, nil) // No redis needed for admin CLI
		if err := runDiagnostics(ctx, s, command, args); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	client := backend.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	ctx, err := login(ctx, client)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	if err := run(ctx, client, command, args); err != nil {
		if msg := backend.Message(err); msg != "" {
			log.Fatalf("Error: %s (%v)", msg, err)
		}
		log.Fatalf("Error: %v", err)
	}
}

// login signs in with ADMIN_USERNAME/ADMIN_PASSWORD and returns a context
// carrying the token.
func login(ctx context.Context, api backend.Backend) (context.Context, error) {
	creds := models.Credentials{
		Username: os.Getenv("ADMIN_USERNAME"),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}
	if creds.Username == "" || creds.Password == "" {
		return nil, fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set")
	}
	res, err := api.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if res.User.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%s is %s, not admin", res.User.Username, res.User.Role)
	}
	return backend.WithToken(ctx, res.Token), nil
}

func run(ctx context.Context, api backend.Backend, command string, args []string) error {
	switch command {
	case "users":
		var f models.UserFilters
		if len(args) > 0 {
			role, err := models.ParseRole(args[0])
			if err != nil {
				return err
			}
			f.Role = role
		}
		return listUsers(ctx, api, f)

	case "create-user":
		if len(args) != 4 {
			return fmt.Errorf("usage: admin create-user <username> <password> <room> <role>")
		}
		role, err := models.ParseRole(args[3])
		if err != nil {
			return err
		}
		u, err := api.CreateUser(ctx, models.Registration{Username: args[0], Password: args[1], Room: args[2], Role: role})
		if err != nil {
			return err
		}
		fmt.Printf("User %s created with id %s.\n", u.Username, u.ID)

	case "delete-user":
		id, err := confirmed(args, "delete-user")
		if err != nil {
			return err
		}
		if err := api.DeleteUser(ctx, id); err != nil {
			return err
		}
		fmt.Printf("User %s has been deleted.\n", id)

	case "categories":
		cats, err := api.ListCategories(ctx, true)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tACTIVE\tDESCRIPTION")
		for _, c := range cats {
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", c.ID, c.Name, c.IsActive, c.Description)
		}
		return w.Flush()

	case "deactivate-category":
		if len(args) != 1 {
			return fmt.Errorf("usage: admin deactivate-category <id>")
		}
		if err := api.DeleteCategory(ctx, args[0], false); err != nil {
			return err
		}
		fmt.Printf("Category %s has been deactivated.\n", args[0])

	case "restore-category":
		if len(args) != 1 {
			return fmt.Errorf("usage: admin restore-category <id>")
		}
		c, err := api.RestoreCategory(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Category %s has been restored.\n", c.Name)

	case "delete-category":
		id, err := confirmed(args, "delete-category")
		if err != nil {
			return err
		}
		if err := api.DeleteCategory(ctx, id, true); err != nil {
			return err
		}
		fmt.Printf("Category %s has been deleted.\n", id)

	case "stats":
		s, err := api.DashboardStats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Total complaints: %d\n", s.Overview.TotalComplaints)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, st := range models.Statuses {
			fmt.Fprintf(w, "  %s\t%d\n", st, s.Overview.ComplaintsByStatus[st])
		}
		for _, p := range models.Priorities {
			fmt.Fprintf(w, "  %s\t%d\n", p, s.Overview.ComplaintsByPriority[p])
		}
		return w.Flush()

	default:
		fmt.Println(usage)
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

func listUsers(ctx context.Context, api backend.Backend, f models.UserFilters) error {
	f.Limit = 100
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tROOM\tROLE")
	for f.Page = 1; ; f.Page++ {
		page, err := api.ListUsers(ctx, f)
		if err != nil {
			return err
		}
		for _, u := range page.Users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Room, u.Role)
		}
		if len(page.Users) == 0 || f.Page >= page.Pagination.Pages {
			break
		}
	}
	return w.Flush()
}

// confirmed returns the id argument of a destructive command, which must be
// followed by --yes.
func confirmed(args []string, command string) (string, error) {
	if len(args) != 2 || args[1] != "--yes" {
		return "", fmt.Errorf("usage: admin %s <id> --yes", command)
	}
	return args[0], nil
}

func runDiagnostics(ctx context.Context, s storage.Storage, command string, args []string) error {
	if command == "purge-diagnostics" {
		if len(args) != 1 {
			return fmt.Errorf("usage: admin purge-diagnostics <days>")
		}
		days, err := strconv.Atoi(args[0])
		if err != nil || days < 1 {
			return fmt.Errorf("invalid days %q", args[0])
		}
		n, err := s.PurgeDiagnostics(ctx, time.Now().AddDate(0, 0, -days))
		if err != nil {
			return err
		}
		fmt.Printf("%d diagnostic events purged.\n", n)
		return nil
	}

	limit := 20
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid limit %q", args[0])
		}
		limit = n
	}
	events, err := s.RecentDiagnostics(ctx, limit)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSTATUS\tOPERATION\tPATH\tMESSAGE")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", e.OccurredAt.Format(time.DateTime), e.StatusCode, e.Operation, e.Path, e.Message)
	}
	return w.Flush()
}
