package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/wuwenbin0122/user-console/internal/client"
	"github.com/wuwenbin0122/user-console/internal/dashboard"
	"github.com/wuwenbin0122/user-console/internal/db"
	"github.com/wuwenbin0122/user-console/internal/models"
	"github.com/wuwenbin0122/user-console/internal/utils"
)

const helpText = `commands:
  list                      show the displayed users
  search <term>             filter by username (empty term clears)
  edit <id>                 start editing a user's role
  role <value>              change the draft role
  save                      send the draft role to the server
  cancel                    abandon the draft
  delete <id>               delete a user after confirmation
  create <username> <email> <password> <role> <image>
  operator <id>             remember a listed user as the session operator
  whoami                    show the session operator
  reload                    fetch the user list again
  logout                    clear the session and exit
  quit                      exit without clearing the session`

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: failed to load: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("logger: failed to build: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	storage, err := openSessionStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("session: failed to open storage", zap.Error(err))
	}

	session := dashboard.NewSession(storage, cfg.Console.SessionKey)
	if err := session.Init(ctx); err != nil {
		logger.Fatal("session: init failed", zap.Error(err))
	}

	gateway := client.New(cfg.Console.APIBaseURL, cfg.Console.HTTPTimeout)
	term := newTerminal(os.Stdin, os.Stdout)
	ctrl := dashboard.NewController(gateway, session, term, logger.Named("dashboard"))

	run(ctx, ctrl, gateway, session, term, os.Stdout)
}

func openSessionStorage(ctx context.Context, cfg *utils.Config) (dashboard.SessionStorage, error) {
	if cfg.Console.SessionBackend != utils.SessionRedis {
		return dashboard.NewMemorySessionStorage(), nil
	}

	rdb, err := db.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	return dashboard.NewRedisSessionStorage(rdb, ""), nil
}

func run(ctx context.Context, ctrl *dashboard.Controller, gateway *client.Client, session *dashboard.Session, term *terminal, out io.Writer) {
	if operator, ok := ctrl.Operator(); ok {
		fmt.Fprintf(out, "signed in as %s\n", operator.Username)
	}

	if err := ctrl.Load(ctx); err != nil {
		fmt.Fprintf(out, "could not load users: %v\n", err)
	} else {
		printUsers(out, ctrl)
	}

	for !term.left {
		line, ok := term.readLine()
		if !ok {
			return
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		var err error
		switch cmd {
		case "":
		case "help":
			fmt.Fprintln(out, helpText)
		case "list":
			printUsers(out, ctrl)
		case "search":
			ctrl.Search(arg)
			printUsers(out, ctrl)
		case "edit":
			err = ctrl.BeginEdit(arg)
		case "role":
			err = ctrl.SetDraftRole(arg)
		case "save":
			err = ctrl.ConfirmEdit(ctx)
			if err == nil {
				printUsers(out, ctrl)
			}
		case "cancel":
			ctrl.CancelEdit()
		case "delete":
			var deleted bool
			deleted, err = ctrl.Delete(ctx, arg)
			if deleted {
				printUsers(out, ctrl)
			}
		case "create":
			err = createUser(ctx, gateway, ctrl, arg)
			if err == nil {
				printUsers(out, ctrl)
			}
		case "operator":
			err = rememberOperator(ctx, ctrl, session, arg)
		case "whoami":
			if operator, ok := ctrl.Operator(); ok {
				fmt.Fprintf(out, "%s (%s)\n", operator.Username, operator.Role)
			} else {
				fmt.Fprintln(out, "anonymous")
			}
		case "reload":
			err = ctrl.Load(ctx)
			if err == nil {
				printUsers(out, ctrl)
			}
		case "logout":
			err = ctrl.Logout(ctx)
		case "quit", "exit":
			return
		default:
			fmt.Fprintf(out, "unknown command %q, try help\n", cmd)
		}

		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func createUser(ctx context.Context, gateway *client.Client, ctrl *dashboard.Controller, arg string) error {
	parts := strings.Fields(arg)
	if len(parts) != 5 {
		return errors.New("usage: create <username> <email> <password> <role> <image>")
	}

	_, err := gateway.CreateUser(ctx, models.UserCreate{
		Username: parts[0],
		Email:    parts[1],
		Password: parts[2],
		Role:     parts[3],
		Image:    parts[4],
	})
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
			return fmt.Errorf("%w (missing: %s)", err, strings.Join(apiErr.Fields, ", "))
		}
		return err
	}
	return ctrl.Load(ctx)
}

func rememberOperator(ctx context.Context, ctrl *dashboard.Controller, session *dashboard.Session, id string) error {
	for _, u := range ctrl.Users() {
		if u.ID == id {
			if err := session.Init(ctx); err != nil {
				return err
			}
			return session.Remember(ctx, u)
		}
	}
	return dashboard.ErrNotVisible
}

func printUsers(out io.Writer, ctrl *dashboard.Controller) {
	if ctrl.Loading() {
		fmt.Fprintln(out, "Loading...")
		return
	}

	list := ctrl.Users()
	if len(list) == 0 {
		fmt.Fprintln(out, "No users found")
		return
	}

	editingID, draft, editing := ctrl.Editing()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tEMAIL\tIMAGE")
	for _, u := range list {
		role := u.Role
		if editing && u.ID == editingID {
			role = "[" + draft + "]"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Username, role, u.Email, u.Image)
	}
	w.Flush()
}
