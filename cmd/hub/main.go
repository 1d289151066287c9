package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/tasktrophy/hub/domain"
	"github.com/tasktrophy/hub/internal/config"
	boltInfra "github.com/tasktrophy/hub/internal/infrastructure/bolt"
	"github.com/tasktrophy/hub/internal/infrastructure/monitor"
	"github.com/tasktrophy/hub/internal/seed"
	"github.com/tasktrophy/hub/internal/services/feed"
	"github.com/tasktrophy/hub/internal/services/lifecycle"
	"github.com/tasktrophy/hub/pkg/logger"
	"github.com/tasktrophy/hub/repository"
	boltRepo "github.com/tasktrophy/hub/repository/bolt"
	achievementUC "github.com/tasktrophy/hub/usecase/achievement"
	chatUC "github.com/tasktrophy/hub/usecase/chat"
	identityUC "github.com/tasktrophy/hub/usecase/identity"
	taskUC "github.com/tasktrophy/hub/usecase/task"
)

func main() {
	root := &cli.Command{
		Name:  "hub",
		Usage: "Task Trophy Hub: tasks, team chat and achievements",
		Commands: []*cli.Command{
			loginCmd(),
			registerCmd(),
			logoutCmd(),
			whoamiCmd(),
			tasksCmd(),
			chatCmd(),
			achievementsCmd(),
			statusCmd(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired stores for a single invocation.
type app struct {
	cfg         *config.Config
	logger      *zap.Logger
	manager     *lifecycle.Manager
	identity    *identityUC.Store
	tasks       *taskUC.Store
	chat        *chatUC.Store
	credentials repository.CredentialRepository
	feed        *feed.Feed
	monitor     *monitor.Monitor
}

// newApp wires config, logging, storage, repositories and stores, then
// restores the persisted identity so every command sees the current user.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)

	client, err := boltInfra.Open(cfg.Storage.Path, boltRepo.Buckets...)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	manager.Register("storage", func(ctx context.Context) error {
		return client.Close()
	})

	defaults := &seed.Set{}
	if cfg.Seed.Enabled {
		defaults, err = seed.Defaults(time.Now())
		if err != nil {
			return nil, fmt.Errorf("materializing seed data: %w", err)
		}
	}

	taskRepo, err := boltRepo.NewTaskRepository(client.DB(), defaults.Tasks, zapLogger)
	if err != nil {
		return nil, err
	}
	messageRepo, err := boltRepo.NewMessageRepository(client.DB(), defaults.Messages, zapLogger)
	if err != nil {
		return nil, err
	}
	credentialRepo, err := boltRepo.NewCredentialRepository(client.DB(), defaults.Credentials, zapLogger)
	if err != nil {
		return nil, err
	}
	identityRepo := boltRepo.NewIdentityRepository(client.DB(), zapLogger)

	signalFeed := feed.New(cfg.Feed.Limit, zapLogger)

	a := &app{
		cfg:         cfg,
		logger:      zapLogger,
		manager:     manager,
		identity:    identityUC.New(identityRepo, credentialRepo, signalFeed, zapLogger, cfg.Auth.SimulatedDelay),
		tasks:       taskUC.New(taskRepo, signalFeed, zapLogger),
		chat:        chatUC.New(messageRepo, signalFeed, zapLogger),
		credentials: credentialRepo,
		feed:        signalFeed,
		monitor:     monitor.New(taskRepo, messageRepo, identityRepo, zapLogger),
	}

	// The identity store must settle before dependent stores read it.
	if err := a.identity.Restore(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.manager.Shutdown(ctx); err != nil {
		a.logger.Error("shutdown error", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// viewer returns the current user or an error for commands that require
// authentication. This is the route-guard layer: the stores themselves
// never check.
func (a *app) viewer() (*domain.User, error) {
	user := a.identity.Current()
	if user == nil {
		return nil, fmt.Errorf("not logged in (run 'hub login')")
	}
	return user, nil
}

func loginCmd() *cli.Command {
	return &cli.Command{
		Name:      "login",
		Usage:     "Authenticate with email and password",
		ArgsUsage: "<email> <password>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			email, password := cmd.Args().Get(0), cmd.Args().Get(1)
			if email == "" || password == "" {
				return fmt.Errorf("email and password arguments are required")
			}
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			user, err := a.identity.Login(logger.ContextWithActorID(ctx, email), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%s)\n", user.Name, user.Role)
			return nil
		},
	}
}

func registerCmd() *cli.Command {
	return &cli.Command{
		Name:      "register",
		Usage:     "Create a new account",
		ArgsUsage: "<name> <email> <password>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name, email, password := cmd.Args().Get(0), cmd.Args().Get(1), cmd.Args().Get(2)
			if name == "" || email == "" || password == "" {
				return fmt.Errorf("name, email and password arguments are required")
			}
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			user, err := a.identity.Register(ctx, name, email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Registered and logged in as %s\n", user.Name)
			return nil
		},
	}
}

func logoutCmd() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Clear the current session",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			if err := a.identity.Logout(ctx); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func whoamiCmd() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the current user",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			user := a.identity.Current()
			if user == nil {
				fmt.Println("Not logged in")
				return nil
			}
			fmt.Printf("%s <%s> role=%s\n", user.Name, user.Email, user.Role)
			return nil
		},
	}
}

func tasksCmd() *cli.Command {
	return &cli.Command{
		Name:  "tasks",
		Usage: "List and manage tasks",
		Commands: []*cli.Command{
			tasksListCmd(),
			tasksAddCmd(),
			tasksShowCmd(),
			tasksUpdateCmd(),
			tasksCompleteCmd(),
			tasksDeleteCmd(),
		},
	}
}

func tasksListCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the tasks visible to you",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			viewer, err := a.viewer()
			if err != nil {
				return err
			}
			tasks, err := a.tasks.ListVisible(ctx, viewer)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Println("No tasks")
				return nil
			}
			for _, t := range tasks {
				fmt.Printf("%-4s %-10s %-8s due %-12s %s (-> %s)\n",
					t.ID, t.Status, t.Priority, t.DueDate, t.Title, t.AssignedTo.Name)
			}
			return nil
		},
	}
}

func tasksAddCmd() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Assign a new task (admin action)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "Task title", Required: true},
			&cli.StringFlag{Name: "description", Usage: "Task description"},
			&cli.StringFlag{Name: "to", Usage: "Assignee email", Required: true},
			&cli.StringFlag{Name: "priority", Usage: "low, medium or high", Value: "medium"},
			&cli.StringFlag{Name: "due", Usage: "Due date (YYYY-MM-DD)", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			actor, err := a.viewer()
			if err != nil {
				return err
			}
			if !actor.IsAdmin() {
				return fmt.Errorf("only admins can assign tasks")
			}

			cred, err := a.credentials.GetByEmail(ctx, cmd.String("to"))
			if err != nil {
				return err
			}
			if cred == nil {
				return fmt.Errorf("no user with email %q", cmd.String("to"))
			}
			if _, err := time.Parse(domain.DueDateLayout, cmd.String("due")); err != nil {
				return fmt.Errorf("invalid due date: %w", err)
			}

			created, err := a.tasks.Add(ctx, taskUC.Input{
				Title:       cmd.String("title"),
				Description: cmd.String("description"),
				AssignedTo:  cred.User,
				Priority:    domain.Priority(cmd.String("priority")),
				DueDate:     cmd.String("due"),
			}, actor)
			if err != nil {
				return err
			}
			fmt.Printf("Task %s created\n", created.ID)
			return nil
		},
	}
}

func tasksShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one task",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			t, err := a.tasks.GetByID(ctx, cmd.Args().First())
			if err != nil {
				return err
			}
			fmt.Printf("#%s %s\n", t.ID, t.Title)
			fmt.Printf("  %s\n", t.Description)
			fmt.Printf("  status=%s priority=%s due=%s\n", t.Status, t.Priority, t.DueDate)
			fmt.Printf("  assigned to %s by %s\n", t.AssignedTo.Name, t.AssignedBy.Name)
			if t.CompletedAt != nil {
				fmt.Printf("  completed %s\n", t.CompletedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func tasksUpdateCmd() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update fields of a task",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "New title"},
			&cli.StringFlag{Name: "description", Usage: "New description"},
			&cli.StringFlag{Name: "priority", Usage: "New priority"},
			&cli.StringFlag{Name: "status", Usage: "New status"},
			&cli.StringFlag{Name: "due", Usage: "New due date (YYYY-MM-DD)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			if _, err := a.viewer(); err != nil {
				return err
			}

			var patch domain.TaskPatch
			if cmd.IsSet("title") {
				v := cmd.String("title")
				patch.Title = &v
			}
			if cmd.IsSet("description") {
				v := cmd.String("description")
				patch.Description = &v
			}
			if cmd.IsSet("priority") {
				v := domain.Priority(cmd.String("priority"))
				patch.Priority = &v
			}
			if cmd.IsSet("status") {
				v := domain.Status(cmd.String("status"))
				patch.Status = &v
			}
			if cmd.IsSet("due") {
				v := cmd.String("due")
				if _, err := time.Parse(domain.DueDateLayout, v); err != nil {
					return fmt.Errorf("invalid due date: %w", err)
				}
				patch.DueDate = &v
			}

			updated, err := a.tasks.Update(ctx, cmd.Args().First(), patch)
			if err != nil {
				return err
			}
			fmt.Printf("Task %s updated\n", updated.ID)
			return nil
		},
	}
}

func tasksCompleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Usage:     "Mark a task completed",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			if _, err := a.viewer(); err != nil {
				return err
			}
			completed, err := a.tasks.Complete(ctx, cmd.Args().First())
			if err != nil {
				return err
			}
			fmt.Printf("Task %s completed\n", completed.ID)
			return nil
		},
	}
}

func tasksDeleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a task permanently",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			actor, err := a.viewer()
			if err != nil {
				return err
			}
			if !actor.IsAdmin() {
				return fmt.Errorf("only admins can delete tasks")
			}
			if err := a.tasks.Delete(ctx, cmd.Args().First()); err != nil {
				return err
			}
			fmt.Printf("Task %s deleted\n", cmd.Args().First())
			return nil
		},
	}
}

func chatCmd() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Team chat",
		Commands: []*cli.Command{
			{
				Name:  "history",
				Usage: "Print the full message log",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := newApp(ctx)
					if err != nil {
						return err
					}
					defer a.close(ctx)

					messages, err := a.chat.History(ctx)
					if err != nil {
						return err
					}
					for _, m := range messages {
						fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format("2006-01-02 15:04"), m.Sender.Name, m.Text)
					}
					return nil
				},
			},
			{
				Name:      "send",
				Usage:     "Send a message to the team channel",
				ArgsUsage: "<text>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := newApp(ctx)
					if err != nil {
						return err
					}
					defer a.close(ctx)

					actor, err := a.viewer()
					if err != nil {
						return err
					}
					msg, err := a.chat.Send(ctx, strings.Join(cmd.Args().Slice(), " "), actor)
					if err != nil {
						return err
					}
					if msg == nil {
						fmt.Println("Nothing to send")
						return nil
					}
					fmt.Println("Message sent")
					return nil
				},
			},
		},
	}
}

func achievementsCmd() *cli.Command {
	return &cli.Command{
		Name:  "achievements",
		Usage: "Show your achievement progress",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			viewer, err := a.viewer()
			if err != nil {
				return err
			}
			visible, err := a.tasks.ListVisible(ctx, viewer)
			if err != nil {
				return err
			}

			summary := achievementUC.Summarize(visible)
			fmt.Printf("Completed: %d  High priority: %d  On time: %d\n\n",
				summary.Completed, summary.HighPriorityCompleted, summary.OnTimeCompleted)

			for _, ach := range achievementUC.Compute(visible) {
				mark := " "
				if ach.Earned() {
					mark = "*"
				}
				// Display percentage is capped; the raw counter is not.
				pct := ach.Progress * 100 / ach.Requirement
				if pct > 100 {
					pct = 100
				}
				fmt.Printf("[%s] %-22s %-8s %d/%d (%d%%) %s\n",
					mark, ach.Title, ach.Tier, ach.Progress, ach.Requirement, pct, ach.Description)
			}
			return nil
		},
	}
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show storage status",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			status, err := a.monitor.Snapshot(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("tasks=%d messages=%d authenticated=%v", status.Tasks, status.Messages, status.Authenticated)
			if status.CurrentUser != "" {
				fmt.Printf(" user=%s", status.CurrentUser)
			}
			fmt.Println()
			return nil
		},
	}
}
