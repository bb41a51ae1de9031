package main

import (
	"context"
	"fmt"
	"io"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
	"gorm.io/gorm"

	"learning_platform/backend/config"
	"learning_platform/backend/mail"
	"learning_platform/backend/routes"
	"learning_platform/backend/services"
	"learning_platform/backend/utils"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errEmptyPassword = errors.New("password must not be empty")
)

// appEnv is what every command needs once configuration is loaded.
type appEnv struct {
	cfg    *config.Config
	logger *utils.Logger
	db     *gorm.DB
}

func setup() (*appEnv, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}
	logger, err := utils.InitLogger(cfg.Env)
	if err != nil {
		return nil, errors.Wrap(err, "initializing logger")
	}
	db, err := utils.InitDB(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "initializing database")
	}
	return &appEnv{cfg: cfg, logger: logger, db: db}, nil
}

func newCLI() *cli.App {
	return &cli.App{
		Name:   "learning_platform",
		Usage:  "learning platform backend",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "migrate the database and start the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the database schema",
				Action: migrate,
			},
			{
				Name:  "create-staff",
				Usage: "create an admin console account or reset its password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true, Usage: "staff username; the password is prompted next"},
				},
				Action: createStaff,
			},
		},
	}
}

func serve(c *cli.Context) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	if err := utils.Migrate(rt.db); err != nil {
		return err
	}

	reporter := utils.NewReporter(rt.cfg)
	defer reporter.Close()

	app := routes.NewApp(routes.Options{
		DB:       rt.db,
		Config:   rt.cfg,
		Logger:   rt.logger,
		Reporter: reporter,
		Mailer:   mail.New(rt.cfg, rt.logger),
	})

	rt.logger.Info("starting server", "port", rt.cfg.ServerPort, "env", rt.cfg.Env, "db", rt.cfg.DBDriver)
	return app.Listen(":" + rt.cfg.ServerPort)
}

func migrate(c *cli.Context) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	if err := utils.Migrate(rt.db); err != nil {
		return err
	}
	rt.logger.Info("migrations applied")
	return nil
}

func createStaff(c *cli.Context) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	if err := utils.Migrate(rt.db); err != nil {
		return err
	}
	admin := services.NewAdminService(services.Deps{DB: rt.db, Config: rt.cfg, Logger: rt.logger})
	return saveStaff(c.Context, admin, c.String("username"), c.App.Writer)
}

// saveStaff prompts for a password and stores the staff account.
func saveStaff(ctx context.Context, admin *services.AdminService, username string, out io.Writer) error {
	fmt.Fprint(out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(out)
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		return errEmptyPassword
	}

	staff, created, err := admin.SaveStaff(ctx, username, string(pwd))
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "Staff account %q created\n", staff.Username)
	} else {
		fmt.Fprintf(out, "Password of staff account %q updated\n", staff.Username)
	}
	return nil
}
