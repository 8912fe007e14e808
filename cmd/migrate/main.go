package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/erp/contable/internal/infrastructure/config"
	"github.com/erp/contable/internal/infrastructure/logger"
	"github.com/erp/contable/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// source selects where migrations are read from. An empty dir means the
// set compiled into the binary.
type source struct {
	dir string
}

func (s source) embedded() bool { return s.dir == "" }

func (s source) list() ([]string, error) {
	if s.embedded() {
		return migration.ListEmbedded()
	}
	return migration.ListMigrations(s.dir)
}

func (s source) open(db *sql.DB, log *zap.Logger) (*migration.Migrator, error) {
	if s.embedded() {
		return migration.NewEmbedded(db, log)
	}
	return migration.New(db, s.dir, log)
}

type command struct {
	usage string
	// offline commands run without a database connection
	offline func(src source, args []string, log *zap.Logger) error
	run     func(m *migration.Migrator, args []string, log *zap.Logger) error
}

var errUsage = errors.New("invalid arguments")

var commands = map[string]command{
	"up": {
		usage: "up                    Apply all pending migrations",
		run: func(m *migration.Migrator, _ []string, _ *zap.Logger) error {
			return m.Up()
		},
	},
	"down": {
		usage: "down [n]              Roll back n migrations, or all of them",
		run: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			if len(args) == 0 {
				return m.Down()
			}
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("%w: step count %q", errUsage, args[0])
			}
			return m.Steps(-n)
		},
	},
	"step": {
		usage: "step <n>              Apply n migrations, negative n rolls back",
		run: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			n, err := intArg(args)
			if err != nil {
				return err
			}
			return m.Steps(n)
		},
	},
	"goto": {
		usage: "goto <version>        Migrate to a specific version",
		run: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: version required", errUsage)
			}
			v, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: version %q", errUsage, args[0])
			}
			return m.GoTo(uint(v))
		},
	},
	"version": {
		usage: "version               Show the applied version",
		run: func(m *migration.Migrator, _ []string, log *zap.Logger) error {
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if v == 0 {
				log.Info("No migrations applied")
				return nil
			}
			log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
			return nil
		},
	},
	"status": {
		usage: "status                Show applied and pending migrations",
		run: func(m *migration.Migrator, _ []string, log *zap.Logger) error {
			st, err := m.Status()
			if err != nil {
				return err
			}
			log.Info("Migration status",
				zap.Uint("version", st.Current),
				zap.Bool("dirty", st.Dirty),
				zap.Int("applied", len(st.Applied)),
				zap.Int("pending", len(st.Pending)),
			)
			for _, name := range st.Applied {
				fmt.Println("  [x]", name)
			}
			for _, name := range st.Pending {
				fmt.Println("  [ ]", name)
			}
			return nil
		},
	},
	"force": {
		usage: "force <version>       Record a version as applied (clears dirty state)",
		run: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			v, err := intArg(args)
			if err != nil {
				return err
			}
			return m.Force(v)
		},
	},
	"drop": {
		usage: "drop -confirm         Drop every database object",
		run: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			if !slices.Contains(args, "-confirm") && !slices.Contains(args, "--confirm") {
				return fmt.Errorf("%w: drop needs -confirm", errUsage)
			}
			return m.Drop()
		},
	},
	"create": {
		usage: "create <name> [desc]  Write a new migration file pair",
		offline: func(src source, args []string, log *zap.Logger) error {
			if src.embedded() {
				src.dir = "migrations"
			}
			if len(args) == 0 {
				return fmt.Errorf("%w: migration name required", errUsage)
			}
			desc := ""
			if len(args) > 1 {
				desc = args[1]
			}
			mf, err := migration.CreateMigration(src.dir, args[0], desc)
			if err != nil {
				return err
			}
			log.Info("Migration created",
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return nil
		},
	},
	"list": {
		usage: "list                  List available migrations",
		offline: func(src source, _ []string, log *zap.Logger) error {
			names, err := src.list()
			if err != nil {
				return err
			}
			log.Info("Available migrations", zap.Int("count", len(names)), zap.Bool("embedded", src.embedded()))
			for _, name := range names {
				fmt.Println("  -", name)
			}
			return nil
		},
	},
}

func intArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: number required", errUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errUsage, args[0])
	}
	return n, nil
}

func main() {
	var (
		path     string
		logLevel string
	)
	flag.StringVar(&path, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(config.LogConfig{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	src := source{}
	if path != "" {
		if src.dir, err = filepath.Abs(path); err != nil {
			log.Fatal("Invalid migrations path", zap.Error(err))
		}
	}
	log = log.With(zap.String("command", args[0]), zap.String("migrations_path", src.dir))

	if err := execute(cmd, src, args[1:], log); err != nil {
		if errors.Is(err, errUsage) {
			log.Error("Usage error", zap.Error(err))
			printUsage()
			os.Exit(2)
		}
		log.Fatal("Migration command failed", zap.Error(err))
	}
}

func execute(cmd command, src source, args []string, log *zap.Logger) error {
	if cmd.offline != nil {
		return cmd.offline(src, args, log)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := src.open(db, log)
	if err != nil {
		return err
	}
	defer m.Close()
	return cmd.run(m, args, log)
}

func printUsage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)

	fmt.Fprintln(os.Stderr, "Contable database migration tool\n\nUsage:\n  migrate [flags] <command> [arguments]\n\nCommands:")
	for _, name := range names {
		fmt.Fprintln(os.Stderr, "  "+commands[name].usage)
	}
	fmt.Fprintln(os.Stderr, `
Flags:
  -path string       Read migrations from this directory instead of the embedded set
  -log-level string  Log level: debug, info, warn, error (default: info)

The database is configured through ERP_DATABASE_HOST, ERP_DATABASE_PORT,
ERP_DATABASE_USER, ERP_DATABASE_PASSWORD, ERP_DATABASE_DBNAME and
ERP_DATABASE_SSLMODE.`)
}
