package main

import (
	"flag"
	"log"
	"strconv"

	"moviefav/pkg/config"
	"moviefav/pkg/logger"
	"moviefav/postgres"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding the sql-migrate files")
	down := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	l, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("cannot init logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		l.Fatalw("cannot connect to db", "error", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		l.Fatalw("cannot get db instance", "error", err)
	}
	defer sqlDB.Close()

	migrations := &migrate.FileMigrationSource{
		Dir: *dir,
	}

	var total int
	if *down {
		total, err = migrate.ExecMax(sqlDB, "postgres", migrations, migrate.Down, 1)
	} else {
		total, err = migrate.Exec(sqlDB, "postgres", migrations, migrate.Up)
	}
	if err != nil {
		l.Fatalw("cannot execute migration", "error", err)
	}

	l.Infow("applied migrations", "total", total, "down", *down)
}
