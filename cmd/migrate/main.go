package main

import (
	"flag"
	"os"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/config"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 1, "number of migrations to roll back when direction is down")
	flag.Parse()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	switch *direction {
	case "up":
		err = database.MigrateUp(cfg.DB)
	case "down":
		err = database.MigrateDown(cfg.DB, *steps)
	default:
		logrus.Fatalf("Unknown direction %q, use up or down", *direction)
	}
	if err != nil {
		logrus.Fatalf("Migration failed: %v", err)
	}

	logrus.Infof("Migration %s finished", *direction)
}
