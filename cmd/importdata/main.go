// Command importdata loads ingredients or tags from a CSV file.
//
//	importdata -kind ingredients -file data/ingredients.csv
//	importdata -kind tags -file data/tags.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"foodgram/config"
	"foodgram/global"
	"foodgram/logger"
	"foodgram/models"
	"foodgram/services"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config.yml")
	file := flag.String("file", "", "CSV file to import")
	kind := flag.String("kind", "ingredients", "what the file holds: ingredients or tags")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	config.AppConfig = cfg
	global.Logger = logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: "stderr"})
	defer global.Logger.Sync()

	if err := config.InitDB(); err != nil {
		global.Logger.Fatal("init database", zap.Error(err))
	}
	if err := models.Migrate(global.Db); err != nil {
		global.Logger.Fatal("migrate database", zap.Error(err))
	}

	f, err := os.Open(*file)
	if err != nil {
		global.Logger.Fatal("open csv", zap.Error(err))
	}
	defer f.Close()

	n, err := run(context.Background(), *kind, f)
	if err != nil {
		global.Logger.Fatal("import failed", zap.String("kind", *kind), zap.Error(err))
	}
	global.Logger.Info("import finished", zap.String("kind", *kind), zap.Int64("inserted", n))
}

func run(ctx context.Context, kind string, r io.Reader) (int64, error) {
	switch kind {
	case "ingredients":
		return services.ImportIngredients(ctx, r)
	case "tags":
		return services.ImportTags(ctx, r)
	default:
		return 0, fmt.Errorf("unknown kind %q", kind)
	}
}
