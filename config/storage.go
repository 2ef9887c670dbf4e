package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodgram/global"
	"foodgram/storage"

	"go.uber.org/zap"
)

func InitStorage() error {
	sc := AppConfig.Storage
	if sc.Driver != "s3" {
		global.Images = storage.NewLocalStore(sc.MediaRoot, MediaBaseURL())
		global.Logger.Info("Local media storage initialized", zap.String("root", sc.MediaRoot))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := storage.NewS3Store(ctx, storage.S3Config{
		Bucket:       sc.Bucket,
		Endpoint:     sc.Endpoint,
		Region:       sc.Region,
		AccessKey:    sc.AccessKey,
		SecretKey:    sc.SecretKey,
		UsePathStyle: sc.UsePathStyle,
		PublicURL:    sc.PublicURL,
	}, storage.WithLogger(global.Logger.Named("storage")))
	if err != nil {
		return fmt.Errorf("failed to initialize s3 storage: %w", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return err
	}

	global.Images = store
	global.Logger.Info("S3 media storage initialized", zap.String("bucket", sc.Bucket))
	return nil
}

// MediaBaseURL is where locally stored images are served from, absolute when app.baseurl is set.
func MediaBaseURL() string {
	return strings.TrimRight(AppConfig.App.BaseURL, "/") + "/" + strings.Trim(AppConfig.Storage.MediaURL, "/")
}
