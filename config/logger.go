package config

import (
	"foodgram/global"
	"foodgram/logger"

	"go.uber.org/zap"
)

func InitLogger() {
	global.Logger = logger.New(logger.Config{
		Level:  AppConfig.Log.Level,
		Format: AppConfig.Log.Format,
		Output: AppConfig.Log.Output,
	}).With(zap.String("app", AppConfig.App.Name))
}
