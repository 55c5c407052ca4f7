package app

import (
	"os"

	"go-staffadmin/internal/policy"
	"go-staffadmin/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	// Kebijakan statutori dimuat sekali saat startup; path kosong = default
	pol, err := policy.Load(os.Getenv("DEDUCTION_POLICY_PATH"))
	if err != nil {
		return err
	}
	logger.Info("deduction policy loaded", zap.String("currency", pol.Currency))

	return registerModules(router, gormDB, redisClient, pol)
}
