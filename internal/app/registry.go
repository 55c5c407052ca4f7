package app

import (
	"go-staffadmin/internal/messaging/kafka"
	"go-staffadmin/internal/middleware"
	"go-staffadmin/internal/payroll"
	"go-staffadmin/internal/policy"
	"go-staffadmin/internal/shared/counter"
	"go-staffadmin/internal/staff"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
	pol policy.DeductionPolicy,
) error {
	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(20, 40))

	// --- Repositories ---
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	staffRepo := staff.NewRepository(gormDB)

	// --- Services ---
	payrollService := payroll.NewService(db, payrollRepo, staffRepo, counterRepo, outboxRepo, rdb, pol)

	// --- Handlers ---
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		payroll.RegisterRoutes(api, payrollHandler, rdb)
	}

	return nil
}
