package payroll

import (
	"go-staffadmin/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const RolePayrollAdmin = "payroll_admin"

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.GET("", handler.GetAll)
		payrolls.GET("/periods", handler.GetPeriods)
		payrolls.GET("/staff/:staffId", handler.GetStaffHistory)
		payrolls.GET("/:id/payslip", handler.GetPayslip)
		payrolls.GET("/:id/payslip/download", handler.DownloadPayslipPDF)

		if redisClient != nil {
			payrolls.POST(
				"/generate",
				middleware.Idempotency(redisClient),
				middleware.RoleMiddleware(RolePayrollAdmin),
				handler.Generate,
			)
		} else {
			payrolls.POST("/generate", middleware.RoleMiddleware(RolePayrollAdmin), handler.Generate)
		}
		payrolls.POST("/:id/approve", middleware.RoleMiddleware(RolePayrollAdmin), handler.Approve)
		payrolls.POST("/:id/mark-paid", middleware.RoleMiddleware(RolePayrollAdmin), handler.MarkAsPaid)
		payrolls.POST("/:id/void", middleware.RoleMiddleware(RolePayrollAdmin), handler.Void)
	}
}
