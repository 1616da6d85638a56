package router

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/handler"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/store"
	"finance-tracker/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const serviceName = "Personal Finance Tracker API"

// SetupRouter builds the gin engine with every API route bound to s.
func SetupRouter(cfg *config.Config, s store.Store, logger *slog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestLogger(logger),
		gin.Recovery(),
		cors.New(corsConfig(cfg.CORS.AllowedOriginPrefixes)),
	)

	r.GET("/", func(c *gin.Context) {
		util.JSON(c, http.StatusOK, gin.H{"status": "ok", "name": serviceName})
	})

	authHandler := handler.NewAuthHandler(s, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.TokenTTL(), cfg.Security.BcryptCost)
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)

	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))

	protected.GET("/me", handler.GetMe(s))

	budgetHandler := handler.NewBudgetHandler(s)
	protected.GET("/budgets", budgetHandler.ListBudgets)
	protected.POST("/budgets", budgetHandler.CreateBudget)
	protected.PUT("/budgets/:id", budgetHandler.UpdateBudget)
	protected.DELETE("/budgets/:id", budgetHandler.DeleteBudget)

	exportHandler := handler.NewExportHandler(s)
	protected.GET("/transactions/export.csv", exportHandler.ExportCSV)
	protected.GET("/transactions/export.xlsx", exportHandler.ExportXLSX)

	trxHandler := handler.NewTransactionHandler(s)
	protected.GET("/transactions", trxHandler.ListTransactions)
	protected.POST("/transactions", trxHandler.CreateTransaction)
	protected.PUT("/transactions/:id", trxHandler.UpdateTransaction)
	protected.DELETE("/transactions/:id", trxHandler.DeleteTransaction)

	reportHandler := handler.NewReportHandler(s)
	protected.GET("/reports/summary", reportHandler.Summary)

	backupHandler := handler.NewBackupHandler(s, util.NewSealer(cfg.Security.EncryptionKey), cfg.Backup.Dir)
	protected.POST("/backups", backupHandler.CreateBackup)
	protected.GET("/backups", backupHandler.ListBackups)
	protected.GET("/backups/:name/download", backupHandler.DownloadBackup)
	protected.POST("/backups/:name/restore", backupHandler.RestoreBackup)
	protected.DELETE("/backups/:name", backupHandler.DeleteBackup)

	return r
}

// corsConfig allows credentialed requests from any origin starting with one
// of prefixes, e.g. every http://localhost:<port> dev server.
func corsConfig(prefixes []string) cors.Config {
	return cors.Config{
		AllowOriginFunc: func(origin string) bool {
			for _, p := range prefixes {
				if strings.HasPrefix(origin, p) {
					return true
				}
			}
			return false
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
