package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"aethermoor-server/internal/config"
	"aethermoor-server/internal/database"
	"aethermoor-server/internal/handler"
	"aethermoor-server/internal/logger"
	"aethermoor-server/internal/storage"
)

func main() {
	_ = godotenv.Load()
	log.Println("Запуск Aethermoor Content Server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Не удалось инициализировать логгер: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)
	zapLogger.Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, manager, err := storage.New(ctx, cfg)
	cancel()
	if err != nil {
		zapLogger.Fatal("Не удалось инициализировать слой хранения", zap.Error(err))
	}
	if manager != nil {
		defer manager.Close()
	}

	// monitor остается nil для файлового хранилища: /ready всегда готов
	var monitor *database.Monitor
	if manager != nil {
		monitor = database.NewMonitor(manager, cfg.HealthMaxFails, cfg.HealthOpenFor)
	}

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 60*time.Second)
	storage.NewSeeder(store, cfg).Run(seedCtx)
	seedCancel()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(zapLogger))

	corsConfig := cors.DefaultConfig()
	if origins := cfg.GetAllowedOrigins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	prom := ginprometheus.NewPrometheus("aethermoor")
	prom.Use(router)

	handler.NewContentHandler(store, monitor).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		zapLogger.Info("HTTP сервер слушает", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Ошибка запуска HTTP сервера", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Получен сигнал завершения, начинаем graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Ошибка при graceful shutdown", zap.Error(err))
	}
	log.Println("Aethermoor Content Server успешно остановлен")
}

// requestLogger — компактный access-лог поверх zap.
func requestLogger(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
