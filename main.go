// file: main.go
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"schoolchamps_backend/internals/configs"
	"schoolchamps_backend/internals/databases"
	creditService "schoolchamps_backend/internals/features/credits/service"
	socialScheduler "schoolchamps_backend/internals/features/social/scheduler"
	socialService "schoolchamps_backend/internals/features/social/service"
	"schoolchamps_backend/internals/helpers/crypto"
	"schoolchamps_backend/internals/middlewares"
	"schoolchamps_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		AppName:     "schoolchamps_backend",
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
		BodyLimit:   12 * 1024 * 1024,
	})

	app.Use(requestid.New())
	app.Use(compress.New())
	app.Use(etag.New())
	middlewares.SetupMiddlewares(app)

	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	creditService.InitMidtrans(configs.MidtransServerKey)

	cipher, err := crypto.NewTokenCipher(configs.TokenCipherKey)
	if err != nil {
		log.Fatalf("❌ SOCIAL_TOKEN_KEY invalid: %v", err)
	}
	registry := socialService.NewRegistry(socialService.NewGormConnectionStore(database.DB), cipher)

	route.SetupRoutes(app, database.DB, registry)

	tokenSweep := socialScheduler.StartTokenRefreshScheduler(registry)

	// graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down...")
		tokenSweep.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Shutdown error: %v", err)
		}
	}()

	port := configs.GetEnvOrDefault("PORT", "3000")
	log.Printf("🚀 schoolchamps_backend listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("❌ Server stopped: %v", err)
	}
}
