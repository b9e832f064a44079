package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smarttester_backend/internals/configs"
	database "smarttester_backend/internals/databases"
	"smarttester_backend/internals/databases/memdb"
	routes "smarttester_backend/internals/route"
	"smarttester_backend/internals/seeds/demo"
)

func main() {
	configs.LoadEnv()
	if configs.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET wajib diisi")
	}

	repos, err := openStore()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	if configs.RunSeeds {
		seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := demo.Run(seedCtx, demo.Repos{
			Users:    repos.Users,
			Classes:  repos.Classes,
			Students: repos.Students,
			Tests:    repos.Tests,
		})
		cancel()
		if err != nil {
			log.Fatalf("[FATAL] seed: %v", err)
		}
	}

	if err := os.MkdirAll(configs.UploadDir, 0o755); err != nil {
		log.Fatalf("[FATAL] upload dir: %v", err)
	}

	app := routes.NewApp(repos, routes.AppOptions{
		Options: routes.Options{
			JWTSecret: configs.JWTSecret,
			JWTTTL:    configs.JWTTTL,
			UploadDir: configs.UploadDir,
			RateLimit: true,
		},
		BodyLimitMB: configs.BodyLimitMB,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s (store=%s)", configs.Port, configs.Store)
		if err := app.Listen("0.0.0.0:" + configs.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	database.Close()
}

func openStore() (routes.Repositories, error) {
	if configs.Store == configs.StoreMemory {
		log.Println("[INFO] STORE=memory, data hilang saat restart")
		return routes.NewMemoryRepositories(memdb.Open()), nil
	}

	if err := database.ConnectDB(); err != nil {
		return routes.Repositories{}, err
	}
	database.TunePool()
	if configs.AutoMigrate {
		if err := database.Migrate(database.DB); err != nil {
			return routes.Repositories{}, err
		}
	}
	return routes.NewGormRepositories(database.DB), nil
}
