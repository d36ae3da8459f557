package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"dojoadmin/internal/config"
	"dojoadmin/internal/database"
	"dojoadmin/internal/middleware"
	"dojoadmin/internal/modules/approval"
	"dojoadmin/internal/modules/auth"
	"dojoadmin/internal/modules/billing"
	"dojoadmin/internal/modules/rank"
	jwtsvc "dojoadmin/internal/pkg/jwt"
	"dojoadmin/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	profileRepo := repository.NewProfileRepository(db)
	rankRepo := repository.NewBeltRankRepository(db)
	feeRepo := repository.NewFeeRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	authService := auth.NewService(profileRepo, j, cfg.SessionLookupTimeout)
	authHandler := auth.NewHandler(authService)

	approvalService := approval.NewService(profileRepo, rankRepo)
	approvalHandler := approval.NewHandler(approvalService)

	rankService := rank.NewService(rankRepo)
	rankHandler := rank.NewHandler(rankService)

	billingService := billing.NewService(feeRepo, profileRepo)
	billingHandler := billing.NewHandler(billingService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)

		// any authenticated member
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		protected.Use(middleware.SessionLoader(authService))
		{
			authHandler.RegisterProtectedRoutes(protected)
			rankHandler.RegisterReadRoutes(protected)
			billingHandler.RegisterMemberRoutes(protected)
		}

		// master-only administration
		master := protected.Group("/master")
		master.Use(middleware.MasterOnly())
		{
			approvalHandler.RegisterRoutes(master)
			rankHandler.RegisterWriteRoutes(master)
			billingHandler.RegisterMasterRoutes(master)
		}
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
