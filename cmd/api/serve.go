package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"restaurant/internal/config"
	"restaurant/internal/handler"
	"restaurant/internal/idcipher"
	"restaurant/internal/infra/audit"
	"restaurant/internal/infra/db"
	"restaurant/internal/infra/payment"
	"restaurant/internal/infra/qrcode"
	infraRepo "restaurant/internal/infra/repository"
	"restaurant/internal/infra/token"
	"restaurant/internal/middleware"
	"restaurant/internal/server"
	"restaurant/internal/usecase"
	auth "restaurant/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			//DB接続
			gormDB, err := db.Connect(cfg)
			if err != nil {
				return err
			}
			if migrate {
				if err := db.Migrate(gormDB, logger); err != nil {
					return err
				}
			}

			e, err := buildServer(cfg, gormDB, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx, e, ":"+cfg.Port, logger)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run migrations before serving")
	return cmd
}

// 依存を組み立てて echo を返す
func buildServer(cfg config.Config, gormDB *gorm.DB, logger *slog.Logger) (*echo.Echo, error) {
	ids, err := idcipher.New(cfg.IDCipherSecret, cfg.IDCipherSalt)
	if err != nil {
		return nil, err
	}
	issuer, err := token.NewJWTIssuer(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	provider, err := payment.New(cfg.PaymentProvider, cfg.StripeSecretKey)
	if err != nil {
		return nil, err
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	tableRepo := infraRepo.NewTableGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	dishRepo := infraRepo.NewDishGormRepository(gormDB)
	priceRepo := infraRepo.NewDishPriceGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	auditor := audit.NewSecurityLogger(logger, auditRepo)
	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	//Usecase生成
	guard := auth.NewLoginGuard(userRepo, verifier, auditor, cfg.LoginMaxAttempts, cfg.LoginLockWindow)
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, guard, verifier, issuer, clock)
	meUC := auth.NewCurrentUserUsecase(userRepo)

	priceVerifier := usecase.NewPriceVerifier(cartRepo, cartItemRepo, priceRepo, cfg.PriceTolerance, logger)
	paymentUC := usecase.NewPaymentIntentUsecase(ids, priceVerifier, provider, auditor)
	orderUC := usecase.NewOrderUsecase(txm, ids, auditor, usecase.OrderOptions{
		ReverifyOnOrder: cfg.ReverifyOnOrder,
		PriceTolerance:  cfg.PriceTolerance,
	}, logger)
	cartUC := usecase.NewCartUsecase(ids, tableRepo, cartRepo, cartItemRepo, dishRepo, priceRepo, priceVerifier, auditor)
	tableUC := usecase.NewTableUsecase(ids, tableRepo, qrcode.NewGenerator(256), auditor, cfg.FEURL)
	menuUC := usecase.NewMenuUsecase(dishRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm)
	adminUserUC := usecase.NewAdminUserUsecase(userRepo, auditRepo)
	auditLogUC := usecase.NewAuditLogUsecase(auditRepo)

	//Handler生成
	h := server.Handlers{
		User:       handler.NewUserHandler(registerUC, loginUC, meUC, cfg.CookieSecure),
		Payment:    handler.NewPaymentHandler(paymentUC),
		Order:      handler.NewOrderHandler(orderUC),
		Cart:       handler.NewCartHandler(cartUC),
		Table:      handler.NewTableHandler(tableUC),
		Dish:       handler.NewDishHandler(menuUC),
		AdminOrder: handler.NewAdminOrderHandler(adminOrderUC),
		AdminUser:  handler.NewAdminUserHandler(adminUserUC, auditLogUC),
	}

	authed := []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg.JWTSecret),
		middleware.UserActiveGuard(userRepo),
	}
	mw := server.Middlewares{
		Authed:       authed,
		Admin:        append(append([]echo.MiddlewareFunc{}, authed...), middleware.AdminRoleGuard()),
		LoginLimiter: server.LoginRateLimiter(cfg.LoginRatePerMinute),
	}

	e := server.New(cfg, logger)
	server.RegisterRoutes(e, h, mw)
	return e, nil
}
