package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/sakuralog/internal/config"
	"github.com/sakuralog/internal/db"
	"github.com/sakuralog/internal/handler"
	"github.com/sakuralog/internal/mail"
	"github.com/sakuralog/internal/router"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 按需引导管理员账号
	if err := db.EnsureUser(cfg.AdminUserName, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	mailer := mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom)
	api := handler.NewAPI(db.DB, mailer, cfg.SiteBaseURL, cfg.UploadDir, cfg.UploadURLPath)

	r := router.Setup(api, cfg.SessionSecret, "web/template/*.html")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
