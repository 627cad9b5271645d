package main

import (
	"flag"
	"log/slog"
	"os"

	"scrumlog/internal/config"
	"scrumlog/internal/handler"
	"scrumlog/internal/logger"
	"scrumlog/internal/middleware"
	"scrumlog/internal/model"
	"scrumlog/internal/service"
	"scrumlog/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)
	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(
		&model.User{}, &model.WorkLog{}, &model.WorkItem{},
		&model.DailyScrum{}, &model.Team{}, &model.TeamMember{},
		&model.WeeklyReview{},
	); err != nil {
		slog.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	secret := []byte(cfg.Server.JWTSecret)
	mgr := store.NewManager(db)

	aiSvc := service.NewAIService(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	gen := service.NewGenerator(aiSvc)
	authSvc := service.NewAuthService(db)
	teamSvc := service.NewTeamService(db)
	weeklySvc := service.NewWeeklyService(db)
	slackSvc := service.NewSlackService(cfg.Slack.WebhookURL)
	notionSvc := service.NewNotionService(cfg.Notion.APIKey, cfg.Notion.DatabaseID)

	authH := handler.NewAuthHandler(authSvc, secret)
	worklogH := handler.NewWorklogHandler(mgr)
	scrumH := handler.NewScrumHandler(mgr)
	genH := handler.NewGenerateHandler(mgr, gen, weeklySvc)
	teamH := handler.NewTeamHandler(teamSvc, gen)
	extH := handler.NewExternalHandler(mgr, slackSvc, notionSvc)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.POST("/api/login", authH.Login)
	r.POST("/api/register", authH.Register)
	r.GET("/api/share/:shareId", scrumH.Shared)

	api := r.Group("/api", middleware.JWTAuth(secret))

	api.GET("/worklogs", worklogH.List)
	api.GET("/worklogs/:date", worklogH.Get)
	api.DELETE("/worklogs/:date", worklogH.Delete)
	api.POST("/worklogs/:date/items", worklogH.AddItem)
	api.PUT("/worklogs/:date/items", worklogH.Reorder)
	api.PUT("/worklogs/:date/items/:id", worklogH.UpdateItem)
	api.DELETE("/worklogs/:date/items/:id", worklogH.DeleteItem)

	api.GET("/scrums", scrumH.List)
	api.GET("/scrums/:date", scrumH.Get)
	api.PUT("/scrums/:date", scrumH.Save)
	api.PATCH("/scrums/:date", scrumH.UpdateField)
	api.DELETE("/scrums/:date", scrumH.Delete)
	api.GET("/scrums/:date/render", scrumH.Render)
	api.POST("/scrums/:date/generate", genH.GenerateScrum)
	api.GET("/scrums/:date/generate", genH.ScrumState)

	api.GET("/weekly", genH.ListWeekly)
	api.POST("/weekly/generate", genH.GenerateWeekly)

	api.POST("/team/init", teamH.Init)
	api.GET("/team/members", teamH.Members)
	api.GET("/team/scrums", teamH.MemberScrums)
	api.POST("/team/scrums", teamH.SaveTeamScrum)
	api.POST("/team/consolidate", teamH.Consolidate)

	api.POST("/slack/send", extH.SlackSend)
	api.POST("/notion/upload", extH.NotionUpload)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
