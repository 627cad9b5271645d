package main

import (
	"flag"
	"log"

	"scrumlog/internal/config"
	"scrumlog/internal/logger"
	"scrumlog/internal/model"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	configFile := flag.String("config", "etc/config-dev.yaml", "config file")
	email := flag.String("email", "admin@example.com", "admin email")
	password := flag.String("password", "changeme123", "admin password")
	name := flag.String("name", "관리자", "admin display name")
	teamName := flag.String("team", "개발팀", "team name")
	flag.Parse()

	logger.Init(config.LogConfig{Level: "info", Console: true})

	cfg := config.Load(*configFile)
	db, err := cfg.OpenGormDB()
	if err != nil {
		log.Fatal("db connect failed: ", err)
	}

	if err := db.AutoMigrate(
		&model.User{}, &model.WorkLog{}, &model.WorkItem{},
		&model.DailyScrum{}, &model.Team{}, &model.TeamMember{},
		&model.WeeklyReview{},
	); err != nil {
		log.Fatal("migrate failed: ", err)
	}

	var user model.User
	if err := db.Where("email = ?", *email).First(&user).Error; err == nil {
		logger.Info("user exists, skipping", "email", *email)
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("hash password: ", err)
		}
		user = model.User{Email: *email, Password: string(hash), DisplayName: *name}
		if err := db.Create(&user).Error; err != nil {
			log.Fatal("create user: ", err)
		}
		logger.Info("user created", "email", *email, "uid", user.ID)
	}

	var member model.TeamMember
	if err := db.Where("user_id = ?", user.ID).First(&member).Error; err == nil {
		logger.Info("team membership exists, skipping", "team", member.TeamID)
	} else {
		team := model.Team{Name: *teamName, AdminUserID: user.ID}
		if err := db.Create(&team).Error; err != nil {
			log.Fatal("create team: ", err)
		}
		if err := db.Create(&model.TeamMember{TeamID: team.ID, UserID: user.ID, Role: model.RoleAdmin}).Error; err != nil {
			log.Fatal("create team member: ", err)
		}
		logger.Info("team created", "team", team.ID, "name", *teamName)
	}

	logger.Info("=== seed done ===")
}
