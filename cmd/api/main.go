package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"campfire/internal/config"
	"campfire/internal/handler"
	"campfire/internal/middleware"
	"campfire/internal/pkg"
	"campfire/internal/repository/mysql"
	"campfire/internal/repository/redis"
	"campfire/internal/router"
	"campfire/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := mysql.InitDB(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := mysql.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	tokens := pkg.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret)

	userRepo := mysql.NewUserRepository(db)
	planRepo := mysql.NewPlanRepository(db)
	communityRepo := mysql.NewCommunityRepository(db)
	memberRepo := mysql.NewCommunityMemberRepository(db)
	courseRepo := mysql.NewCourseRepository(db)
	enrollmentRepo := mysql.NewEnrollmentRepository(db)
	progressRepo := mysql.NewLessonProgressRepository(db)
	chatRepo := mysql.NewChatMessageRepository(db)
	notificationRepo := mysql.NewNotificationRepository(db)

	sessionRepo := redis.NewSessionRepository(rdb)
	codeRepo := redis.NewCodeRepository(rdb)
	unreadRepo := redis.NewUnreadCacheRepository(rdb)

	emailSvc := service.NewEmailService(cfg.SMTP, codeRepo)

	var mailer service.EmailSender
	if cfg.SMTP.Host != "" {
		mailer = emailSvc
	}
	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, mailer)

	authz := service.NewAuthorizer(communityRepo, courseRepo, memberRepo)
	userSvc := service.NewUserService(userRepo, planRepo, sessionRepo, tokens, emailSvc)
	communitySvc := service.NewCommunityService(communityRepo, memberRepo, notificationSvc)
	courseSvc := service.NewCourseService(courseRepo, enrollmentRepo, memberRepo, authz, notificationSvc)
	progressSvc := service.NewProgressService(progressRepo, courseRepo, enrollmentRepo, notificationSvc)
	chatSvc := service.NewChatService(chatRepo, memberRepo, unreadRepo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sender := service.OutboxSender(service.LogSender)
	if len(cfg.KafkaBrokers) > 0 {
		producer := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
			Async:   cfg.KafkaAsync,
		})
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	relayer := service.NewOutboxRelayer(notificationRepo, sender)
	go relayer.Run(ctx)

	h := router.Handlers{
		User:         handler.NewUserHandler(userSvc),
		Community:    handler.NewCommunityHandler(communitySvc),
		Course:       handler.NewCourseHandler(courseSvc, progressSvc, communitySvc),
		Chat:         handler.NewChatHandler(chatSvc, communitySvc),
		Notification: handler.NewNotificationHandler(notificationSvc),
	}
	r := router.New(h, middleware.AuthMiddleware(tokens, sessionRepo))

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("http: %v", err)
	}
}
