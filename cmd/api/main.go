package main

import (
	"context"
	"log"
	"os"

	"Nova_Social/internal/graph"
	"Nova_Social/internal/model"
	"Nova_Social/internal/pkg"
	"Nova_Social/internal/repository/mysql"
	"Nova_Social/internal/repository/redis"
	"Nova_Social/internal/router"
	"Nova_Social/internal/service"
)

func main() {
	cfg := pkg.LoadConfig()

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		panic(err)
	}

	// 连接redis
	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		panic(err)
	}
	defer redis.Close()

	// 自动建表（开发阶段 OK）
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Friendship{},
		&model.FriendRequest{},
		&model.SocialOutbox{},
		&model.Community{},
		&model.CommunityMember{},
		&model.CommunityBan{},
		&model.Message{},
		&model.MessageVote{},
		&model.DirectThread{},
		&model.DirectMessage{},
	); err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 好友图内存索引，启动时全量加载
	idx := graph.New()
	friendSvc := service.NewFriendService(idx, graph.RecommendOptions{
		MutualWeight: cfg.RecommendMutualWeight,
		KarmaWeight:  cfg.RecommendKarmaWeight,
	})
	if err := friendSvc.LoadGraph(ctx); err != nil {
		panic(err)
	}

	// 社交事件 outbox：kafka 投递，没配 broker 时退化成日志
	sender := service.Sender(service.LogSender)
	if os.Getenv("NOVA_KAFKA_BROKERS") != "" {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.Printf("kafka producer init failed, fallback to log sender: %v", err)
		} else {
			defer producer.Close()
			sender = service.KafkaSender(producer)
		}
	}
	go service.NewOutboxRelayer(sender).Run(ctx)

	emailSvc := service.NewEmailService(cfg.SMTP)

	r := router.InitRouter(router.Deps{
		Users:       service.NewUserService(emailSvc),
		Email:       emailSvc,
		Friends:     friendSvc,
		Communities: service.NewCommunityService(),
		Messages:    service.NewMessageService(),
		Directs:     service.NewDirectService(idx),
		Nav:         service.NewNavService(),
	})
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
