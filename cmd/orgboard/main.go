package main

import (
	"context"

	"github.com/julienschmidt/httprouter"

	authhandler "orgboard/internal/auth/handler"
	authrepository "orgboard/internal/auth/repository"
	authservice "orgboard/internal/auth/service"
	changeloghandler "orgboard/internal/changelog/handler"
	changelogrepository "orgboard/internal/changelog/repository"
	changelogservice "orgboard/internal/changelog/service"
	"orgboard/internal/events"
	eventshandler "orgboard/internal/events/handler"
	lockshandler "orgboard/internal/locks/handler"
	"orgboard/internal/locks/registry"
	locksservice "orgboard/internal/locks/service"
	"orgboard/internal/notify"
	personshandler "orgboard/internal/persons/handler"
	personsrepository "orgboard/internal/persons/repository"
	personsservice "orgboard/internal/persons/service"
	personsvalidator "orgboard/internal/persons/validator"
	sessionshandler "orgboard/internal/sessions/handler"
	sessionsservice "orgboard/internal/sessions/service"
	taskshandler "orgboard/internal/tasks/handler"
	tasksrepository "orgboard/internal/tasks/repository"
	tasksservice "orgboard/internal/tasks/service"
	tasksvalidator "orgboard/internal/tasks/validator"
	teamshandler "orgboard/internal/teams/handler"
	teamsrepository "orgboard/internal/teams/repository"
	teamsservice "orgboard/internal/teams/service"
	teamsvalidator "orgboard/internal/teams/validator"
	"orgboard/pkg/app"
	"orgboard/pkg/config"
	"orgboard/pkg/contracts"
	"orgboard/pkg/kafka"
)

// routes registers a set of handlers on one router.
type routes []contracts.Handler

func (rs routes) RegisterRoutes(router *httprouter.Router) {
	for _, r := range rs {
		r.RegisterRoutes(router)
	}
}

func main() {
	cfg := config.Load("orgboard")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	// Repositories.
	userRepo := authrepository.NewMongoUserRepository(cfg)
	sessionRepo := authrepository.NewMongoSessionRepository(cfg)
	changeRepo := changelogrepository.NewMongoChangeLogRepository(cfg)
	teamRepo := teamsrepository.NewMongoTeamRepository(cfg)
	personRepo := personsrepository.NewMongoPersonRepository(cfg)
	taskRepo := tasksrepository.NewMongoTaskRepository(cfg)

	// Auth.
	authService := authservice.NewAuthService(userRepo, sessionRepo, cfg)
	if err := authService.EnsureDefaultUsers(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to seed default users", "error", err)
	}
	guard := authhandler.NewGuard(authService, cfg)

	// Event fan-out and edit locks.
	bus := events.NewBus(cfg.EventBufferSize, cfg.Log)
	lockRegistry := registry.New()
	lockService := locksservice.NewLockService(lockRegistry, bus, cfg)

	// Change log, with an optional Kafka relay.
	var relay changelogservice.Relay
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaChangesTopic, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		defer producer.Close()
		relay = producer
	}
	changeService := changelogservice.NewChangeLogService(changeRepo, relay, cfg)
	notifier := notify.NewNotifier(bus, changeService)

	// Domain services.
	teamService := teamsservice.NewTeamService(
		teamRepo, personRepo, taskRepo,
		teamsvalidator.NewTeamValidator(), notifier, cfg,
	)
	personService := personsservice.NewPersonService(
		personRepo, teamRepo, taskRepo,
		personsvalidator.NewPersonValidator(), notifier, cfg,
	)
	taskService := tasksservice.NewTaskService(
		taskRepo, personRepo,
		tasksvalidator.NewTaskValidator(), notifier, cfg,
	)
	directoryService := sessionsservice.NewDirectoryService(sessionRepo, authService, bus, cfg)

	appRoutes := routes{
		authhandler.NewAuthHandler(authService, guard, cfg),
		lockshandler.NewLockHandler(lockService, guard, cfg.Log),
		sessionshandler.NewSessionHandler(directoryService, guard, cfg.Log),
		changeloghandler.NewChangeLogHandler(changeService, guard, cfg.Log),
		teamshandler.NewTeamHandler(teamService, guard, cfg.Log),
		personshandler.NewPersonHandler(personService, guard, cfg.Log),
		taskshandler.NewTaskHandler(taskService, guard, cfg.Log),
	}
	streamHandler := eventshandler.NewEventsHandler(bus, lockService, guard, cfg)

	application := app.NewApplication()
	application.SetApp(cfg, appRoutes, streamHandler)
	application.Run()
}
