package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tacusci/logging/v2"
	"github.com/takama/daemon"
	"github.com/tauraamui/cinefilter/pkg/cine"
	"github.com/tauraamui/cinefilter/pkg/cine/auth"
	"github.com/tauraamui/cinefilter/pkg/config"
	"github.com/tauraamui/cinefilter/pkg/configdef"
	"github.com/tauraamui/cinefilter/pkg/log"
)

const (
	name        = "cinefilter"
	description = "Cinefilter service daemon which plays video streams through frame filter chains"
)

type Service struct {
	daemon.Daemon
}

// Setup writes the default stream configuration
func (service *Service) Setup() (string, error) {
	log.Info("Setting up cinefilter service...")

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	return "Setup successful...", nil
}

func (service *Service) RemoveSetup() (string, error) {
	log.Info("Removing setup for cinefilter service...")
	err := config.DefaultDestroyer().Destroy()
	if err != nil {
		log.Error("unable to delete config file: %s", err.Error())
	}

	return "Removing setup successful...", nil
}

// Token issues a viewer token for the named stream
func (service *Service) Token(stream string) (string, error) {
	server, err := cine.NewServer(config.DefaultResolver())
	if err != nil {
		return "", err
	}
	return server.ViewerToken(stream)
}

func (service *Service) Manage() (string, error) {
	usage := "Usage: cinefilter setup | remove-setup | token <stream> | install | remove | start | stop | status"

	if len(os.Args) > 1 {
		command := os.Args[1]
		switch command {
		case "setup":
			return service.Setup()
		case "remove-setup":
			return service.RemoveSetup()
		case "token":
			stream := auth.AllStreams
			if len(os.Args) > 2 {
				stream = os.Args[2]
			}
			return service.Token(stream)
		case "install":
			return service.Install()
		case "remove":
			return service.Remove()
		case "start":
			return service.Start()
		case "stop":
			return service.Stop()
		case "status":
			return service.Status()
		default:
			return usage, nil
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	log.Info("Starting cinefilter...")

	server, err := cine.NewServer(config.DefaultResolver())
	if err != nil {
		log.Fatal(err.Error())
	}

	ctx, cancelStartup := context.WithCancel(context.Background())
	go startupServer(ctx, server)

	killSignal := <-interrupt
	fmt.Print("\r")
	log.Error("Received signal: %s", killSignal)

	cancelStartup()
	log.Info("Shutting down server...")
	<-server.Shutdown()

	return "Shutdown successful... BYE! 👋", nil
}

func startupServer(ctx context.Context, server *cine.Server) {
	setupStreams(ctx, server)
	for _, err := range server.RunStreams() {
		log.Error(err.Error())
	}
	if err := server.Serve(); err != nil {
		log.Error("Unable to serve stream viewers: %v", err)
	}
}

func setupStreams(ctx context.Context, server *cine.Server) {
	errs := server.ConnectWithCancel(ctx)
	for _, err := range errs {
		log.Error(err.Error())
	}
}

func init() {
	log.SetLevel(os.Getenv("CINEFILTER_LOGGING_LEVEL"))
}

func main() {
	daemonType := daemon.SystemDaemon
	if runtime.GOOS == "darwin" {
		daemonType = daemon.UserAgent
	}

	srv, err := daemon.New(name, description, daemonType)
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	service := &Service{srv}
	status, err := service.Manage()
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	logging.Info(status) //nolint
}
