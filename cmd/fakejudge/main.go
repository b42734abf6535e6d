package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/programme-lv/ojclient/judgeapi"
	"github.com/programme-lv/ojclient/judgefake"
	"github.com/programme-lv/ojclient/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}

	address := flag.String("addr", getEnv("FAKEJUDGE_ADDR", ":8000"), "listen address")
	teacher := flag.String("teacher", os.Getenv("FAKEJUDGE_TEACHER"), "seed a teacher account as email:password")
	flag.Parse()

	level, err := logger.ParseLevel(os.Getenv("OJ_LOG_LEVEL"))
	if err != nil {
		slog.Error("bad log level", "error", err)
		os.Exit(1)
	}

	opts := []judgefake.Option{judgefake.WithLogLevel(level)}
	if key := os.Getenv("JWT_KEY"); key != "" {
		opts = append(opts, judgefake.WithJwtKey([]byte(key)))
	}
	server := judgefake.New(opts...)

	if *teacher != "" {
		if err := seedTeacher(server, *teacher); err != nil {
			slog.Error("failed to seed teacher", "error", err)
			os.Exit(1)
		}
	}

	log.Printf("Starting fake judge on %s", *address)
	err = server.Start(*address)
	log.Printf("Server stopped with error: %v", err)
}

func seedTeacher(server *judgefake.Server, creds string) error {
	email, password, ok := strings.Cut(creds, ":")
	if !ok {
		return fmt.Errorf("expected email:password, got %q", creds)
	}
	username, _, _ := strings.Cut(email, "@")
	_, err := server.AddUser(judgeapi.RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
		Role:     judgeapi.RoleTeacher,
	})
	return err
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
