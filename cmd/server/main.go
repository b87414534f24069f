package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"krishiconnect/internal/config"
	"krishiconnect/internal/transport/http"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.GreenString(" _  __     _     _     _  ____                            _\n| |/ /_ __(_)___| |__ (_)/ ___|___  _ __  _ __   ___  ___| |_\n| ' /| '__| / __| '_ \\| | |   / _ \\| '_ \\| '_ \\ / _ \\/ __| __|\n| . \\| |  | \\__ \\ | | | | |__| (_) | | | | | | |  __/ (__| |_\n|_|\\_\\_|  |_|___/_| |_|_|\\____\\___/|_| |_|_| |_|\\___|\\___|\\__|"))
	fmt.Printf("%s\n", color.New(color.FgHiGreen).Add(color.Bold).Sprint("KrishiConnect"))
	fmt.Printf("Community posts and moderation service\n")
	color.HiBlack("=====================================================\n")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown LOG_LEVEL, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if err := http.Run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
