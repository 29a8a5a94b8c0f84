package main

import (
	"flag"
	"io"
	"os"

	"portfolio-backend/internal/chatclient"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	server := flag.String("url", "http://localhost:5000", "portfolio backend base url")
	name := flag.String("name", "You", "name shown with your messages")
	logPath := flag.String("log", "", "write client logs to this file")
	flag.Parse()

	// The terminal belongs to the UI; logs only go to a file when asked.
	var out io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open log file")
		}
		defer f.Close()
		out = f
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	endpoint, err := chatclient.EndpointURL(*server)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid server url")
	}

	ui, err := NewChatUI()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start terminal UI")
	}
	defer ui.Close()

	m, err := chatclient.New(chatclient.Options{
		URL:      endpoint,
		Sender:   *name,
		OnChange: ui.Render,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create chat client")
	}
	defer m.Close()
	ui.Attach(m)
	m.Start()

	if err := ui.Run(); err != nil {
		log.Error().Err(err).Msg("UI error")
	}
}
