package main

import (
	"log"

	"filebot/bot/app"
	botconfig "filebot/bot/config"
	corecmd "filebot/core/cmd"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return botconfig.Load(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return app.Bootstrap(cfg.(*botconfig.Config))
		},
	})
	if err != nil {
		log.Fatalf("filebot: %v", err)
	}
}
