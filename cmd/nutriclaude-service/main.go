package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ryan-kosiba/nutriclaude/nutriservice"
)

func main() {
	buildTarget := flag.String("build-target", "", "Override NUTRICLAUDE_BUILD_TARGET (local, cloud-dev, cloud)")
	flag.Parse()

	if err := nutriservice.Run(*buildTarget); err != nil {
		log.Error().Err(err).Msg("nutriclaude-service exited with error")
		os.Exit(1)
	}
}
