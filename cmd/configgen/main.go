package main

import (
	"log"

	"github.com/danmuck/ctagd/internal/config"
	"github.com/spf13/pflag"
)

func main() {
	output := pflag.String("output", "ctagd.toml", "output path for config template")
	validate := pflag.Bool("validate", false, "validate an existing config file")
	input := pflag.String("input", "ctagd.toml", "config path for validation")
	force := pflag.Bool("force", false, "overwrite existing config file")
	pflag.Parse()

	if *validate {
		cfg, err := config.LoadServerConfig(*input)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated config at %s (name=%s version=%s)", *input, cfg.Name, cfg.Version)
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote config template to %s", *output)
}
