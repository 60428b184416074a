package main

import (
	"log"

	"github.com/mogaika/figure_anim/cli"

	_ "github.com/mogaika/figure_anim/anim/character"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
