package main

import (
	"os"

	"food-delivery-client/cli"
	"food-delivery-client/config"
)

func main() {
	config.LoadConfig()
	os.Exit(cli.Run(os.Args[1:]))
}
