package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/nibin-org/portfolio/cmd"
)

func main() {
	cmd.Execute()
}
