package main

import (
	"log"
	"unifile/cmd/uf/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatal(err)
	}
}
