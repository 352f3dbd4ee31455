package main

import (
	"log"

	"github.com/hirescreen/hirescreen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
