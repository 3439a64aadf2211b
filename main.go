package main

import (
	"os"

	"github.com/opsvarejo/go-chamados-backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
