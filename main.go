package main

import (
	"os"

	"github.com/paramset/paramset/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
