package main

import (
	"github.com/leighmacdonald/rconwrap/internal/cmd"
)

func main() {
	cmd.Execute()
}
