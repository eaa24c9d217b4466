package main

import (
	"os"

	"github.com/keshon/bsplit/internal/command"
	_ "github.com/keshon/bsplit/internal/command/digest"
	_ "github.com/keshon/bsplit/internal/command/help"
	_ "github.com/keshon/bsplit/internal/command/merge"
	_ "github.com/keshon/bsplit/internal/command/session"
	_ "github.com/keshon/bsplit/internal/command/split"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"help"}
	}
	command.RunCLI(args)
}
