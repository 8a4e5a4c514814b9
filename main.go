package main

import (
	"os"
	"runtime/debug"

	"github.com/mezonai/forktips/cmd"
	"github.com/mezonai/forktips/logx"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			_ = logx.Errorf("FORKTIPS CRASHED: %v\n%s", r, debug.Stack())
			os.Exit(1)
		}
	}()

	cmd.Execute()
}
