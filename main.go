package main

import (
	"github.com/ColonelBlimp/fibertester/cmd"
	"github.com/ColonelBlimp/fibertester/internal/recovery"
)

func main() {
	defer recovery.HandlePanic()
	cmd.Execute()
}
