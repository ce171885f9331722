package main

import (
	"fmt"
	"os"

	"github.com/ostafen/extfix/cmd/cmd"
	"github.com/ostafen/extfix/internal/env"
	"github.com/ostafen/extfix/internal/term"
)

func main() {
	if term.IsTerminalFile(os.Stdout) {
		PrintLogo()
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func PrintLogo() {
	fmt.Println("            _    __ _      ")
	fmt.Println("   _____  _| |_ / _(_)_  __")
	fmt.Println("  / _ \\ \\/ / __| |_| \\ \\/ /")
	fmt.Println(" |  __/>  <| |_|  _| |>  < ")
	fmt.Println("  \\___/_/\\_\\\\__|_| |_/_/\\_\\")
	fmt.Println()
	fmt.Println("File extension auditor")
	fmt.Println()
	fmt.Printf("Version:   %s\n", env.Version)
	fmt.Printf("Commit:    %s\n", env.CommitHash)
	fmt.Printf("Build Time: %s\n", env.BuildTime)
	fmt.Println(" ")
}
