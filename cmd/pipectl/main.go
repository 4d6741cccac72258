package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/hnrq/veloren-translate/cmd/pipectl/tui"
)

func main() {
	_ = godotenv.Load()

	apiURL := flag.String("url", "http://localhost:8080", "pipeline daemon URL")
	flag.Parse()

	program := tea.NewProgram(tui.NewModel(*apiURL))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
