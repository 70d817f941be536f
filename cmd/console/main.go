package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type ConsoleConfig struct {
	APIBaseURL string
	ProfileID  string // resume an existing profile when set
	Timeout    time.Duration
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		ProfileID:  os.Getenv("PROFILE_ID"),
		Timeout:    2 * time.Minute, // reviews can take a while
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API. Please ensure the API is running.\nTry: docker-compose up -d\n")
		os.Exit(1)
	}

	api := &apiClient{client: client, baseURL: cfg.APIBaseURL}

	var profileID uuid.UUID
	if cfg.ProfileID != "" {
		id, err := uuid.Parse(cfg.ProfileID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid PROFILE_ID: %v\n", err)
			os.Exit(1)
		}
		if _, err := api.getStatus(id); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to resume profile: %v\n", err)
			os.Exit(1)
		}
		profileID = id
	} else {
		status, err := api.createSession()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create session: %v\n", err)
			os.Exit(1)
		}
		profileID = status.ProfileID
		fmt.Printf("New profile %s (set PROFILE_ID to resume it)\n", profileID)
	}

	p := tea.NewProgram(NewConsoleUI(api, profileID),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
