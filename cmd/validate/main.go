package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jwebster45206/wild-trails/pkg/content"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <content-dir>\n", os.Args[0])
		os.Exit(1)
	}

	dir := os.Args[1]
	// Skipped catalog rows are reported as warnings on stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	validator := &ContentValidator{logger: logger}

	if err := validator.validateDir(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Content is valid!")
}

type ContentValidator struct {
	logger *slog.Logger
	errors []string
}

func (v *ContentValidator) validateDir(dir string) error {
	fmt.Printf("Validating %s...\n", dir)

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to read content directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	catalog, err := content.LoadDir(dir, v.logger)
	if err != nil {
		return err
	}

	v.errors = nil
	if len(catalog.Events()) == 0 {
		v.addError("catalog has no events")
	}
	for _, issue := range catalog.Validate() {
		v.addError(issue)
	}
	v.validateReachability(catalog)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", dir, strings.Join(v.errors, "\n"))
	}

	fmt.Printf("%d events, %d collectibles\n", len(catalog.Events()), len(catalog.Collectibles()))
	return nil
}

// validateReachability walks the graph from the start event and reports
// events no choice can lead to, and collectibles no outcome unlocks.
func (v *ContentValidator) validateReachability(catalog *content.Catalog) {
	start := catalog.StartEventID()
	if start == content.EndOfSession {
		return
	}

	seen := map[int]bool{start: true}
	unlocked := make(map[int]bool)
	queue := []int{start}
	for len(queue) > 0 {
		ev, err := catalog.Event(queue[0])
		queue = queue[1:]
		if err != nil {
			continue
		}
		for _, choice := range ev.Choices {
			for _, out := range choice.Outcomes {
				if out.UnlockID > 0 {
					unlocked[out.UnlockID] = true
				}
				if out.NextEventID != content.EndOfSession && !seen[out.NextEventID] {
					seen[out.NextEventID] = true
					queue = append(queue, out.NextEventID)
				}
			}
		}
	}

	for _, ev := range catalog.Events() {
		if !seen[ev.ID] {
			v.addError(fmt.Sprintf("event %d is unreachable from start event %d", ev.ID, start))
		}
	}
	for _, item := range catalog.Collectibles() {
		if !unlocked[item.ID] {
			v.addError(fmt.Sprintf("collectible %d (%s) is never unlocked by a reachable outcome", item.ID, item.Name))
		}
	}
}

func (v *ContentValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}
