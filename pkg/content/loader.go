package content

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog file names inside a content directory.
const (
	EventsFile       = "events.csv"
	CollectiblesFile = "collections.csv"
	YAMLCatalogFile  = "catalog.yaml"
	ArtworkDir       = "collections"
)

// Event CSV layout: id,name,text,scene followed by one block of
// choiceFields per choice, then an optional alternate-outcome block of
// altFields per choice.
const (
	eventHeadFields = 4
	choiceFields    = 6 // label,result,probability,reward,next,unlock
	altFields       = 5 // result,probability,reward,next,unlock
	minEventFields  = eventHeadFields + ChoicesPerEvent*choiceFields

	minCollectibleFields = 3 // id,name,description[,rarity][,image]
)

var artworkExts = []string{".png", ".jpg", ".jpeg"}

// ParseEventsCSV reads the tabular event catalog. The first row is a header.
// Rows with fewer fields than the schema requires, or with unparseable
// values, are skipped with a warning rather than failing the load.
func ParseEventsCSV(r io.Reader, logger *slog.Logger) ([]EventNode, error) {
	rows, err := readRows(r, logger)
	if err != nil {
		return nil, err
	}

	var events []EventNode
	for i, row := range rows {
		rowNum := i + 1
		if len(row) < minEventFields {
			logger.Warn("Skipping malformed event row", "row", rowNum, "fields", len(row), "required", minEventFields)
			continue
		}
		ev, err := parseEventRow(row)
		if err != nil {
			logger.Warn("Skipping invalid event row", "row", rowNum, "error", err)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseEventRow(row []string) (EventNode, error) {
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return EventNode{}, fmt.Errorf("invalid id %q: %w", row[0], err)
	}
	scene, err := ParseSceneTag(row[3])
	if err != nil {
		return EventNode{}, err
	}

	ev := EventNode{
		ID:    id,
		Name:  row[1],
		Text:  row[2],
		Scene: scene,
	}
	for c := 0; c < ChoicesPerEvent; c++ {
		start := eventHeadFields + c*choiceFields
		block := row[start : start+choiceFields]
		primary, err := parseOutcome(block[1:])
		if err != nil {
			return EventNode{}, fmt.Errorf("choice %d: %w", c, err)
		}
		choice := Choice{Label: block[0], Outcomes: []Outcome{primary}}

		altStart := minEventFields + c*altFields
		if len(row) >= altStart+altFields && !blank(row[altStart:altStart+altFields]) {
			alt, err := parseOutcome(row[altStart : altStart+altFields])
			if err != nil {
				return EventNode{}, fmt.Errorf("choice %d alternate: %w", c, err)
			}
			choice.Outcomes = append(choice.Outcomes, alt)
		}
		ev.Choices = append(ev.Choices, choice)
	}
	return ev, nil
}

// parseOutcome reads result,probability,reward,next,unlock.
func parseOutcome(fields []string) (Outcome, error) {
	prob, err := parseProbability(fields[1])
	if err != nil {
		return Outcome{}, err
	}
	reward, err := parseOptionalInt(fields[2])
	if err != nil {
		return Outcome{}, fmt.Errorf("invalid reward: %w", err)
	}
	next, err := parseOptionalInt(fields[3])
	if err != nil {
		return Outcome{}, fmt.Errorf("invalid next event: %w", err)
	}
	unlock, err := parseOptionalInt(fields[4])
	if err != nil {
		return Outcome{}, fmt.Errorf("invalid unlock: %w", err)
	}
	return Outcome{
		Text:        fields[0],
		Probability: prob,
		Reward:      reward,
		NextEventID: next,
		UnlockID:    unlock,
	}, nil
}

// parseProbability accepts "0.7", "70%" or an empty cell (certain).
func parseProbability(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	if pct, ok := strings.CutSuffix(raw, "%"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid probability %q: %w", raw, err)
		}
		return v / 100, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid probability %q: %w", raw, err)
	}
	return v, nil
}

func parseOptionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// ParseCollectiblesCSV reads the collectible table. A fourth rarity column,
// if present, is ignored: rarity always follows the id. A fifth column is
// taken as the artwork reference.
func ParseCollectiblesCSV(r io.Reader, logger *slog.Logger) ([]Collectible, error) {
	rows, err := readRows(r, logger)
	if err != nil {
		return nil, err
	}

	var items []Collectible
	for i, row := range rows {
		rowNum := i + 1
		if len(row) < minCollectibleFields {
			logger.Warn("Skipping malformed collectible row", "row", rowNum, "fields", len(row), "required", minCollectibleFields)
			continue
		}
		id, err := strconv.Atoi(row[0])
		if err != nil {
			logger.Warn("Skipping collectible row with invalid id", "row", rowNum, "id", row[0])
			continue
		}
		item := Collectible{ID: id, Name: row[1], Description: row[2]}
		if len(row) >= 5 {
			item.ImageRef = row[4]
		}
		items = append(items, item)
	}
	return items, nil
}

// readRows returns every data row after the header, skipping blank lines
// and rows the CSV reader cannot parse.
func readRows(r io.Reader, logger *slog.Logger) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var rows [][]string
	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				logger.Warn("Skipping unparseable catalog row", "line", parseErr.Line, "error", err)
				continue
			}
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		if header {
			header = false
			continue
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if blank(record) {
			continue
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

type yamlCatalog struct {
	Events       []EventNode   `yaml:"events"`
	Collectibles []Collectible `yaml:"collectibles"`
}

// ParseYAML reads the structured catalog format. Unlike the CSV loader it
// does not skip bad entries: a malformed document is a content error.
func ParseYAML(r io.Reader) ([]EventNode, []Collectible, error) {
	var doc yamlCatalog
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to decode yaml catalog: %v", ErrContent, err)
	}
	for i, ev := range doc.Events {
		scene, err := ParseSceneTag(string(ev.Scene))
		if err != nil {
			return nil, nil, &ContentError{Kind: "event", ID: ev.ID, Reason: err.Error()}
		}
		doc.Events[i].Scene = scene
	}
	return doc.Events, doc.Collectibles, nil
}

// LoadDir builds a catalog from a content directory. catalog.yaml wins when
// present; otherwise events.csv and collections.csv are read. Collectibles
// without an artwork reference pick up <id>.png/.jpg/.jpeg from the
// collections/ subdirectory.
func LoadDir(dir string, logger *slog.Logger) (*Catalog, error) {
	var (
		events []EventNode
		items  []Collectible
		err    error
	)

	yamlPath := filepath.Join(dir, YAMLCatalogFile)
	if f, openErr := os.Open(yamlPath); openErr == nil {
		events, items, err = ParseYAML(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		logger.Debug("Loaded yaml catalog", "path", yamlPath)
	} else {
		events, err = parseCSVFile(filepath.Join(dir, EventsFile), logger, ParseEventsCSV)
		if err != nil {
			return nil, err
		}
		items, err = parseCSVFile(filepath.Join(dir, CollectiblesFile), logger, ParseCollectiblesCSV)
		if err != nil {
			return nil, err
		}
	}

	attachArtwork(filepath.Join(dir, ArtworkDir), items, logger)

	catalog, err := NewCatalog(events, items)
	if err != nil {
		return nil, err
	}
	logger.Info("Catalog loaded", "dir", dir, "events", len(events), "collectibles", len(items))
	return catalog, nil
}

func parseCSVFile[T any](path string, logger *slog.Logger, parse func(io.Reader, *slog.Logger) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return parse(f, logger)
}

func attachArtwork(artDir string, items []Collectible, logger *slog.Logger) {
	entries, err := os.ReadDir(artDir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read artwork directory", "dir", artDir, "error", err)
		}
		return
	}

	byID := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !isArtwork(ext) {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSuffix(name, filepath.Ext(name)))
		if err != nil {
			continue
		}
		if _, seen := byID[id]; !seen {
			byID[id] = "/" + ArtworkDir + "/" + name
		}
	}

	for i := range items {
		if items[i].ImageRef != "" {
			continue
		}
		if ref, ok := byID[items[i].ID]; ok {
			items[i].ImageRef = ref
		}
	}
}

func isArtwork(ext string) bool {
	for _, candidate := range artworkExts {
		if ext == candidate {
			return true
		}
	}
	return false
}
