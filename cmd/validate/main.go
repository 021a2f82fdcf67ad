package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/bracket-wrap/pkg/bracket"
	"github.com/jwebster45206/bracket-wrap/pkg/slides"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <slides.json> [teams.json]\n", os.Args[0])
		os.Exit(1)
	}

	validator := &SlidesValidator{out: os.Stdout}
	if len(os.Args) == 3 {
		if err := validator.loadTeams(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load teams: %v\n", err)
			os.Exit(1)
		}
	}

	if err := validator.validateFile(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Slides file is valid!")
}

// SlidesValidator checks a slides payload the way the data API will serve it.
type SlidesValidator struct {
	out   io.Writer
	teams bracket.TeamIndex
}

func (v *SlidesValidator) loadTeams(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	var teams []bracket.Team
	if err := strictDecode(data, &teams); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}
	v.teams = bracket.IndexTeams(teams)
	return nil
}

func (v *SlidesValidator) validateFile(filename string) error {
	fmt.Fprintf(v.out, "Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("slides file must have .json extension: %s", baseName)
	}
	id := strings.TrimSuffix(baseName, ".json")
	if !isValidID(id) {
		return fmt.Errorf("slides filename '%s' must be a lowercase bracket id (letters, digits, - and _)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var payload bracket.SlidesData
	if err := strictDecode(data, &payload); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	if payload.Bracket.ID != id {
		return fmt.Errorf("bracket id %q does not match filename %s", payload.Bracket.ID, baseName)
	}
	if err := payload.Validate(v.teams); err != nil {
		return fmt.Errorf("validation errors in %s: %w", filename, err)
	}

	reg, err := slides.Compose(&payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(v.out, "Story has %d slides:\n", reg.Len())
	for i := 0; i < reg.Len(); i++ {
		s, _ := reg.At(i)
		share := ""
		if s.ShareID() != "" {
			share = "  " + bracket.ShareURL(s.ShareID())
		}
		fmt.Fprintf(v.out, "  %2d. %-18s %s%s\n", i+1, s.ID(), s.Title(), share)
	}
	return nil
}

func strictDecode(data []byte, out any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

var validIDRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}
