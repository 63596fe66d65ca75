package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/minicross/minicross/internal/generator"
)

func main() {
	var (
		days         = flag.Int("days", 7, "number of days to generate")
		includeToday = flag.Bool("include-today", false, "start with today instead of tomorrow")
		wordsPath    = flag.String("words", "words.txt", "word list, one word per line")
		excludePath  = flag.String("exclude", "", "optional exclusion list, one word per line")
		tmplPath     = flag.String("templates", "templates.txt", "weekday grid templates")
		outPath      = flag.String("out", "puzzles.jsonl", "output JSONL path")
		placeholder  = flag.Bool("placeholder", false, "emit letter-count clues instead of calling Gemini")
	)
	flag.Parse()

	words, err := readLines(*wordsPath)
	if err != nil {
		log.Fatalf("read words: %v", err)
	}
	exclude := make(map[string]bool)
	if *excludePath != "" {
		lines, err := readLines(*excludePath)
		if err != nil {
			log.Fatalf("read exclusions: %v", err)
		}
		for _, w := range lines {
			exclude[strings.ToLower(strings.TrimSpace(w))] = true
		}
	}
	filler := generator.NewFiller(words, exclude)
	if filler.WordCount() == 0 {
		log.Fatalf("no usable words in %s", *wordsPath)
	}

	tf, err := os.Open(*tmplPath)
	if err != nil {
		log.Fatalf("open templates: %v", err)
	}
	templates, err := generator.ParseTemplates(tf)
	tf.Close()
	if err != nil {
		log.Fatalf("parse templates: %v", err)
	}

	ctx := context.Background()

	var cluer generator.Cluer = generator.PlaceholderCluer{}
	if !*placeholder {
		projectID := os.Getenv("GCP_PROJECT_ID")
		if projectID == "" {
			log.Fatal("GCP_PROJECT_ID not set (or pass -placeholder for letter-count clues)")
		}
		cluer, err = generator.NewGeminiCluer(ctx, projectID, os.Getenv("GCP_REGION"))
		if err != nil {
			log.Fatalf("init gemini: %v", err)
		}
	}

	// Puzzle dates roll over on US Pacific time, same as the server.
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		log.Fatalf("load timezone: %v", err)
	}
	start := time.Now().In(loc)
	if !*includeToday {
		start = start.AddDate(0, 0, 1)
	}

	records, err := generator.GenerateRange(ctx, filler, templates, cluer, start, *days)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}
	if len(records) == 0 {
		log.Fatal("no puzzles generated")
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("create %s: %v", *outPath, err)
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			log.Fatalf("write %s: %v", *outPath, err)
		}
	}
	log.Printf("wrote %d puzzles to %s", len(records), *outPath)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
