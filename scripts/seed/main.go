// Command seed loads a catalog fixture file into a running API instance.
// Records are posted through the public endpoints so the same validation
// applies as for interactive use.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type fixture struct {
	Classrooms  []json.RawMessage `json:"classrooms"`
	Instructors []json.RawMessage `json:"instructors"`
	Students    []json.RawMessage `json:"students"`
	Subjects    []json.RawMessage `json:"subjects"`
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:8080/api/v1", "API base URL")
	file := flag.String("file", "seed.json", "catalog fixture file")
	flag.Parse()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read fixture: %v", err)
	}

	var fix fixture
	if err := json.Unmarshal(raw, &fix); err != nil {
		log.Fatalf("parse fixture: %v", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	// Classrooms and instructors first: offerings reference both by name/code.
	groups := []struct {
		path    string
		records []json.RawMessage
	}{
		{"/classrooms", fix.Classrooms},
		{"/instructors", fix.Instructors},
		{"/students", fix.Students},
		{"/subjects", fix.Subjects},
	}

	for _, group := range groups {
		ok, failed := 0, 0
		for _, record := range group.records {
			if err := post(client, *baseURL+group.path, record); err != nil {
				failed++
				log.Printf("%s: %v", group.path, err)
				continue
			}
			ok++
		}
		fmt.Printf("%-12s %d created, %d failed\n", group.path, ok, failed)
	}
}

func post(client *http.Client, url string, payload json.RawMessage) error {
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}
