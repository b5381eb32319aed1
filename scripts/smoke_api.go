package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
)

// Smoke test against a running server:
//
//	go run ./scripts -base http://localhost:8000/api -idea "A smart dog collar" -file brief.pdf

func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func do(req *http.Request) (*http.Response, map[string]interface{}, error) {
	client := &http.Client{Timeout: 10 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return resp, nil, fmt.Errorf("decode %q: %w", string(raw), err)
	}
	return resp, body, nil
}

func generateRequest(baseURL, idea, file string) (*http.Request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("product_idea", idea); err != nil {
		return nil, err
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		part, err := w.CreateFormFile("file", filepath.Base(file))
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/launch-kit/v1/generate", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, nil
}

func fail(format string, args ...interface{}) {
	color.Red(format, args...)
	os.Exit(1)
}

func main() {
	baseURL := flag.String("base", "http://localhost:8000/api", "API base URL")
	idea := flag.String("idea", "A smart collar that tracks a dog's activity and location", "product idea")
	file := flag.String("file", "", "optional product document")
	token := flag.String("token", "", "Google access token for the schedule step")
	flag.Parse()

	color.Cyan("Starting launch kit API smoke test against %s\n", *baseURL)

	// 1. Health
	color.Yellow("\n1. Health")
	req, _ := http.NewRequest(http.MethodGet, *baseURL+"/health", nil)
	resp, body, err := do(req)
	if err != nil {
		fail("Failed: %v", err)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	// 2. Generate
	color.Yellow("\n2. Generate launch kit")
	req, err = generateRequest(*baseURL, *idea, *file)
	if err != nil {
		fail("Failed to build request: %v", err)
	}
	start := time.Now()
	resp, body, err = do(req)
	if err != nil {
		fail("Failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		prettyPrint(body)
		fail("Status: %s", resp.Status)
	}
	color.Green("Status: %s (%s)", resp.Status, time.Since(start).Round(time.Second))
	prettyPrint(body)

	kit, _ := body["data"].(map[string]interface{})
	id, _ := kit["id"].(string)

	// 3. Show
	color.Yellow("\n3. Fetch kit %s", id)
	req, _ = http.NewRequest(http.MethodGet, *baseURL+"/launch-kit/v1/"+id, nil)
	resp, _, err = do(req)
	if err != nil {
		fail("Failed: %v", err)
	}
	color.Green("Status: %s", resp.Status)

	// 4. History
	color.Yellow("\n4. Recent kits")
	req, _ = http.NewRequest(http.MethodGet, *baseURL+"/launch-kit/v1?limit=5", nil)
	resp, _, err = do(req)
	if err != nil {
		fail("Failed: %v", err)
	}
	color.Green("Status: %s", resp.Status)

	// 5. Schedule the stored kit by id
	if *token == "" {
		color.Yellow("\n5. Schedule skipped (no -token)")
		return
	}
	color.Yellow("\n5. Push schedule to Google Calendar")
	payload, _ := json.Marshal(map[string]interface{}{
		"kit_id":       id,
		"access_token": *token,
	})
	req, _ = http.NewRequest(http.MethodPost, *baseURL+"/launch-kit/v1/schedule", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, body, err = do(req)
	if err != nil {
		fail("Failed: %v", err)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)
}
