// Command smoke checks a running genescan API server end to end.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("GENESCAN_API")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Println("Starting smoke test against", baseURL)

	fmt.Println("1. Listing runs...")
	var list struct {
		Runs []struct {
			Name string `json:"name"`
		} `json:"runs"`
	}
	if !getJSON(client, baseURL+"/runs", &list) {
		fmt.Println("FAILED: list runs")
		os.Exit(1)
	}
	fmt.Printf("PASSED: list runs (%d found)\n", len(list.Runs))
	if len(list.Runs) == 0 {
		fmt.Println("No completed runs to inspect, done.")
		return
	}

	first := list.Runs[0].Name
	fmt.Println("2. Reading summary and results of", first)
	for _, p := range []string{"/summary", "/results"} {
		var body map[string]any
		if !getJSON(client, baseURL+"/runs/"+url.PathEscape(first)+p, &body) {
			fmt.Println("FAILED:", p)
			os.Exit(1)
		}
	}
	fmt.Println("PASSED: run detail")

	if len(list.Runs) > 1 {
		fmt.Println("3. Comparing", first, "with", list.Runs[1].Name)
		q := url.Values{"baseline": {first}, "candidate": {list.Runs[1].Name}}
		var body map[string]any
		if !getJSON(client, baseURL+"/compare?"+q.Encode(), &body) {
			fmt.Println("FAILED: compare")
			os.Exit(1)
		}
		fmt.Println("PASSED: compare")
	}
}

func getJSON(client *http.Client, u string, v any) bool {
	resp, err := client.Get(u)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(body))
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		fmt.Printf("Invalid JSON from %s: %v\n", u, err)
		return false
	}
	return true
}
