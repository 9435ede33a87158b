package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
)

type TestClient struct {
	baseURL string
	client  *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the agent")
	testType := flag.String("test", "all", "Test type: all, health, agent-card, analyze, a2a, custom")
	product := flag.String("product", "", "Product name (for custom test)")
	desc := flag.String("desc", "", "Product description (for custom test)")
	reviewsPath := flag.String("reviews", "", "Path to a review/VOC file (for custom test)")
	flag.Parse()

	client := NewTestClient(*baseURL)

	printHeader("Listing Expert Agent - Test Suite")
	fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, *baseURL, colorReset)

	switch *testType {
	case "all":
		client.runAllTests()
	case "health":
		client.testHealthCheck()
	case "agent-card":
		client.testAgentCard()
	case "analyze":
		client.testAnalyze()
	case "a2a":
		client.testA2AListing()
	case "custom":
		if *product == "" || *desc == "" || *reviewsPath == "" {
			printError("Product, description and reviews are required for custom test. Use -product, -desc and -reviews flags")
			os.Exit(1)
		}
		reviews, err := os.ReadFile(*reviewsPath)
		if err != nil {
			printError(fmt.Sprintf("Failed to read reviews: %v", err))
			os.Exit(1)
		}
		client.testCustomListing(*product, *desc, string(reviews))
	default:
		printError(fmt.Sprintf("Unknown test type: %s", *testType))
		fmt.Println("\nAvailable tests: all, health, agent-card, analyze, a2a, custom")
		os.Exit(1)
	}
}

func (tc *TestClient) runAllTests() {
	tests := []struct {
		name string
		fn   func() bool
	}{
		{"Health Check", tc.testHealthCheck},
		{"Agent Card", tc.testAgentCard},
		{"Analyze Validation", tc.testAnalyzeValidation},
		{"Analyze", tc.testAnalyze},
		{"A2A Listing", tc.testA2AListing},
	}

	passed := 0
	failed := 0

	for _, test := range tests {
		if test.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Test Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)
	fmt.Printf("Total: %d\n", passed+failed)

	if failed > 0 {
		os.Exit(1)
	}
}

func (tc *TestClient) testHealthCheck() bool {
	printTestHeader("Testing Health Check Endpoint")

	url := fmt.Sprintf("%s/health", tc.baseURL)
	fmt.Printf("GET %s\n", url)

	resp, err := tc.client.Get(url)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		return false
	}

	if string(body) != "OK" {
		printError(fmt.Sprintf("Expected body 'OK', got '%s'", string(body)))
		return false
	}

	printSuccess("Health check passed")
	return true
}

func (tc *TestClient) testAgentCard() bool {
	printTestHeader("Testing Agent Card Endpoint")

	url := fmt.Sprintf("%s/.well-known/agent.json", tc.baseURL)
	fmt.Printf("GET %s\n", url)

	resp, err := tc.client.Get(url)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		fmt.Printf("Response: %s\n", string(body))
		return false
	}

	// Parse JSON to validate it's valid
	var agentCard map[string]interface{}
	if err := json.Unmarshal(body, &agentCard); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}

	// Check required fields
	requiredFields := []string{"name", "description", "url", "version", "capabilities", "skills"}
	for _, field := range requiredFields {
		if _, ok := agentCard[field]; !ok {
			printError(fmt.Sprintf("Missing required field: %s", field))
			return false
		}
	}

	printSuccess("Agent card is valid")
	printJSON(body)
	return true
}

const (
	sampleProduct = "Ergo Chair"
	sampleDesc    = "Ergonomic office chair with adjustable lumbar support and a breathable mesh back"
	sampleReviews = "The seat is too narrow for long days.\nArmrests wobble after a month.\nGreat lumbar support, my back pain is gone."
)

func (tc *TestClient) testAnalyzeValidation() bool {
	printTestHeader("Testing Analyze Validation")

	url := fmt.Sprintf("%s/api/analyze", tc.baseURL)
	fmt.Printf("POST %s\n", url)

	payload, _ := json.Marshal(map[string]interface{}{"productName": sampleProduct})
	resp, err := tc.client.Post(url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusBadRequest {
		printError(fmt.Sprintf("Expected status 400, got %d", resp.StatusCode))
		fmt.Printf("Response: %s\n", string(body))
		return false
	}

	printSuccess("Missing fields rejected before any model call")
	printJSON(body)
	return true
}

func (tc *TestClient) testAnalyze() bool {
	printTestHeader("Testing Analyze Endpoint")

	url := fmt.Sprintf("%s/api/analyze", tc.baseURL)
	fmt.Printf("POST %s\n", url)

	payload, _ := json.MarshalIndent(map[string]interface{}{
		"productName":       sampleProduct,
		"productDesc":       sampleDesc,
		"reviewFileContent": sampleReviews,
		"abaFileContent":    "ergonomic chair, 12000\noffice chair lumbar, 8000",
		"competitors": []map[string]string{
			{"title": "Mesh Office Chair", "bullets": "Breathable mesh back\nAdjustable headrest"},
		},
	}, "", "  ")

	resp, err := tc.client.Post(url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		fmt.Printf("Response: %s\n", string(body))
		return false
	}

	var results map[string]interface{}
	if err := json.Unmarshal(body, &results); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}

	for _, field := range []string{"keywordAnalysis", "competitorInsights", "reviewInsights", "listings"} {
		if _, ok := results[field]; !ok {
			printError(fmt.Sprintf("Missing required field: %s", field))
			return false
		}
	}

	printSuccess("Analysis completed")
	printJSON(body)
	return true
}

func (tc *TestClient) testA2AListing() bool {
	return tc.testCustomListing(sampleProduct, sampleDesc, sampleReviews)
}

func (tc *TestClient) testCustomListing(product, desc, reviews string) bool {
	printTestHeader("Testing A2A Listing Generation")

	url := fmt.Sprintf("%s/a2a/listing", tc.baseURL)
	fmt.Printf("POST %s\n", url)
	fmt.Printf("%sProduct:%s %s\n\n", colorCyan, colorReset, product)

	text := fmt.Sprintf("product: %s\ndescription: %s\nreviews: %s", product, desc, reviews)

	// Create JSON-RPC request
	request := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      fmt.Sprintf("test-%d", time.Now().Unix()),
		"method":  "message/send",
		"params": map[string]interface{}{
			"message": map[string]interface{}{
				"kind": "message",
				"role": "user",
				"parts": []map[string]interface{}{
					{
						"kind": "text",
						"text": text,
					},
				},
			},
			"configuration": map[string]interface{}{
				"blocking":            true,
				"acceptedOutputModes": []string{"text", "data"},
			},
		},
	}

	jsonData, _ := json.MarshalIndent(request, "", "  ")
	fmt.Printf("%sRequest:%s\n", colorYellow, colorReset)
	fmt.Println(string(jsonData))
	fmt.Println()

	resp, err := tc.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		fmt.Printf("Response: %s\n", string(body))
		return false
	}

	// Parse JSON-RPC response
	var response map[string]interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}

	if errObj, ok := response["error"]; ok && errObj != nil {
		printError("Request returned an error")
		errJSON, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Println(string(errJSON))
		return false
	}

	result, ok := response["result"].(map[string]interface{})
	if !ok {
		printError("Invalid result format")
		return false
	}

	status, ok := result["status"].(map[string]interface{})
	if !ok {
		printError("Invalid status format")
		return false
	}

	state, _ := status["state"].(string)
	if state != "completed" {
		printError(fmt.Sprintf("Expected state 'completed', got '%s'", state))
		return false
	}

	printSuccess("Listing generation completed successfully")

	// Display the report artifact as text
	if artifacts, ok := result["artifacts"].([]interface{}); ok && len(artifacts) > 0 {
		fmt.Printf("\n%sArtifacts:%s\n", colorPurple, colorReset)
		for _, a := range artifacts {
			artifact, ok := a.(map[string]interface{})
			if !ok {
				continue
			}
			fmt.Printf("%s- %v%s\n", colorGreen, artifact["name"], colorReset)
		}
		if first, ok := artifacts[0].(map[string]interface{}); ok {
			fmt.Println(strings.Repeat("=", 80))
			if parts, ok := first["parts"].([]interface{}); ok {
				for _, part := range parts {
					if p, ok := part.(map[string]interface{}); ok {
						if text, ok := p["text"].(string); ok {
							fmt.Println(text)
						}
					}
				}
			}
			fmt.Println(strings.Repeat("=", 80))
		}
	}

	return true
}

func printHeader(text string) {
	fmt.Printf("\n%s%s%s\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
}

func printTestHeader(text string) {
	fmt.Printf("%s[TEST] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 80))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}

func printJSON(data []byte) {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "", "  "); err == nil {
		fmt.Printf("\n%sResponse:%s\n%s\n", colorYellow, colorReset, prettyJSON.String())
	}
}
