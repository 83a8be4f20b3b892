package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

var baseURL = envOr("SMOKE_BASE_URL", "http://localhost:3000/api")

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 90 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func decode(body []byte) map[string]interface{} {
	var m map[string]interface{}
	json.Unmarshal(body, &m)
	return m
}

func main() {
	color.Cyan("Starting AI Gateway API Smoke Test\n")

	// 1. Register a throwaway user
	suffix := time.Now().UnixNano()
	email := fmt.Sprintf("smoke-%d@example.com", suffix)
	username := fmt.Sprintf("smoke%d", suffix)

	color.Yellow("\n[AUTH] 1. Register")
	resp, body, err := sendRequest("POST", "/auth/register", "", map[string]interface{}{
		"username": username,
		"email":    email,
		"password": "smoke-password",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	registerResp := decode(body)
	prettyPrint(registerResp)

	var token string
	if data, ok := registerResp["data"].(map[string]interface{}); ok {
		if tokens, ok := data["tokens"].(map[string]interface{}); ok {
			token, _ = tokens["accessToken"].(string)
		}
	}
	if token == "" {
		color.Red("No access token in register response")
		os.Exit(1)
	}

	// 2. Login with the same credentials
	color.Yellow("\n[AUTH] 2. Login")
	resp, body, err = sendRequest("POST", "/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "smoke-password",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 3. Profile round trip
	color.Yellow("\n[USER] 3. Get Profile")
	resp, body, err = sendRequest("GET", "/users/profile", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 4. Create a conversation
	color.Yellow("\n[AI] 4. Create Conversation")
	resp, body, err = sendRequest("POST", "/ai/conversations", token, map[string]interface{}{
		"title": "Smoke test conversation",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	createResp := decode(body)
	prettyPrint(createResp)

	var conversationID string
	if data, ok := createResp["data"].(map[string]interface{}); ok {
		if conv, ok := data["conversation"].(map[string]interface{}); ok {
			conversationID, _ = conv["id"].(string)
		}
	}

	// 5. Send a chat message (requires upstream AI credentials)
	color.Yellow("\n[AI] 5. Chat")
	resp, body, err = sendRequest("POST", "/ai/chat", token, map[string]interface{}{
		"message":        "Say hello in one short sentence.",
		"conversationId": conversationID,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 6. Usage statistics
	color.Yellow("\n[AI] 6. Usage")
	resp, body, err = sendRequest("GET", "/ai/usage", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 7. List conversations
	color.Yellow("\n[AI] 7. List Conversations")
	resp, body, err = sendRequest("GET", "/ai/conversations", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 8. Delete the conversation
	color.Yellow("\n[AI] 8. Delete Conversation")
	resp, body, err = sendRequest("DELETE", "/ai/conversations/"+conversationID, token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	color.Cyan("\nSmoke test finished")
}
