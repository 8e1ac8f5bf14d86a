package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/fatih/color"
)

// Manual smoke test against a running instance:
//
//	go run ./scripts/smoke_api.go [baseURL]
//
// Walks the whole flow: direct chat, upload, RAG chat, history, sources.

var baseURL = "http://localhost:3000/api"

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

const sampleDocument = `Cats are mammals.

Dogs are mammals too.`

func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func postJSON(url string, body interface{}) (map[string]interface{}, error) {
	jsonBody, _ := json.Marshal(body)
	resp, err := http.Post(baseURL+url, "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeBody(resp)
}

func getJSON(url string) (map[string]interface{}, error) {
	resp, err := http.Get(baseURL + url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeBody(resp)
}

func uploadDocument(filename, content string) (map[string]interface{}, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(content)); err != nil {
		return nil, err
	}
	writer.Close()

	resp, err := http.Post(baseURL+"/document/v1/upload", writer.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeBody(resp)
}

func decodeBody(resp *http.Response) (map[string]interface{}, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("non-JSON response (%d): %s", resp.StatusCode, string(raw))
	}
	return parsed, nil
}

func step(name string, fn func() (map[string]interface{}, error)) map[string]interface{} {
	fmt.Printf("\n=== %s ===\n", yellow(name))
	res, err := fn()
	if err != nil {
		fmt.Printf("%s %v\n", red("FAIL:"), err)
		os.Exit(1)
	}
	prettyPrint(res)
	fmt.Println(green("OK"))
	return res
}

func main() {
	if len(os.Args) > 1 {
		baseURL = os.Args[1]
	}

	// 1. Direct chat before any document exists
	direct := step("direct chat (no documents)", func() (map[string]interface{}, error) {
		return postJSON("/chat/v1/ask", map[string]string{"question": "Hello"})
	})
	if direct["mode"] != "direct_chat" {
		fmt.Println(red("expected mode=direct_chat"))
		os.Exit(1)
	}
	sessionID, _ := direct["session_id"].(string)

	// 2. Upload a document
	step("upload document", func() (map[string]interface{}, error) {
		return uploadDocument("mammals.txt", sampleDocument)
	})

	// 3. Duplicate upload must be rejected
	dup := step("duplicate upload", func() (map[string]interface{}, error) {
		return uploadDocument("mammals.txt", sampleDocument)
	})
	if dup["success"] != false {
		fmt.Println(red("expected duplicate rejection"))
		os.Exit(1)
	}

	// 4. Same session is promoted to RAG on the next turn
	rag := step("rag chat (same session)", func() (map[string]interface{}, error) {
		return postJSON("/chat/v1/ask", map[string]string{
			"question":   "What is a cat?",
			"session_id": sessionID,
		})
	})
	if rag["mode"] != "rag_chat" {
		fmt.Println(red("expected mode=rag_chat"))
		os.Exit(1)
	}

	// 5. History keeps both turns
	step("session history", func() (map[string]interface{}, error) {
		return getJSON("/chat/v1/history/" + sessionID)
	})

	// 6. Corpus snapshot
	step("sources", func() (map[string]interface{}, error) {
		return getJSON("/document/v1/sources")
	})

	fmt.Println(green("\nAll smoke checks passed"))
}
