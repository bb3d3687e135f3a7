// file: internals/features/ai/service/ai_service.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

/* =========================================================
   DRAFTING ASSISTANT

   Chat-completions client with a stub mode: without an API
   key every call is answered locally and deterministically,
   so development and CI never need the remote service.
   ========================================================= */

type DraftInput struct {
	Title       string
	Description string
	Category    string
	SchoolName  string
}

type DraftOutput struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	MetaTitle       string   `json:"meta_title"`
	MetaDescription string   `json:"meta_description"`
	SEOKeywords     []string `json:"seo_keywords"`
	Tags            []string `json:"tags"`
}

type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

func NewClient(apiKey, baseURL, model string) *Client {
	if apiKey == "" {
		log.Println("⚠️ [AI] no API key set, drafting assistant runs in stub mode")
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) stubMode() bool { return c.apiKey == "" }

// GenerateDraft turns a raw submission into a full article draft.
func (c *Client) GenerateDraft(ctx context.Context, in DraftInput) (*DraftOutput, error) {
	if c.stubMode() {
		return stubDraft(in), nil
	}

	prompt := fmt.Sprintf(
		"Write a school blog article from this submission.\nCategory: %s\nSchool: %s\nTitle: %s\nDetails: %s\n"+
			"Respond as JSON with keys: title, content, meta_title, meta_description, seo_keywords, tags.",
		in.Category, in.SchoolName, in.Title, in.Description)

	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var out DraftOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("assistant returned malformed draft: %w", err)
	}
	if out.Title == "" || out.Content == "" {
		return nil, fmt.Errorf("assistant returned an empty draft")
	}
	return &out, nil
}

// ImproveContent rewrites existing article content per instruction.
func (c *Client) ImproveContent(ctx context.Context, content, instruction string) (string, error) {
	if c.stubMode() {
		// stub keeps the text and records the request so the round trip is visible
		return content + "\n\n<!-- revision requested: " + instruction + " -->", nil
	}
	prompt := fmt.Sprintf("Rewrite the following article. Instruction: %s\n\n%s\n\nRespond with the rewritten article only.",
		instruction, content)
	return c.complete(ctx, prompt)
}

// GenerateSocialPost writes a short announcement for the networks.
func (c *Client) GenerateSocialPost(ctx context.Context, title, url string) (string, error) {
	if c.stubMode() {
		return fmt.Sprintf("📰 New on our blog: %s\n%s", title, url), nil
	}
	prompt := fmt.Sprintf("Write a one-paragraph social media announcement for a school blog post titled %q. "+
		"End with the link %s. Respond with the announcement only.", title, url)
	return c.complete(ctx, prompt)
}

/* ===================== transport ===================== */

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You write clear, warm articles for school community blogs."},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant request: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assistant request failed (%d)", resp.StatusCode)
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode assistant response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("assistant returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

/* ===================== stub mode ===================== */

func stubDraft(in DraftInput) *DraftOutput {
	title := strings.TrimSpace(in.Title)
	paragraphs := []string{
		fmt.Sprintf("%s shared some news with the community: %s.", in.SchoolName, strings.TrimRight(in.Description, ".")),
		"The story speaks for itself, and everyone involved deserves the recognition. More details and photos will follow on our channels.",
	}
	desc := in.Description
	if len(desc) > 300 {
		desc = desc[:300]
	}
	return &DraftOutput{
		Title:           title,
		Content:         strings.Join(paragraphs, "\n\n"),
		MetaTitle:       title,
		MetaDescription: desc,
		SEOKeywords:     []string{in.Category, "school", "community"},
		Tags:            []string{in.Category},
	}
}
