package clipper

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"text/template"
	"time"

	"recipebox/internal/llm"
	"recipebox/internal/planner"
	"recipebox/internal/recipe"
	"recipebox/internal/shared"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

//go:embed clipper_prompt.md
var clipperPrompt string

// Clipper fetches a web page and turns it into a user-owned recipe in the
// catalog.
type Clipper struct {
	textGen llm.TextGenerator
	recipes *recipe.Repository
}

// NewClipper creates a new Clipper instance.
func NewClipper(textGen llm.TextGenerator, recipes *recipe.Repository) *Clipper {
	return &Clipper{
		textGen: textGen,
		recipes: recipes,
	}
}

// ClipURL fetches the URL, extracts the recipe using the LLM, validates its
// aisle tags and saves it owned by the given user.
func (c *Clipper) ClipURL(ctx context.Context, url, ownerID string) (*recipe.Recipe, shared.AgentMeta, error) {
	start := time.Now()

	content, err := c.fetchAndCleanHTML(url)
	if err != nil {
		return nil, shared.AgentMeta{AgentName: "Clipper"}, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt, err := buildClipperPrompt(url, content)
	if err != nil {
		return nil, shared.AgentMeta{AgentName: "Clipper"}, err
	}

	resp, err := c.textGen.GenerateContent(ctx, prompt)
	meta := shared.AgentMeta{
		AgentName: "Clipper",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}
	if err != nil {
		return nil, meta, fmt.Errorf("ai extraction failed: %w", err)
	}

	var rec recipe.Recipe
	if err := json.Unmarshal([]byte(resp.Content), &rec); err != nil {
		return nil, meta, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, resp.Content)
	}

	rec.ID = uuid.NewString()
	rec.OwnerID = ownerID
	rec.CreatedAt = time.Now().UTC()
	validateAisles(&rec)

	if err := c.recipes.Save(ctx, rec); err != nil {
		return nil, meta, fmt.Errorf("failed to save clipped recipe: %w", err)
	}

	return &rec, meta, nil
}

// validateAisles normalizes recognized aisle tags to their canonical spelling
// and warns about the rest, so classification never silently misses a known
// aisle over casing drift.
func validateAisles(rec *recipe.Recipe) {
	for i, ing := range rec.Ingredients {
		if ing.Aisle == "" {
			continue
		}
		// planner owns the mapping table; recipes only carry the raw tag
		if a, ok := planner.ParseAisle(ing.Aisle); ok {
			rec.Ingredients[i].Aisle = a.String()
		} else {
			log.Printf("Warning: unknown aisle %q on ingredient %q of clipped recipe %q", ing.Aisle, ing.Name, rec.Title)
		}
	}
}

func (c *Clipper) fetchAndCleanHTML(url string) (string, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}

func buildClipperPrompt(url, content string) (string, error) {
	tmpl, err := template.New("Clipper").Parse(clipperPrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		URL     string
		Content string
	}{URL: url, Content: content})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
