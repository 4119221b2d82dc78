package main

import (
	"context"
	"flag"
	"fmt"
	"html"
	"log"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"github.com/loganlanou/phishdesk/internal/scenario"
	"github.com/loganlanou/phishdesk/internal/store"
	"github.com/loganlanou/phishdesk/internal/templates"
	"github.com/loganlanou/phishdesk/storage"
)

func main() {
	_ = godotenv.Load()

	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	listLimit := listCmd.Int("limit", 20, "Maximum number of templates to list")

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedCount := seedCmd.Int("count", 5, "Number of fake templates to create")
	seedDryRun := seedCmd.Bool("dry-run", false, "Print the templates without creating them")

	draftsCmd := flag.NewFlagSet("drafts", flag.ExitOnError)
	testCmd := flag.NewFlagSet("test", flag.ExitOnError)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		listCmd.Parse(os.Args[2:])
		runList(*listLimit)
	case "seed":
		seedCmd.Parse(os.Args[2:])
		runSeed(*seedCount, *seedDryRun)
	case "drafts":
		draftsCmd.Parse(os.Args[2:])
		runDrafts()
	case "test":
		testCmd.Parse(os.Args[2:])
		runTest()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Template Tool - Inspect and seed the remote template store")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  templates list                 List templates in the store")
	fmt.Println("  templates seed -count <n>      Create n fake templates")
	fmt.Println("  templates seed -dry-run        Preview fake templates")
	fmt.Println("  templates drafts               List unsaved editor drafts")
	fmt.Println("  templates test                 Test connection to the store")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  STORE_URL       Remote store base URL (default: http://localhost:3333)")
	fmt.Println("  STORE_API_KEY   API key for the store")
	fmt.Println("  DB_PATH         Local draft database path (default: ./db/phishdesk.db)")
}

func getClient() *store.Client {
	url := os.Getenv("STORE_URL")
	if url == "" {
		url = "http://localhost:3333"
	}
	return store.NewClient(url, os.Getenv("STORE_API_KEY"), 30*time.Second)
}

func runList(limit int) {
	client := getClient()

	list, err := client.Templates(context.Background())
	if err != nil {
		log.Fatalf("Failed to list templates: %v", err)
	}

	if len(list) == 0 {
		fmt.Println("No templates found.")
		return
	}

	fmt.Printf("Found %d templates:\n\n", len(list))
	fmt.Printf("%-6s  %-40s  %-8s  %-20s\n", "ID", "Name", "Files", "Modified")
	fmt.Println(strings.Repeat("-", 80))

	for i, t := range list {
		if i >= limit {
			fmt.Printf("\n... and %d more (use -limit to see more)\n", len(list)-limit)
			break
		}

		name := t.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		fmt.Printf("%-6d  %-40s  %-8d  %-20s\n", t.ID, name, len(t.Attachments), t.ModifiedDate.Format(time.DateTime))
	}
}

// fakeTemplate builds a plausible phishing template for a random scenario
func fakeTemplate() templates.Template {
	id := gofakeit.RandomString(scenario.Known())
	company := gofakeit.Company()
	pitch := gofakeit.HackerPhrase()
	signer := gofakeit.Name()

	return templates.Template{
		Name:           fmt.Sprintf("%s - %s", scenario.Label(id), company),
		Subject:        fmt.Sprintf("%s: %s", scenario.Label(id), pitch),
		EnvelopeSender: scenario.Sender(id).String(),
		Text:           fmt.Sprintf("%s\n\nContinue here: %s\n\n%s", pitch, templates.URLToken, signer),
		HTML: fmt.Sprintf(`<html><body><p>%s</p><p><a href="%s">Continue</a></p><p>%s</p>%s</body></html>`,
			html.EscapeString(pitch), templates.URLToken, html.EscapeString(signer), templates.TrackerToken),
		Attachments: []templates.Attachment{},
	}
}

func runSeed(count int, dryRun bool) {
	if count <= 0 {
		log.Fatalf("Error: -count must be positive")
	}

	if dryRun {
		fmt.Println("=== DRY RUN ===")
		for range count {
			t := fakeTemplate()
			fmt.Printf("  %s\n    From: %s\n    Subject: %s\n", t.Name, t.EnvelopeSender, t.Subject)
		}
		return
	}

	client := getClient()
	ctx := context.Background()

	created := 0
	for range count {
		t := fakeTemplate()
		if _, err := client.CreateTemplate(ctx, t); err != nil {
			fmt.Printf("  FAILED %s: %s\n", t.Name, store.ErrorMessage(err, err.Error()))
			continue
		}
		fmt.Printf("  created %s\n", t.Name)
		created++
	}

	fmt.Printf("\nCreated %d of %d templates\n", created, count)
}

func runDrafts() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./db/phishdesk.db"
	}

	db, err := storage.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	drafts, err := db.ListDrafts(context.Background())
	if err != nil {
		log.Fatalf("Failed to list drafts: %v", err)
	}

	if len(drafts) == 0 {
		fmt.Println("No unsaved drafts.")
		return
	}

	fmt.Printf("%-26s  %-6s  %-8s  %-20s\n", "Session", "Mode", "Template", "Updated")
	fmt.Println(strings.Repeat("-", 70))
	for _, d := range drafts {
		template := "-"
		if d.TemplateID != 0 {
			template = fmt.Sprint(d.TemplateID)
		}
		fmt.Printf("%-26s  %-6s  %-8s  %-20s\n", d.ID, d.Mode, template, d.UpdatedAt.Local().Format(time.DateTime))
	}
}

func runTest() {
	client := getClient()
	fmt.Printf("Testing connection to %s...\n", client.BaseURL())

	list, err := client.Templates(context.Background())
	if err != nil {
		log.Fatalf("Connection failed: %v", err)
	}

	fmt.Printf("Connection OK, %d templates visible\n", len(list))
}
