// Command ingest uploads a document for a profile and queues it for
// reconciliation. With -map it instead prints the profile's mapping
// onto the given form fields.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rashidmajid/docuflow/internal/bootstrap"
	"github.com/rashidmajid/docuflow/internal/config"
)

func main() {
	profileID := flag.String("profile", "", "profile id the document belongs to")
	filePath := flag.String("file", "", "path of the document to upload")
	mimeType := flag.String("mime", "", "mime type; detected from the extension when empty")
	mapFields := flag.String("map", "", "comma-separated form field names to map instead of uploading")
	flag.Parse()

	if *profileID == "" {
		log.Fatal("missing -profile")
	}

	cfg := config.Load()
	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	if *mapFields != "" {
		runMap(ctx, app, *profileID, *mapFields)
		return
	}
	runUpload(ctx, app, *profileID, *filePath, *mimeType)
}

func runUpload(ctx context.Context, app *bootstrap.App, profileID, filePath, mimeType string) {
	if filePath == "" {
		log.Fatal("missing -file")
	}
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(filePath))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
	}

	doc, err := app.IngestUC.Upload(ctx, profileID, filepath.Base(filePath), mimeType, f)
	if err != nil {
		log.Fatalf("upload error: %v", err)
	}
	fmt.Printf("uploaded document %s (%s), queued for reconciliation\n", doc.ID, doc.Filename)
}

func runMap(ctx context.Context, app *bootstrap.App, profileID, rawFields string) {
	var fields []string
	for _, name := range strings.Split(rawFields, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}

	result, err := app.MapFormUC.MapProfile(ctx, profileID, fields)
	if err != nil {
		log.Fatalf("map error: %v", err)
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}
