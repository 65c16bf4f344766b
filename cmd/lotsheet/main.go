package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"lotsheet/internal"
	"lotsheet/internal/config"
	"lotsheet/internal/connectors"
	gmailconnector "lotsheet/internal/connectors/gmail"
	imapconnector "lotsheet/internal/connectors/imap"
	"lotsheet/internal/ocr"
	"lotsheet/internal/pipeline"
	"lotsheet/internal/presets"
	"lotsheet/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	processor := pipeline.NewProcessingService(db, cfg, makeRecognizer(cfg))

	cmd := os.Args[1]
	switch cmd {
	case "presets:set":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		building := fs.String("building", "", "building name")
		category := fs.String("category", "", "category name")
		project := fs.String("project", "", "project name")
		location := fs.String("location", "", "site location")
		contact := fs.String("contact", "", "site contact name")
		phone := fs.String("phone", "", "phone number")
		_ = fs.Parse(os.Args[2:])
		p := internal.Preset{
			Building:    *building,
			Category:    *category,
			Project:     *project,
			Location:    *location,
			SiteContact: *contact,
			Phone:       *phone,
		}
		must(presets.Validate(p))
		must(db.PutPreset(p))
		fmt.Printf("preset saved building=%s category=%s\n", p.Building, p.Category)
	case "presets:list":
		rows, err := db.ListPresets()
		must(err)
		for _, p := range rows {
			fmt.Printf("%s / %s: project=%q location=%q contact=%q phone=%q\n",
				p.Building, p.Category, p.Project, p.Location, p.SiteContact, p.Phone)
		}
		if len(rows) == 0 {
			fmt.Println("no presets yet; add one with presets:set")
		}
	case "presets:delete":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		building := fs.String("building", "", "building name")
		category := fs.String("category", "", "category name")
		_ = fs.Parse(os.Args[2:])
		if *building == "" || *category == "" {
			must(fmt.Errorf("--building and --category are required"))
		}
		must(db.DeletePreset(*building, *category))
		fmt.Printf("preset deleted building=%s category=%s\n", *building, *category)
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "gmail", "gmail|imap")
		label := fs.String("label", "INBOX", "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(os.Args[2:])
		conn, err := makeConnector(cfg, *provider)
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, conn)
		result, err := fetch.FetchAndStore(*label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d skipped=%d\n", *provider, result.Fetched, result.Stored, result.Skipped)
	case "mail:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "gmail", "gmail|imap")
		messageID := fs.String("messageId", "", "specific message-id")
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*messageID) != "" {
			res, err := processor.ProcessMailByProviderMessageID(*provider, *messageID)
			must(err)
			fmt.Printf("processed mail id=%d manifests=%d\n", res.MailID, res.Manifests)
			return
		}
		processedMail, storedManifests, err := processor.ProcessPendingMail(*batch, *provider)
		must(err)
		fmt.Printf("processed pending mail=%d manifests=%d\n", processedMail, storedManifests)
	case "manifest:add":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "manifest file (pdf, image or txt)")
		_ = fs.Parse(os.Args[2:])
		if *input == "" {
			must(fmt.Errorf("--input is required"))
		}
		row, err := processor.StoreManifestFile(*input)
		must(err)
		fmt.Printf("manifest stored id=%d file=%s\n", row.ID, row.FileName)
	case "manifest:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		manifestID := fs.Int("manifestId", 0, "specific manifest id")
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])
		if *manifestID != 0 {
			row, err := db.GetManifestByID(*manifestID)
			must(err)
			if row == nil {
				must(fmt.Errorf("manifest not found: id=%d", *manifestID))
			}
			res, err := processor.ProcessManifest(*row)
			must(err)
			fmt.Printf("processed manifest id=%d lines=%d records=%d\n", res.ManifestID, res.Lines, res.Records)
			return
		}
		processed, records, err := processor.ProcessPendingManifests(*batch)
		must(err)
		fmt.Printf("processed pending manifests=%d records=%d\n", processed, records)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		manifestID := fs.Int("manifestId", 0, "internal manifest id")
		building := fs.String("building", cfg.DefaultBuilding, "building preset key")
		category := fs.String("category", cfg.DefaultCategory, "category preset key")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *manifestID == 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--manifestId and --out are required"))
		}
		count, err := processor.ExportManifest(*manifestID, *building, *category, *out)
		must(err)
		fmt.Printf("exported %d rows to %s\n", count, *out)
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "manifest file (pdf, image or txt)")
		building := fs.String("building", cfg.DefaultBuilding, "building preset key")
		category := fs.String("category", cfg.DefaultCategory, "category preset key")
		template := fs.String("template", "", "template xlsx path (default TEMPLATE_PATH)")
		output := fs.String("output", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *output == "" {
			must(fmt.Errorf("--input and --output are required"))
		}
		count, err := processor.RunOnce(*input, *building, *category, *template, *output)
		must(err)
		fmt.Printf("run done rows=%d output=%s\n", count, *output)
	default:
		usage()
		os.Exit(1)
	}
}

// makeRecognizer returns nil when the binary was built without the ocr
// tag; image manifests then fail with a clear error at processing time.
func makeRecognizer(cfg config.Config) pipeline.LineRecognizer {
	reader, err := ocr.NewReader(cfg.OCRLanguage)
	if err != nil {
		return nil
	}
	return reader
}

func makeConnector(cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func usage() {
	fmt.Println("usage: lotsheet <command>")
	fmt.Println("commands:")
	fmt.Println("  presets:set --building=... --category=... --project=... --location=... --contact=... --phone=...")
	fmt.Println("  presets:list")
	fmt.Println("  presets:delete --building=... --category=...")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=50")
	fmt.Println("  mail:process --provider=gmail|imap [--messageId=...] [--batch=20]")
	fmt.Println("  manifest:add --input=manifest.pdf")
	fmt.Println("  manifest:process [--manifestId=1] [--batch=20]")
	fmt.Println("  export:xlsx --manifestId=1 --building=... --category=... --out=./out/result.xlsx")
	fmt.Println("  run --input=manifest.pdf --building=... --category=... --output=result.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
