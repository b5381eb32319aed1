// Command generate_kit runs the launch kit pipeline from the terminal.
//
//	go run ./cmd/generate_kit -idea "A smart dog collar" -file brief.pdf
//	go run ./cmd/generate_kit -idea "..." -token "$GOOGLE_ACCESS_TOKEN"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"marketforge-be/internal/bootstrap"
	"marketforge-be/internal/config"
	"marketforge-be/internal/dto"
	"marketforge-be/internal/pkg/logger"

	"github.com/fatih/color"
	"go.uber.org/zap/zapcore"
)

func main() {
	idea := flag.String("idea", "", "product idea (required)")
	file := flag.String("file", "", "optional PDF, DOCX or text file describing the product")
	token := flag.String("token", "", "Google OAuth access token; when set the schedule is pushed to Calendar")
	asJSON := flag.Bool("json", false, "print the launch kit as JSON")
	verbose := flag.Bool("v", false, "log pipeline progress")
	flag.Parse()

	if strings.TrimSpace(*idea) == "" {
		color.Red("-idea is required")
		flag.Usage()
		os.Exit(2)
	}

	level := zapcore.WarnLevel
	if *verbose {
		level = zapcore.DebugLevel
	}
	sysLogger := logger.NewConsoleLogger(level)
	defer sysLogger.Sync()

	cfg := config.Load()
	svc, closers, err := bootstrap.NewLaunchKitService(cfg, sysLogger)
	if err != nil {
		color.Red("Bootstrap failed: %v", err)
		os.Exit(1)
	}
	defer func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	req := &dto.GenerateLaunchKitRequest{ProductIdea: *idea}
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			color.Red("Cannot read %s: %v", *file, err)
			os.Exit(1)
		}
		req.Document = &dto.UploadedDocument{
			Filename:    filepath.Base(*file),
			ContentType: mime.TypeByExtension(filepath.Ext(*file)),
			Data:        data,
		}
	}

	color.Cyan("Generating launch kit for %q ...", *idea)
	kit, err := svc.Generate(ctx, req)
	if err != nil {
		color.Red("Generation failed: %v", err)
		os.Exit(1)
	}

	if *asJSON {
		b, _ := json.MarshalIndent(kit, "", "  ")
		fmt.Println(string(b))
	} else {
		printKit(kit)
	}

	if *token == "" {
		return
	}

	entries := make([]dto.ScheduleEntryRequest, 0, len(kit.Schedule))
	for _, e := range kit.Schedule {
		entries = append(entries, dto.ScheduleEntryRequest{Day: e.Day, Time: e.Time, Content: e.Content})
	}
	color.Cyan("\nPushing %d entries to Google Calendar ...", len(entries))
	res, err := svc.Schedule(ctx, &dto.ScheduleLaunchKitRequest{
		KitId:       kit.Id.String(),
		ProductIdea: *idea,
		Schedule:    entries,
		AccessToken: *token,
	})
	if err != nil {
		color.Red("Scheduling failed: %v", err)
		os.Exit(1)
	}
	for _, c := range res.Created {
		color.Green("  %s -> %s (%s)", c.Day, c.EventId, c.Start.Format("Mon Jan 2 15:04 MST"))
	}
	for _, s := range res.Skipped {
		color.Yellow("  skipped %s: %s", s.Day, s.Reason)
	}
}

func printKit(kit *dto.GenerateLaunchKitResponse) {
	section := color.New(color.FgYellow, color.Bold)

	section.Println("\n== Market Analysis ==")
	fmt.Println(kit.MarketAnalysis)

	section.Println("\n== Product Copy ==")
	fmt.Println(kit.ProductCopy)

	section.Println("\n== Ad Copy ==")
	fmt.Println(kit.AdCopy)

	section.Println("\n== Social Posts ==")
	for i, p := range kit.SocialPosts {
		fmt.Printf("%d. %s\n", i+1, p)
	}

	section.Println("\n== Schedule ==")
	if len(kit.Schedule) == 0 {
		color.Yellow("(no schedule)")
	}
	for _, e := range kit.Schedule {
		fmt.Printf("%-6s %-9s %s\n", e.Day, e.Time, e.Content)
	}

	if kit.UsedDocument {
		color.Green("\nGrounded on the uploaded document.")
	}
}
