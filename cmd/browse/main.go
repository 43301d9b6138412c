// Command browse fetches a URL and prints the text content of its
// document, following the same navigate/parse path the browser package
// exposes to library callers. Grounded on the teacher's example/main.go
// shape (slog setup, os.Args-driven entry point) adapted from an HTTP
// server bootstrap to a one-shot CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dpotapov/browser/browser"
	"github.com/dpotapov/browser/httpclient"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: browse <url>")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	client := httpclient.New(
		httpclient.WithUserAgent("browser/1.0"),
		httpclient.WithLogger(logger),
	)

	doc, err := browser.Open(context.Background(), client, os.Args[1], logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	fmt.Printf("status: %d\n", doc.Status)
	fmt.Printf("charset: %s\n", doc.Charset)
	fmt.Printf("base: %s\n", doc.BaseURI())
	fmt.Println("---")
	fmt.Println(doc.Root.TextContent())
}
