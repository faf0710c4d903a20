// conneg is a CLI for running content negotiations from scripts.
// Each command performs a single operation, making it composable.
//
// Commands:
//
//	conneg negotiate -kind charset -header "utf-8;q=0.9, *;q=0.2" [-offers LIST] [-json]
//	conneg kinds
//
// Examples:
//
//	conneg negotiate -kind charset -header "utf-8, *;q=0.2" -offers "utf-8, iso-8859-5;w=0.5"
//	conneg negotiate -kind mediatype -header "text/*;q=0.8, application/json"
//
// When -offers is omitted, the configured default availability for the kind
// is used (see internal/config). Exit codes: 0 selected, 2 not acceptable,
// 1 any other error.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"conneg/internal/config"
	"conneg/internal/negotiation"
	"conneg/internal/variants"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "negotiate":
		runNegotiate(args)
	case "kinds":
		runKinds(args)
	case "-h", "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func runNegotiate(args []string) {
	fs := flag.NewFlagSet("negotiate", flag.ExitOnError)
	kind := fs.String("kind", negotiation.KindCharset, "negotiation kind: charset, encoding, language, mediatype")
	header := fs.String("header", "", "raw Accept-* header value; empty means the header was absent")
	offersFlag := fs.String("offers", "", "available representations (RFC 8941 list with w weights); defaults to configuration")
	asJSON := fs.Bool("json", false, "print the full selection as JSON")
	fs.Parse(args)

	negotiator, err := negotiation.ForKind(*kind)
	if err != nil {
		fatal(err)
	}

	offers, err := resolveOffers(*kind, *offersFlag)
	if err != nil {
		fatal(err)
	}

	sel, err := negotiator.Select(*header, offers)
	if err != nil {
		var notAcceptable *negotiation.NotAcceptableError
		if errors.As(err, &notAcceptable) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
		fatal(err)
	}

	if *asJSON {
		out := struct {
			Value    string `json:"value"`
			Weight   string `json:"weight"`
			Quality  string `json:"quality"`
			Position int    `json:"position"`
			Explicit bool   `json:"explicit"`
		}{sel.Value, sel.Weight.String(), sel.Quality.String(), sel.Position, sel.Explicit}
		json.NewEncoder(os.Stdout).Encode(out)
		return
	}
	fmt.Println(sel.Value)
}

func runKinds(args []string) {
	fs := flag.NewFlagSet("kinds", flag.ExitOnError)
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	for _, kind := range negotiation.KindNames() {
		fmt.Printf("%-10s %s\n", kind, cfg.Offers[kind])
	}
}

// resolveOffers parses the -offers flag, or falls back to configuration
// when the flag is empty. Configuration is only loaded on the fallback path
// so a fully flag-driven invocation needs no config at all.
func resolveOffers(kind, flagValue string) ([]negotiation.Offer, error) {
	if flagValue != "" {
		return variants.ParseOffers(flagValue)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg.OffersFor(kind)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `conneg - content negotiation from the command line

Usage:
  conneg negotiate -kind KIND -header VALUE [-offers LIST] [-json]
  conneg kinds

Commands:
  negotiate   Select the best representation for a header value
  kinds       List supported negotiation kinds and their configured offers

Offers use RFC 8941 list syntax with an optional w weight parameter:
  utf-8, iso-8859-5;w=0.5, unicode-1-1;w=0.2
`)
}
