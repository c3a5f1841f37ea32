// Package cli implements the mc-elo command-line interface.
//
// The cli package provides the Cobra-based CLI with subcommands for scraping
// an event from the pairing site, recomputing ratings from the stored
// history, and displaying rankings and registered events in text or JSON
// form. It coordinates the fetch, scrape, registry, and rating packages.
package cli
