// Package cli implements the command-line interface for pcs.
//
// The cli package provides the Cobra-based CLI for scraping rider and race
// pages from procyclingstats.com, formatting the records as text or JSON,
// sorting table rows and saving snapshots. Several pages are scraped in
// parallel, bounded by the configured worker count.
package cli
