// Package sitetext provides a polite, bounded website text crawler.
// It discovers pages either from a site's sitemaps or by following
// same-origin links, fetches them with adaptive pacing and retries,
// extracts the main text, and persists the collected documents.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, sqlite/), and the
// crawl orchestration lives in crawl/.
package sitetext
