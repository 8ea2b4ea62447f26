// Package scraper fetches procyclingstats pages and holds their parsed documents.
//
// A Page is bound to one validated URL. It starts unfetched; Update performs a
// single retrieval through a Fetcher, parses the markup with goquery and swaps
// the new document in only when the page is not the site's "Page not found"
// page. Reading the document of an unfetched page is an error, there is no
// implicit fetch.
package scraper
