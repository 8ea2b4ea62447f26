// Package pageurl converts user supplied paths into canonical procyclingstats.com
// URLs and validates them against the URL shape of each record variant.
//
// Every record variant owns a Pattern describing its legal relative paths
// (for example "rider/tadej-pogacar" with optional "/overview" or "/2023"
// suffixes). Absolute and Relative are pure string transforms; Relative
// output is the identifier used to decide record equality.
package pageurl
