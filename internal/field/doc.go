// Package field runs a record variant's extraction operations over a parsed
// page and assembles the ordered result record.
//
// Each variant declares its operations once, as a Set. An operation returns a
// Result tagged as a value, as unavailable (the page layout does not carry
// the field) or as a failure. Dispatch turns unavailable results into nil
// values and aborts on the first failure, so a record is either complete or
// not produced at all.
package field
