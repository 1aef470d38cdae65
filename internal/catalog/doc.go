// Package catalog holds the publication list injected by the site
// generator: a read-only, ordered Catalog of Publication records, the
// lenient decoding rules for the JSON data file and a one-shot readiness
// signal for consumers that start before the data arrives.
package catalog
