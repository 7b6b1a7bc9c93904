// Command florafinder identifies plants from photographs and reports their
// conservation status and habitat.
//
// Subcommands:
//
//	identify <image>   identify a local image (or --url) and optionally enrich the best match
//	enrich <name>      look up conservation status and habitat for a scientific name
//	status             report identification service health
//	serve              run the HTTP API
//	config init|validate
//
// Output is a table on a terminal and JSON otherwise; --json forces JSON.
package main
