// Package services implements the driving ports: extraction over one
// text, ingest of files and document sources into the stores, and the
// read side over stored results (listing, summary report, export).
package services
