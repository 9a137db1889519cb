// Package normalisers turns verdict files into plain text. One
// normaliser exists per supported format: docx (word/document.xml),
// pdf (per-page text) and plain text. The Registry dispatches on MIME
// type and tries the highest-priority normaliser first.
package normalisers
