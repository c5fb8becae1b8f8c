// Package report renders analyses for people and programs: a plain text
// summary, a JSON document, a function overview and colored instruction
// tables.
package report
