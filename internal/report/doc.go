// Package report renders harvest run summaries.
package report
