// Package main provides the entry point for the finharvest CLI.
//
// finharvest crawls a fixed set of Indian financial regulators and market
// bodies, harvesting circulars, investor-education material, and datasets
// into a local content catalog.
//
// Usage:
//
//	finharvest harvest --source sebi,amfi --out ./data
//	finharvest stats --out ./data
//
// See --help for all available options.
package main

// main is the entry point for finharvest.
func main() {
	Execute()
}
