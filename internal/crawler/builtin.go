package crawler

import (
	"fmt"
	"sort"

	"github.com/finharvest/finharvest/internal/model"
)

// BuiltinSources returns the compiled built-in source table, keyed by the
// lowercase source selector used on the CLI.
//
// The seed URLs and URL patterns mirror the published layouts of the
// respective registries; pattern changes reclassify what gets harvested,
// so treat edits as behavior changes, not cleanups.
func BuiltinSources() (map[string]*SourceConfig, error) {
	sources := map[string]*SourceConfig{
		"sebi": {
			Name:   "SEBI",
			Domain: model.DomainStockEquity,
			Org:    "SEBI",
			SeedURLs: []string{
				"https://www.sebi.gov.in/investors.html",
				"https://www.sebi.gov.in/investors/educational-booklets.html",
				"https://www.sebi.gov.in/legal/circulars/",
			},
			AllowPatterns: []string{`sebi\.gov\.in/.+\.(pdf|csv|xlsx)$`},
			DenyPatterns:  []string{`login|careers`},
			MaxDepth:      2,
			MaxPages:      250,
		},
		"nse": {
			Name:   "NSE",
			Domain: model.DomainStockEquity,
			Org:    "NSE",
			SeedURLs: []string{
				"https://www.nseindia.com/invest",
				"https://www.nseindia.com/education/ncfm",
			},
			AllowPatterns: []string{`nseindia\.com/.+\.(pdf|csv|xlsx)$`},
			DenyPatterns:  []string{`live market`},
			MaxDepth:      2,
			MaxPages:      200,
		},
		"amfi": {
			Name:   "AMFI",
			Domain: model.DomainMutualFundETF,
			Org:    "AMFI",
			SeedURLs: []string{
				"https://www.amfiindia.com/investor-corner",
				"https://www.amfiindia.com/investor-awareness",
			},
			AllowPatterns: []string{`amfiindia\.com/.+\.(pdf|csv|xlsx)$`},
			MaxDepth:      2,
			MaxPages:      200,
		},
		"rbi_sgb": {
			Name:   "RBI_SGB",
			Domain: model.DomainGold,
			Org:    "RBI",
			SeedURLs: []string{
				"https://www.rbi.org.in/Scripts/FAQsView.aspx?Id=138",
				"https://www.rbi.org.in/Scripts/BS_ViewMasCirculardetails.aspx?Id=5223",
			},
			AllowPatterns: []string{`rbi\.org\.in/.+\.(pdf|csv|xlsx)$`},
			MaxDepth:      2,
			MaxPages:      200,
		},
		"income_tax": {
			Name:   "INCOME_TAX",
			Domain: model.DomainTaxation,
			Org:    "CBDT",
			SeedURLs: []string{
				"https://incometaxindia.gov.in/Pages/communications/circulars.aspx",
				"https://incometaxindia.gov.in/Pages/communications/notifications.aspx",
				"https://www.incometax.gov.in/iec/foportal/help/income-tax-slabs",
			},
			AllowPatterns: []string{`(incometax|incometaxindia)\.(gov)\.in/.+\.(pdf|csv|xlsx)$`},
			MaxDepth:      2,
			MaxPages:      200,
		},
	}

	for key, cfg := range sources {
		if err := cfg.Compile(); err != nil {
			return nil, fmt.Errorf("builtin source %s: %w", key, err)
		}
	}
	return sources, nil
}

// SourceNames returns the sorted selectors of the built-in sources.
func SourceNames() []string {
	sources, err := BuiltinSources()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
