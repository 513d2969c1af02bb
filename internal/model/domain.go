package model

import "fmt"

// Domain is one of the fixed financial categories a source is tagged with.
// Every harvested document inherits the domain of its source.
//
// Design decision: We use string-based constants rather than iota because
// the domain value is written verbatim into the catalog file and into
// storage paths; a string enum keeps the wire format and the Go code in
// one place.
type Domain string

// The full catalog taxonomy. Exactly these ten values are valid.
const (
	DomainStockEquity   Domain = "stock_equity"
	DomainMutualFundETF Domain = "mutual_fund_etf"
	DomainRealEstate    Domain = "real_estate"
	DomainFDRD          Domain = "fd_rd"
	DomainRetirement    Domain = "retirement"
	DomainGold          Domain = "gold"
	DomainForex         Domain = "forex"
	DomainLoansCredit   Domain = "loans_credit"
	DomainInsurance     Domain = "insurance"
	DomainTaxation      Domain = "taxation"
)

// Domains lists every valid domain in declaration order.
func Domains() []Domain {
	return []Domain{
		DomainStockEquity,
		DomainMutualFundETF,
		DomainRealEstate,
		DomainFDRD,
		DomainRetirement,
		DomainGold,
		DomainForex,
		DomainLoansCredit,
		DomainInsurance,
		DomainTaxation,
	}
}

// Validate reports whether d is one of the fixed categories.
func (d Domain) Validate() error {
	for _, known := range Domains() {
		if d == known {
			return nil
		}
	}
	return fmt.Errorf("unknown domain %q", string(d))
}

// String returns the catalog representation of the domain.
func (d Domain) String() string { return string(d) }

// Copyright classifies the redistribution status of a document.
type Copyright string

const (
	// CopyrightPublic marks documents published by government bodies whose
	// circulars and notifications are public records.
	CopyrightPublic Copyright = "public"

	// CopyrightRestricted marks documents with known redistribution limits.
	CopyrightRestricted Copyright = "restricted"

	// CopyrightUnknown is the default when the source organization is not
	// on the public-bodies allow list.
	CopyrightUnknown Copyright = "unknown"
)

// Audience describes who a document is written for.
type Audience string

const (
	AudienceInvestor  Audience = "investor"
	AudiencePolicy    Audience = "policy"
	AudienceEducation Audience = "education"
	AudienceResearch  Audience = "research"
	AudienceGeneral   Audience = "general"
)
