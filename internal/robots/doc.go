// Package robots gates crawling on robots.txt compliance.
//
// The Gate fetches and parses each origin's robots.txt at most once per
// Gate lifetime and evaluates request paths against the parsed ruleset for
// the crawler's user agent.
//
// Failure policy: any error retrieving or parsing robots.txt is treated as
// allow. This fail-open choice is deliberate crawler etiquette for a
// low-volume polite crawler - inability to retrieve the policy should not
// block harvesting public registries - and it matches the reference
// behavior. It is a policy decision, not an oversight.
package robots
