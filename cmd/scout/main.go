// Scout is the Skincare Ingredient Scout service: a rule engine that flags
// skincare ingredient combinations likely to irritate or cancel each other
// out.
//
// Usage:
//
//	# Start the HTTP API and front end
//	scout serve
//
//	# Start with a configuration file
//	scout serve --config /etc/scout/config.yaml
//
//	# Check a routine from the command line
//	scout analyze retinol "glycolic acid"
//
//	# Validate a custom rules catalog
//	scout rules lint --file rules.yaml
//
//	# Browse recorded analyses
//	scout history query --status danger --since 24h
package main

func main() {
	Execute()
}
