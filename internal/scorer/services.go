// Package scorer implements the discovery-assessment scoring engine: survey
// responses in, weighted advisory-service recommendations out.
//
// Score is a pure, total function. It performs no I/O, never logs and never
// returns an error; malformed or partial responses degrade to lower scores.
package scorer

// ServiceCode identifies one of the advisory service lines.
type ServiceCode string

const (
	Service365Method          ServiceCode = "365_method"
	ServiceManagementAccounts ServiceCode = "management_accounts"
	ServiceSystemsAudit       ServiceCode = "systems_audit"
	ServiceAutomation         ServiceCode = "automation"
	ServiceFractionalCFO      ServiceCode = "fractional_cfo"
	ServiceFractionalCOO      ServiceCode = "fractional_coo"
	ServiceCombinedAdvisory   ServiceCode = "combined_advisory"
	ServiceBusinessAdvisory   ServiceCode = "business_advisory"
	ServiceBenchmarking       ServiceCode = "benchmarking"
)

// ServiceDefinition is a catalogue entry.
type ServiceDefinition struct {
	Code ServiceCode `json:"code"`
	Name string      `json:"name"`
}

// catalogue order is also the tie-break order for equal scores.
var catalogue = [...]ServiceDefinition{
	{Code: Service365Method, Name: "Goal Alignment Programme"},
	{Code: ServiceManagementAccounts, Name: "Management Accounts"},
	{Code: ServiceSystemsAudit, Name: "Systems Audit"},
	{Code: ServiceAutomation, Name: "Automation Services"},
	{Code: ServiceFractionalCFO, Name: "Fractional CFO"},
	{Code: ServiceFractionalCOO, Name: "Fractional COO"},
	{Code: ServiceCombinedAdvisory, Name: "Combined CFO/COO Advisory"},
	{Code: ServiceBusinessAdvisory, Name: "Business Advisory & Exit Planning"},
	{Code: ServiceBenchmarking, Name: "Benchmarking Services"},
}

// Services returns a copy of the service catalogue in its canonical order.
func Services() []ServiceDefinition {
	out := make([]ServiceDefinition, len(catalogue))
	copy(out, catalogue[:])
	return out
}

// LookupService returns the catalogue entry for code.
func LookupService(code ServiceCode) (ServiceDefinition, bool) {
	for _, s := range catalogue {
		if s.Code == code {
			return s, true
		}
	}
	return ServiceDefinition{}, false
}
