package dataset

// Alias tables per domain: canonical field -> ordered candidate header
// names, loosest synonyms last. Header drift across monthly exports is
// reconciled here and nowhere else; downstream code only ever sees the
// canonical record fields.

var caseAliases = map[string][]string{
	"case_id":      {"Case ID", "CaseID", "Case Ref", "Case Reference", "Ticket ID", "Reference"},
	"created_date": {"Created Date", "Creation Date", "Date Created", "Date Received", "Date Logged", "Start Date"},
	"closed_date":  {"Closed Date", "Completed Date", "Date Closed", "Date Completed", "Resolution Date", "End Date"},
	"portfolio":    {"Portfolio", "Client", "Site"},
	"process":      {"Process", "Process Name", "Case Type", "Work Item Type"},
	"cycle_time":   {"Cycle Time", "Cycle Time (Days)", "Cycle Time Days", "Days To Complete", "Turnaround Days"},
	"location":     {"Location", "Office", "Region"},
	"scheme":       {"Scheme", "Scheme Name"},
	"team":         {"Team", "Team Name"},
	"shore_type":   {"Onshore/Offshore", "Onshore Offshore", "Shore"},
	"work_type":    {"Manual/Automated", "Manual or Automated", "Automation"},
	"critical":     {"Critical", "Critical Flag", "Is Critical"},
	"sla_met":      {"SLA Met", "Within SLA", "SLA Achieved"},
	"consent":      {"Consent", "Consent Flag", "Contact Consent"},
}

var caseHints = map[string][]string{
	"case_id":      {"case"},
	"created_date": {"created", "received"},
	"closed_date":  {"closed", "completed"},
	"portfolio":    {"portfolio"},
	"process":      {"process"},
	"cycle_time":   {"cycle"},
}

var complaintAliases = map[string][]string{
	"received_date":  {"Date Received", "Received Date", "Complaint Date", "Date Logged", "Created Date"},
	"portfolio":      {"Portfolio", "Client", "Site"},
	"process":        {"Process", "Process Name"},
	"parent_type":    {"Parent Case Type", "Case Type", "Parent Type"},
	"reason_text":    {"Complaint Reason", "Reason", "Complaint Summary", "Summary"},
	"rca_source":     {"Root Cause", "RCA", "Root Cause Details", "Complaint Details", "Details"},
	"rca1":           {"RCA1", "RCA 1", "Primary Root Cause"},
	"rca2":           {"RCA2", "RCA 2", "Secondary Root Cause"},
	"receipt_method": {"Receipt Method", "Method Received", "Channel"},
	"team":           {"Team", "Team Name"},
	"scheme":         {"Scheme", "Scheme Name"},
}

var complaintHints = map[string][]string{
	"received_date": {"received", "date"},
	"reason_text":   {"reason"},
	"rca_source":    {"root cause", "detail"},
}

var fpaAliases = map[string][]string{
	"review_date":   {"Review Date", "Date Reviewed", "QA Date", "Date"},
	"portfolio":     {"Portfolio", "Client", "Site"},
	"process":       {"Process", "Process Name", "Case Type"},
	"review_result": {"Review Result", "Result", "Outcome", "Pass/Fail", "FPA Result"},
	"case_comment":  {"Case Comment", "Comments", "Review Comments", "Feedback", "Notes"},
}

var fpaHints = map[string][]string{
	"review_result": {"result", "outcome"},
	"case_comment":  {"comment"},
}

var surveyAliases = map[string][]string{
	"response_date": {"Response Date", "Survey Date", "Date Completed", "Date"},
	"portfolio":     {"Portfolio", "Client", "Site"},
	"nps":           {"NPS", "NPS Score", "Recommend Score", "Likelihood to Recommend", "Score"},
	"promoters":     {"Promoters", "Promoter Count"},
	"passives":      {"Passives", "Passive Count"},
	"detractors":    {"Detractors", "Detractor Count"},
	"clarity":       {"Clarity", "Communication Clarity", "Was the communication clear"},
	"timescale":     {"Timescale", "Timescales", "Completed in expected timescale"},
	"handling":      {"Handling", "Case Handling", "Happy with how the case was handled"},
}

var surveyHints = map[string][]string{
	"nps":     {"recommend"},
	"clarity": {"clear"},
}
