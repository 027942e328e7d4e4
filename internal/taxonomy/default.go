package taxonomy

// The default code order is the column order the bundled classifier was
// trained on. Do not reorder.
var defaultCodes = []string{
	"ACCT", "ADM", "ADVR", "ANLS", "ART", "BD", "CNST", "DSGN", "EDCN", "ENG",
	"FASH", "FIN", "GENB", "HCPR", "HR", "IT", "LGL", "MGMT", "MNFC", "MRKT",
	"OTHR", "PR", "PRJM", "PROD", "PRSR", "QA", "REAL", "RSCH", "SALE", "SCI",
	"SPRT", "SUPL", "TECH", "TRNS", "WRT",
}

// "scikit-learn" was listed under ANLS upstream. The hyphen is stripped by
// normalization so it never matched; it is left out rather than rewritten to
// keep detection identical.
func defaultKeywords() map[string][]string {
	return map[string][]string{
		"ACCT": {"accounting", "audit", "tax", "ledger", "reconciliation", "cpa", "billing"},
		"ADM":  {"administration", "office", "clerical", "data entry", "receptionist", "filing"},
		"ADVR": {"advertising", "media planning", "campaigns", "copywriting", "ad strategy"},
		"ANLS": {"data analysis", "statistics", "power bi", "tableau", "excel", "modeling", "insights", "pandas", "numpy", "r programming"},
		"ART":  {"graphic design", "illustration", "creative direction", "fine arts", "visuals"},
		"BD":   {"business development", "partnerships", "prospecting", "growth", "networking"},
		"CNST": {"construction", "civil engineering", "building", "safety", "site management"},
		"DSGN": {"ui ux", "product design", "figma", "sketch", "adobe xd", "prototyping"},
		"EDCN": {"education", "teaching", "training", "curriculum", "mentoring", "pedagogy"},
		"ENG":  {"engineering", "mechanical", "electrical", "structural", "cad", "blueprints"},
		"FASH": {"fashion", "apparel", "textiles", "merchandising", "styling", "garment"},
		"FIN":  {"finance", "investment", "banking", "portfolio", "equity", "trading", "valuation"},
		"GENB": {"general business", "operations", "entrepreneurship", "commerce", "business admin"},
		"HCPR": {"healthcare", "medical", "patient care", "clinical", "nursing", "diagnosis"},
		"HR":   {"human resources", "recruitment", "payroll", "onboarding", "employee relations"},
		"IT":   {"python", "java", "sql", "tensorflow", "pytorch", "aws", "cloud", "software", "machine learning", "deep learning", "neural networks"},
		"LGL":  {"legal", "law", "contract", "paralegal", "compliance", "litigation", "attorney"},
		"MGMT": {"leadership", "management", "agile", "scrum", "strategy", "decision making"},
		"MNFC": {"manufacturing", "production line", "assembly", "quality control", "lean"},
		"MRKT": {"seo", "sem", "branding", "marketing", "social media", "content strategy", "advertising", "market research"},
		"OTHR": {"general", "miscellaneous", "other"},
		"PR":   {"public relations", "press release", "communications", "media relations"},
		"PRJM": {"project management", "pmp", "milestone", "resource planning", "gantt"},
		"PROD": {"product management", "roadmap", "user stories", "product lifecycle"},
		"PRSR": {"customer service", "hospitality", "support", "client relations"},
		"QA":   {"quality assurance", "testing", "automation", "manual testing", "bugs"},
		"REAL": {"real estate", "property", "leasing", "mortgage", "broker", "housing"},
		"RSCH": {"research", "market research", "survey", "investigation", "methodology"},
		"SALE": {"sales", "crm", "account management", "negotiation", "closing", "leads"},
		"SCI":  {"science", "laboratory", "biology", "chemistry", "physics", "biotech"},
		"SPRT": {"sports", "fitness", "coaching", "athletics", "physical education"},
		"SUPL": {"supply chain", "logistics", "inventory", "procurement", "shipping"},
		"TECH": {"technical support", "troubleshooting", "hardware", "it infrastructure"},
		"TRNS": {"transportation", "logistics", "fleet", "delivery", "supply chain management"},
		"WRT":  {"writing", "editing", "content creation", "blogging", "journalism"},
	}
}

// Default returns the built-in 35 category taxonomy
func Default() *Taxonomy {
	t, err := New("default", "1.0", defaultCodes, defaultKeywords())
	if err != nil {
		panic("taxonomy: built-in default is invalid: " + err.Error())
	}
	return t
}
