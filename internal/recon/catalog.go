package recon

import "fmt"

// Function is a single testable application function
type Function struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Path   string `json:"path"`
}

// FunctionCategory groups related functions with a test priority
type FunctionCategory struct {
	Category  string     `json:"category"`
	Functions []Function `json:"functions"`
	Priority  string     `json:"priority"`
}

// statusToTest marks a function as discovered but not yet exercised
const statusToTest = "TO_TEST"

func toTest(names ...[2]string) []Function {
	functions := make([]Function, 0, len(names))
	for _, n := range names {
		functions = append(functions, Function{Name: n[0], Status: statusToTest, Path: n[1]})
	}
	return functions
}

// FunctionCatalog enumerates every user-facing function of the application,
// grouped by area. This is the checklist the comprehensive suite works
// through; recon emits it alongside the live element inventory.
func FunctionCatalog() []FunctionCategory {
	passFunctions := []Function{
		{Name: "Start Generation", Status: statusToTest, Path: "Brief modal"},
		{Name: "View Progress", Status: statusToTest, Path: "Draft modal"},
	}
	passLabels := []string{"Draft", "Headers", "Lists", "Discourse", "Micro Semantics",
		"Visual Semantics", "Introduction", "Polish", "Audit", "Schema"}
	for i, label := range passLabels {
		passFunctions = append(passFunctions, Function{
			Name:   fmt.Sprintf("Pass %d: %s", i+1, label),
			Status: statusToTest,
			Path:   "Auto",
		})
	}

	return []FunctionCategory{
		{
			Category: "Authentication",
			Functions: toTest(
				[2]string{"Login", "/"},
				[2]string{"Logout", "Header menu"},
			),
			Priority: "HIGH",
		},
		{
			Category: "Project Management",
			Functions: toTest(
				[2]string{"Select Project", "Header dropdown"},
				[2]string{"Create Project", "Project menu"},
				[2]string{"Edit Project", "Project settings"},
			),
			Priority: "HIGH",
		},
		{
			Category: "Topical Map Management",
			Functions: toTest(
				[2]string{"Select Map", "Map dropdown"},
				[2]string{"Create Map", "Map menu"},
				[2]string{"View Map Stats", "Map header"},
			),
			Priority: "HIGH",
		},
		{
			Category: "Wizards (Business Context)",
			Functions: toTest(
				[2]string{"Business Info Wizard", "Dashboard panel"},
				[2]string{"SEO Pillar Wizard", "Dashboard panel"},
				[2]string{"EAV Discovery", "Dashboard panel"},
				[2]string{"Competitor Refinement", "Dashboard panel"},
			),
			Priority: "MEDIUM",
		},
		{
			Category: "Topic Management",
			Functions: toTest(
				[2]string{"View Topic List", "Main area"},
				[2]string{"Search Topics", "Search box"},
				[2]string{"Filter Topics", "Filter controls"},
				[2]string{"View Topic Details", "Topic row click"},
			),
			Priority: "HIGH",
		},
		{
			Category: "Content Brief Generation",
			Functions: toTest(
				[2]string{"Generate Brief", "Topic row action"},
				[2]string{"View Brief Modal", "Brief click"},
				[2]string{"Brief Preview", "Brief row"},
				[2]string{"Export Brief", "Brief modal"},
			),
			Priority: "HIGH",
		},
		{
			Category:  "Content Generation (10-Pass)",
			Functions: passFunctions,
			Priority:  "CRITICAL",
		},
		{
			Category: "Quality Audit System",
			Functions: toTest(
				[2]string{"View Audit Score", "Draft modal"},
				[2]string{"Central Entity Rules", "Audit panel"},
				[2]string{"Content Structure Rules", "Audit panel"},
				[2]string{"Semantic Depth Rules", "Audit panel"},
				[2]string{"Readability Rules", "Audit panel"},
				[2]string{"AI Detection Rules", "Audit panel"},
				[2]string{"Auto-Fix Violations", "Audit panel"},
			),
			Priority: "CRITICAL",
		},
		{
			Category: "Content Operations",
			Functions: toTest(
				[2]string{"Save Draft", "Draft modal"},
				[2]string{"Manual Polish", "Draft modal"},
				[2]string{"Version History", "Draft modal"},
				[2]string{"Re-run Passes", "Draft modal"},
				[2]string{"Export Content", "Draft modal"},
			),
			Priority: "HIGH",
		},
		{
			Category: "Schema Generation",
			Functions: toTest(
				[2]string{"Generate Schema", "Schema tab"},
				[2]string{"View JSON-LD", "Schema tab"},
				[2]string{"Entity Resolution", "Auto (Wikidata)"},
				[2]string{"Edit Schema", "Schema tab"},
			),
			Priority: "MEDIUM",
		},
		{
			Category: "Settings",
			Functions: toTest(
				[2]string{"API Key Config", "Settings modal"},
				[2]string{"Generation Priorities", "Settings modal"},
				[2]string{"Organization Settings", "Settings modal"},
			),
			Priority: "MEDIUM",
		},
		{
			Category: "Analytics",
			Functions: toTest(
				[2]string{"AI Usage Dashboard", "Header button"},
				[2]string{"Cost Tracking", "Usage modal"},
			),
			Priority: "LOW",
		},
	}
}
