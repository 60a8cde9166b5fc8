package common

// NewDefaultConfig creates a configuration with sensible defaults. Budgets
// mirror the generation pipeline contract: ten passes, a two minute stall
// window, five minutes per transition and ten minutes for the full run.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Target: TargetConfig{
			BaseURL:   "https://app.cutthecrap.net",
			LoginPath: "/",
		},
		Credentials: CredentialsConfig{
			Email: "richard@kjenmarks.nl",
		},
		Browser: BrowserConfig{
			Headless:          true,
			ViewportWidth:     1920,
			ViewportHeight:    1080,
			Locale:            "en-US",
			DeviceScaleFactor: 1.0,
		},
		Timeouts: TimeoutsConfig{
			DefaultSeconds:  30,
			LongSeconds:     120,
			PageLoadSeconds: 15,
		},
		Generation: GenerationConfig{
			TotalPasses:              10,
			StallThresholdSeconds:    120,
			TransitionTimeoutSeconds: 300,
			CompletionTimeoutSeconds: 600,
		},
		Quality: QualityConfig{
			MinAuditScore:         70,
			MinWordCount:          1500,
			MaxWordCount:          4000,
			MinSections:           5,
			MaxSections:           15,
			MinProseRatio:         0.6,
			MaxListSectionsRatio:  0.4,
			MaxTableSectionsRatio: 0.15,
		},
		Output: OutputConfig{
			ResultsBaseDir: "results",
			ScreenshotDir:  "screenshots",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Project: ProjectConfig{
			Name:     "daadvracht",
			Language: "Dutch",
			Region:   "Netherlands",
		},
	}
}

// PassLabels maps each generation pass number to its pipeline stage name
var PassLabels = map[int]string{
	1:  "Draft",
	2:  "Headers",
	3:  "Lists",
	4:  "Discourse",
	5:  "Micro Semantics",
	6:  "Visual Semantics",
	7:  "Introduction",
	8:  "Polish",
	9:  "Audit",
	10: "Schema",
}

// PassLabel returns the stage name for a pass number, or "Unknown" when the
// pass is outside the pipeline.
func PassLabel(pass int) string {
	if label, ok := PassLabels[pass]; ok {
		return label
	}
	return "Unknown"
}

// AuditRule describes one audit category surfaced in the quality panel
type AuditRule struct {
	Category    string   `json:"category"`
	Rules       []string `json:"rules"`
	Description string   `json:"description"`
}

// AuditRuleCatalog lists the audit categories the quality panel reports on
var AuditRuleCatalog = []AuditRule{
	{
		Category:    "Central Entity",
		Rules:       []string{"CENTERPIECE_CHECK", "SEMANTIC_CORE_CHECK"},
		Description: "Target keyword in title, meta, and first paragraph",
	},
	{
		Category:    "Content Structure",
		Rules:       []string{"HEADING_HIERARCHY_CHECK", "SECTION_BALANCE_CHECK"},
		Description: "Proper H2/H3 hierarchy, balanced section lengths",
	},
	{
		Category:    "Semantic Depth",
		Rules:       []string{"VOCABULARY_DIVERSITY_CHECK", "ENTITY_DENSITY_CHECK"},
		Description: "Type-token ratio, entity mentions",
	},
	{
		Category:    "Readability",
		Rules:       []string{"SENTENCE_LENGTH_CHECK", "PARAGRAPH_LENGTH_CHECK"},
		Description: "Average sentence/paragraph lengths",
	},
	{
		Category:    "SEO Optimization",
		Rules:       []string{"META_DESCRIPTION_CHECK", "INTERNAL_LINKING_CHECK"},
		Description: "Meta optimization, link density",
	},
	{
		Category:    "AI Detection",
		Rules:       []string{"LLM_SIGNATURE_DETECTION"},
		Description: "AI-generated content patterns",
	},
	{
		Category:    "Modality",
		Rules:       []string{"MODALITY_CHECK"},
		Description: "Hedging language, certainty markers",
	},
}
