package taxonomy

var (
	allTitles   = []string{"Witcher 1", "Witcher 2", "Witcher 3"}
	laterTitles = []string{"Witcher 2", "Witcher 3"}
)

var defaultTaxonomy = New(
	// Character relationships
	Entry{
		ID:          "char_loyalty_path",
		Category:    "character",
		Subcategory: "loyalty",
		Description: "Character loyalty path choices",
		Impact:      ImpactCritical,
		Titles:      allTitles,
		Confidence:  0.94,
		Patterns:    []string{"roche_path", "iorveth_path", "triss_choice", "yennefer_choice"},
	},
	Entry{
		ID:          "char_companion_fate",
		Category:    "character",
		Subcategory: "fate",
		Description: "Companion survival and outcomes",
		Impact:      ImpactMajor,
		Titles:      allTitles,
		Confidence:  0.88,
		Patterns:    []string{"companion_alive", "character_state", "relationship_status"},
	},
	// Political alignment
	Entry{
		ID:          "pol_faction_choice",
		Category:    "political",
		Subcategory: "faction",
		Description: "Political faction alignment",
		Impact:      ImpactCritical,
		Titles:      laterTitles,
		Confidence:  0.91,
		Patterns:    []string{"political_stance", "faction_alignment", "kingdom_choice"},
	},
	Entry{
		ID:          "pol_ruler_support",
		Category:    "political",
		Subcategory: "leadership",
		Description: "Support for rulers and leaders",
		Impact:      ImpactMajor,
		Titles:      allTitles,
		Confidence:  0.83,
		Patterns:    []string{"ruler_choice", "political_support", "crown_decision"},
	},
	// Moral choices
	Entry{
		ID:          "mor_life_death",
		Category:    "moral",
		Subcategory: "life_death",
		Description: "Life and death moral choices",
		Impact:      ImpactCritical,
		Titles:      allTitles,
		Confidence:  0.89,
		Patterns:    []string{"kill_choice", "spare_choice", "execution_decision"},
	},
	Entry{
		ID:          "mor_justice_mercy",
		Category:    "moral",
		Subcategory: "justice",
		Description: "Justice vs mercy decisions",
		Impact:      ImpactMajor,
		Titles:      allTitles,
		Confidence:  0.85,
		Patterns:    []string{"justice_choice", "mercy_decision", "punishment_type"},
	},
	// Quest progression
	Entry{
		ID:          "que_main_path",
		Category:    "quest",
		Subcategory: "main_story",
		Description: "Main storyline progression choices",
		Impact:      ImpactCritical,
		Titles:      allTitles,
		Confidence:  0.96,
		Patterns:    []string{"questSystem", "active_quest_tracker", "story_progress"},
	},
	Entry{
		ID:          "que_side_completion",
		Category:    "quest",
		Subcategory: "side_quests",
		Description: "Side quest completion and choices",
		Impact:      ImpactMinor,
		Titles:      allTitles,
		Confidence:  0.78,
		Patterns:    []string{"side_quest_state", "optional_objectives", "quest_outcome"},
	},
)

// Default returns the built-in decision taxonomy.
func Default() *Taxonomy {
	return defaultTaxonomy
}
