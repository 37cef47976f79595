package catalog

const (
	Witcher1 = "Witcher 1"
	Witcher2 = "Witcher 2"
	Witcher3 = "Witcher 3"
)

var allTitles = []string{Witcher1, Witcher2, Witcher3}

// defaultCatalog is built once; Catalog never exposes its internals.
var defaultCatalog = MustNew(
	Pattern{
		Name:        "quest",
		Bytes:       []byte("quest"),
		Category:    CategoryQuest,
		Titles:      allTitles,
		Confidence:  0.95,
		Description: "Quest reference marker",
	},
	Pattern{
		Name:        "active_quest",
		Bytes:       []byte("active_quest"),
		Category:    CategoryQuest,
		Titles:      []string{Witcher2, Witcher3},
		Confidence:  0.92,
		Description: "Active quest tracker",
	},
	Pattern{
		Name:        "chapter",
		Bytes:       []byte("chapter"),
		Category:    CategoryQuest,
		Titles:      []string{Witcher1, Witcher2},
		Confidence:  0.88,
		Description: "Chapter progression marker",
	},
	Pattern{
		Name:        "roche_path",
		Bytes:       []byte("roche_path"),
		Category:    CategoryCharacter,
		Titles:      []string{Witcher2},
		Confidence:  0.94,
		Description: "Roche loyalty path marker",
	},
	Pattern{
		Name:        "iorveth_path",
		Bytes:       []byte("iorveth_path"),
		Category:    CategoryCharacter,
		Titles:      []string{Witcher2},
		Confidence:  0.94,
		Description: "Iorveth loyalty path marker",
	},
	Pattern{
		Name:        "triss",
		Bytes:       []byte("triss"),
		Category:    CategoryCharacter,
		Titles:      allTitles,
		Confidence:  0.86,
		Description: "Triss relationship marker",
	},
	Pattern{
		Name:        "yennefer",
		Bytes:       []byte("yennefer"),
		Category:    CategoryCharacter,
		Titles:      []string{Witcher3},
		Confidence:  0.88,
		Description: "Yennefer relationship marker",
	},
	Pattern{
		Name:        "political_stance",
		Bytes:       []byte("political_stance"),
		Category:    CategoryPolitical,
		Titles:      []string{Witcher2, Witcher3},
		Confidence:  0.91,
		Description: "Political alignment marker",
	},
	Pattern{
		Name:        "faction",
		Bytes:       []byte("faction"),
		Category:    CategoryPolitical,
		Titles:      []string{Witcher2, Witcher3},
		Confidence:  0.85,
		Description: "Faction alignment data",
	},
	Pattern{
		Name:        "DZIP",
		Bytes:       []byte("DZIP"),
		Category:    CategorySaveMetadata,
		Titles:      allTitles,
		Confidence:  0.99,
		Description: "DZIP compression signature",
	},
	Pattern{
		Name:        "save_header",
		Bytes:       []byte("save_header"),
		Category:    CategorySaveMetadata,
		Titles:      allTitles,
		Confidence:  0.93,
		Description: "Save file header",
	},
	Pattern{
		Name:        "screenshot",
		Bytes:       []byte("screenshot"),
		Category:    CategorySaveMetadata,
		Titles:      []string{Witcher2, Witcher3},
		Confidence:  0.87,
		Description: "Screenshot reference",
	},
)

// Default returns the built-in signature catalog.
func Default() *Catalog {
	return defaultCatalog
}

// SignatureGroup is a set of loosely related markers that, when any is
// present, suggests a shared save structure across titles.
type SignatureGroup struct {
	Name    string
	Markers [][]byte
}

// Signatures returns the cross-title signature groups in report order.
func Signatures() []SignatureGroup {
	return []SignatureGroup{
		{
			Name: "universal_save_structure",
			Markers: [][]byte{
				[]byte("DZIP"),
				{0x00, 0x00, 0x00, 0x01}, // version marker
				[]byte("save_"),
				[]byte("screenshot"),
			},
		},
		{
			Name:    "character_system",
			Markers: [][]byte{[]byte("geralt"), []byte("level"), []byte("experience"), []byte("stats")},
		},
		{
			Name:    "quest_system",
			Markers: [][]byte{[]byte("quest"), []byte("objective"), []byte("completed"), []byte("active")},
		},
		{
			Name:    "decision_system",
			Markers: [][]byte{[]byte("choice"), []byte("decision"), []byte("path"), []byte("stance")},
		},
	}
}
