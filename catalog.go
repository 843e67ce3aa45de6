package qsynth

// Genre is the closed set of book genres. Per-genre tables are arrays of length
// genreCount, so a lookup by a valid Genre always lands on an entry.
type Genre int

const (
	GenreFantasy Genre = iota
	GenreScienceFiction
	GenreMystery
	GenreRomance
	GenreThriller
	GenreHorror
	GenreBiography
	GenreHistory

	genreCount
)

var genreLabels = [genreCount]string{
	GenreFantasy:        "Fantasy",
	GenreScienceFiction: "Science Fiction",
	GenreMystery:        "Mystery",
	GenreRomance:        "Romance",
	GenreThriller:       "Thriller",
	GenreHorror:         "Horror",
	GenreBiography:      "Biography",
	GenreHistory:        "History",
}

func (g Genre) String() string {
	if g < 0 || g >= genreCount {
		return "Unknown"
	}
	return genreLabels[g]
}

func (g Genre) Valid() bool {
	return g >= 0 && g < genreCount
}

// Genres lists every genre in enum order.
func Genres() []Genre {
	out := make([]Genre, genreCount)
	for i := range out {
		out[i] = Genre(i)
	}
	return out
}

// ParseGenre resolves a label back to its Genre.
func ParseGenre(label string) (Genre, bool) {
	for g, l := range genreLabels {
		if l == label {
			return Genre(g), true
		}
	}
	return 0, false
}

// Range is an inclusive integer interval.
type Range struct {
	Lo int `mapstructure:"lo"`
	Hi int `mapstructure:"hi"`
}

func (r Range) Validate(name string) error {
	if r.Hi < r.Lo {
		return configError("%s range [%d, %d] is empty", name, r.Lo, r.Hi)
	}
	return nil
}

func (r Range) Contains(v int) bool {
	return v >= r.Lo && v <= r.Hi
}

/*
Catalog holds the read-only label sets and numeric ranges that sampled integers are mapped
onto. It is loaded once and shared by every generator.
*/
type Catalog struct {
	Titles       [genreCount][]string
	Descriptions [genreCount][]string
	Users        []string
	States       []string
	Regions      []string

	Age    Range
	Income Range
	Year   Range
}

func (c *Catalog) Validate() error {
	for _, g := range Genres() {
		if len(c.Titles[g]) == 0 {
			return configError("no titles for genre %s", g)
		}
		if len(c.Descriptions[g]) == 0 {
			return configError("no descriptions for genre %s", g)
		}
	}

	switch {
	case len(c.Users) == 0:
		return configError("empty user pool")
	case len(c.States) == 0:
		return configError("empty state labels")
	case len(c.Regions) == 0:
		return configError("empty region labels")
	}

	for _, r := range []struct {
		name string
		Range
	}{
		{"age", c.Age},
		{"income", c.Income},
		{"year", c.Year},
	} {
		if err := r.Validate(r.name); err != nil {
			return err
		}
	}

	return nil
}

func DefaultCatalog() *Catalog {
	return &Catalog{
		Titles: [genreCount][]string{
			GenreFantasy:        {"The Ember Crown", "Songs of the Hollow Wood", "A Gate of Salt", "The Last Wyrmrider"},
			GenreScienceFiction: {"Orbit of Ash", "The Quiet Singularity", "Children of Kepler", "Dust Between Stars"},
			GenreMystery:        {"The Vicarage Key", "Death at Low Tide", "A Study in Rust", "The Ninth Guest"},
			GenreRomance:        {"Letters to Lisbon", "A Summer Unplanned", "The Lighthouse Promise", "Second First Dance"},
			GenreThriller:       {"Zero Protocol", "The Fifth Witness", "Burn Notice Blue", "Night Courier"},
			GenreHorror:         {"The Hollowing", "What the Well Keeps", "Teeth in the Attic", "Black Orchard"},
			GenreBiography:      {"A Life in Ink", "The Reluctant Admiral", "Notes from the Lab", "Her Own Terms"},
			GenreHistory:        {"The Silk Ledger", "Empires of Grain", "The Long Winter of 1709", "Rivers of Trade"},
		},
		Descriptions: [genreCount][]string{
			GenreFantasy:        {"An exiled heir bargains with old magic.", "A hedge witch guards a failing border.", "Dragons return to a kingdom that forgot them.", "A map that redraws itself leads north."},
			GenreScienceFiction: {"A colony ship wakes its crew too early.", "First contact arrives as a software update.", "A miner finds a signal under the ice.", "Two AIs negotiate the fate of a moon."},
			GenreMystery:        {"A retired inspector reopens a cold case.", "A locked-room death at a seaside hotel.", "Forged paintings point to a real murder.", "A village hides a decades-old disappearance."},
			GenreRomance:        {"Rivals share a bakery for one summer.", "A wrong letter starts a correspondence.", "Old friends meet again at a wedding.", "A lighthouse keeper hosts an unexpected guest."},
			GenreThriller:       {"An analyst uncovers a leak inside her agency.", "A courier carries a package nobody should have.", "A witness vanishes the night before trial.", "A hacker has forty-eight hours to clear his name."},
			GenreHorror:         {"A family inherits a house that remembers.", "Something answers from the bottom of the well.", "A small town stops sleeping.", "An orchard bears fruit in winter."},
			GenreBiography:      {"The life of a pioneering printmaker.", "A naval officer who never wanted command.", "A chemist's notebooks, annotated.", "A senator's rise told through her letters."},
			GenreHistory:        {"How trade routes shaped medieval Asia.", "Grain, famine and the fall of empires.", "Europe through its coldest winter.", "Rivers as the arteries of early commerce."},
		},
		Users: []string{
			"user-001", "user-002", "user-003", "user-004", "user-005", "user-006", "user-007", "user-008",
			"user-009", "user-010", "user-011", "user-012", "user-013", "user-014", "user-015", "user-016",
		},
		States:  []string{"PUBLIC", "DRAFT", "TRASH"},
		Regions: []string{"North", "South", "East", "West", "Central"},
		Age:     Range{Lo: 18, Hi: 80},
		Income:  Range{Lo: 20000, Hi: 150000},
		Year:    Range{Lo: 1900, Hi: 2025},
	}
}
