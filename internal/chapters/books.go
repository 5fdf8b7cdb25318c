package chapters

import "strings"

// Testament identifies which half of the canon a book belongs to.
type Testament string

// Testaments.
const (
	OldTestament Testament = "OT"
	NewTestament Testament = "NT"
)

// Book is one of the 66 books of the Protestant canon.
type Book struct {
	Name      string    `json:"name"`
	Testament Testament `json:"testament"`
	Order     int       `json:"order"`
	Chapters  int       `json:"chapters"`
	Aliases   []string  `json:"aliases"`
}

// canon lists every book in canonical order with the abbreviations preachers
// and subtitle writers actually use. The lowercase full name and the
// no-space form of numbered aliases ("1 cor" -> "1cor") are added by init.
var canon = []Book{
	// Old Testament
	{Name: "Genesis", Chapters: 50, Aliases: []string{"gen", "gn"}},
	{Name: "Exodus", Chapters: 40, Aliases: []string{"exod", "exo", "ex"}},
	{Name: "Leviticus", Chapters: 27, Aliases: []string{"lev", "lv"}},
	{Name: "Numbers", Chapters: 36, Aliases: []string{"num", "nm"}},
	{Name: "Deuteronomy", Chapters: 34, Aliases: []string{"deut", "dt"}},
	{Name: "Joshua", Chapters: 24, Aliases: []string{"josh", "jos"}},
	{Name: "Judges", Chapters: 21, Aliases: []string{"judg", "jdg"}},
	{Name: "Ruth", Chapters: 4, Aliases: []string{"rth"}},
	{Name: "1 Samuel", Chapters: 31, Aliases: []string{"1 sam", "1 sa", "1 sm", "i samuel", "first samuel"}},
	{Name: "2 Samuel", Chapters: 24, Aliases: []string{"2 sam", "2 sa", "2 sm", "ii samuel", "second samuel"}},
	{Name: "1 Kings", Chapters: 22, Aliases: []string{"1 kgs", "1 ki", "i kings", "first kings"}},
	{Name: "2 Kings", Chapters: 25, Aliases: []string{"2 kgs", "2 ki", "ii kings", "second kings"}},
	{Name: "1 Chronicles", Chapters: 29, Aliases: []string{"1 chr", "1 chron", "i chronicles", "first chronicles"}},
	{Name: "2 Chronicles", Chapters: 36, Aliases: []string{"2 chr", "2 chron", "ii chronicles", "second chronicles"}},
	{Name: "Ezra", Chapters: 10, Aliases: []string{"ezr"}},
	{Name: "Nehemiah", Chapters: 13, Aliases: []string{"neh"}},
	{Name: "Esther", Chapters: 10, Aliases: []string{"esth", "est"}},
	{Name: "Job", Chapters: 42, Aliases: []string{"jb"}},
	{Name: "Psalms", Chapters: 150, Aliases: []string{"psalm", "ps", "psa", "pss"}},
	{Name: "Proverbs", Chapters: 31, Aliases: []string{"prov", "prv", "pr"}},
	{Name: "Ecclesiastes", Chapters: 12, Aliases: []string{"eccl", "eccles", "ecc", "qoh"}},
	{Name: "Song of Solomon", Chapters: 8, Aliases: []string{"song", "song of songs", "sos", "canticles"}},
	{Name: "Isaiah", Chapters: 66, Aliases: []string{"isa"}},
	{Name: "Jeremiah", Chapters: 52, Aliases: []string{"jer"}},
	{Name: "Lamentations", Chapters: 5, Aliases: []string{"lam"}},
	{Name: "Ezekiel", Chapters: 48, Aliases: []string{"ezek", "eze"}},
	{Name: "Daniel", Chapters: 12, Aliases: []string{"dan", "dn"}},
	{Name: "Hosea", Chapters: 14, Aliases: []string{"hos"}},
	{Name: "Joel", Chapters: 3, Aliases: []string{"jl"}},
	{Name: "Amos", Chapters: 9, Aliases: []string{"amo"}},
	{Name: "Obadiah", Chapters: 1, Aliases: []string{"obad", "ob"}},
	{Name: "Jonah", Chapters: 4, Aliases: []string{"jon"}},
	{Name: "Micah", Chapters: 7, Aliases: []string{"mic"}},
	{Name: "Nahum", Chapters: 3, Aliases: []string{"nah"}},
	{Name: "Habakkuk", Chapters: 3, Aliases: []string{"hab"}},
	{Name: "Zephaniah", Chapters: 3, Aliases: []string{"zeph", "zep"}},
	{Name: "Haggai", Chapters: 2, Aliases: []string{"hag"}},
	{Name: "Zechariah", Chapters: 14, Aliases: []string{"zech", "zec"}},
	{Name: "Malachi", Chapters: 4, Aliases: []string{"mal"}},

	// New Testament
	{Name: "Matthew", Chapters: 28, Aliases: []string{"matt", "mat", "mt"}},
	{Name: "Mark", Chapters: 16, Aliases: []string{"mk", "mrk"}},
	{Name: "Luke", Chapters: 24, Aliases: []string{"lk", "luk"}},
	{Name: "John", Chapters: 21, Aliases: []string{"jn", "jhn"}},
	{Name: "Acts", Chapters: 28, Aliases: []string{"act"}},
	{Name: "Romans", Chapters: 16, Aliases: []string{"rom", "rm"}},
	{Name: "1 Corinthians", Chapters: 16, Aliases: []string{"1 cor", "1 co", "i corinthians", "first corinthians"}},
	{Name: "2 Corinthians", Chapters: 13, Aliases: []string{"2 cor", "2 co", "ii corinthians", "second corinthians"}},
	{Name: "Galatians", Chapters: 6, Aliases: []string{"gal"}},
	{Name: "Ephesians", Chapters: 6, Aliases: []string{"eph"}},
	{Name: "Philippians", Chapters: 4, Aliases: []string{"phil", "php"}},
	{Name: "Colossians", Chapters: 4, Aliases: []string{"col"}},
	{Name: "1 Thessalonians", Chapters: 5, Aliases: []string{"1 thess", "1 thes", "1 th", "i thessalonians", "first thessalonians"}},
	{Name: "2 Thessalonians", Chapters: 3, Aliases: []string{"2 thess", "2 thes", "2 th", "ii thessalonians", "second thessalonians"}},
	{Name: "1 Timothy", Chapters: 6, Aliases: []string{"1 tim", "1 ti", "i timothy", "first timothy"}},
	{Name: "2 Timothy", Chapters: 4, Aliases: []string{"2 tim", "2 ti", "ii timothy", "second timothy"}},
	{Name: "Titus", Chapters: 3, Aliases: []string{"tit"}},
	{Name: "Philemon", Chapters: 1, Aliases: []string{"philem", "phlm", "phm"}},
	{Name: "Hebrews", Chapters: 13, Aliases: []string{"heb"}},
	{Name: "James", Chapters: 5, Aliases: []string{"jas", "jm"}},
	{Name: "1 Peter", Chapters: 5, Aliases: []string{"1 pet", "1 pe", "1 pt", "i peter", "first peter"}},
	{Name: "2 Peter", Chapters: 3, Aliases: []string{"2 pet", "2 pe", "2 pt", "ii peter", "second peter"}},
	{Name: "1 John", Chapters: 5, Aliases: []string{"1 jn", "1 jhn", "i john", "first john"}},
	{Name: "2 John", Chapters: 1, Aliases: []string{"2 jn", "2 jhn", "ii john", "second john"}},
	{Name: "3 John", Chapters: 1, Aliases: []string{"3 jn", "3 jhn", "iii john", "third john"}},
	{Name: "Jude", Chapters: 1, Aliases: []string{"jud"}},
	{Name: "Revelation", Chapters: 22, Aliases: []string{"rev", "revelations", "apocalypse"}},
}

// aliases maps a normalized alias to its index in canon. Built once and
// never written afterwards.
var aliases = map[string]int{}

func init() {
	for i := range canon {
		b := &canon[i]
		b.Order = i + 1
		b.Testament = OldTestament
		if i >= 39 {
			b.Testament = NewTestament
		}

		register(strings.ToLower(b.Name), i)
		for _, a := range b.Aliases {
			register(a, i)
		}
	}
}

func register(alias string, idx int) {
	alias = normalizeAlias(alias)
	aliases[alias] = idx
	// "1 cor" is also written "1cor".
	if len(alias) > 2 && alias[0] >= '1' && alias[0] <= '3' && alias[1] == ' ' {
		aliases[alias[:1]+alias[2:]] = idx
	}
}

// normalizeAlias lowercases, trims and collapses inner whitespace.
func normalizeAlias(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// LookupBook resolves an alias to its canonical book name. Matching is
// case-insensitive and exact; there is no fuzzy matching.
func LookupBook(alias string) (string, bool) {
	idx, ok := aliases[normalizeAlias(alias)]
	if !ok {
		return "", false
	}
	return canon[idx].Name, true
}

// Books returns a copy of the canonical book table in canonical order.
func Books() []Book {
	out := make([]Book, len(canon))
	for i, b := range canon {
		b.Aliases = append([]string(nil), b.Aliases...)
		out[i] = b
	}
	return out
}

// BookByName returns the canonical book with the given name or alias.
func BookByName(name string) (Book, bool) {
	idx, ok := aliases[normalizeAlias(name)]
	if !ok {
		return Book{}, false
	}
	b := canon[idx]
	b.Aliases = append([]string(nil), b.Aliases...)
	return b, true
}
