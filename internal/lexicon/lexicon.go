// Package lexicon holds the read-only word pools that generated entities draw their text from.
package lexicon

import (
	"embed"
	"io/fs"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/oaeproject/model-loader/internal/sampler"
)

//go:embed data
var defaultData embed.FS

var emailDomains = []string{"googlemail.com", "hotmail.com", "gmail.com", "cam.ac.uk", "yahoo.com"}

// Lexicon is loaded once and shared between generators; it is never mutated after Load.
type Lexicon struct {
	MaleFirstNames   []string
	FemaleFirstNames []string
	LastNames        []string
	Cities           []string
	RandomURLs       []string
	YoutubeURLs      []string
	Verbs            []string
	Nouns            []string
	KeywordPool      []string
	Passwords        []string
	Departments      []string
	Colleges         []string
}

// Default returns the lexicon built from the pools compiled into the binary.
func Default() (*Lexicon, error) {
	sub, err := fs.Sub(defaultData, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// FromDir loads the pools from a directory laid out like the embedded data directory.
func FromDir(dir string) (*Lexicon, error) {
	return Load(os.DirFS(dir))
}

func Load(fsys fs.FS) (*Lexicon, error) {
	l := &Lexicon{}
	pools := []struct {
		file string
		dst  *[]string
	}{
		{"male.first.txt", &l.MaleFirstNames},
		{"female.first.txt", &l.FemaleFirstNames},
		{"all.last.txt", &l.LastNames},
		{"cities.txt", &l.Cities},
		{"urls/random.txt", &l.RandomURLs},
		{"urls/youtube.txt", &l.YoutubeURLs},
		{"verbs.txt", &l.Verbs},
		{"nouns.txt", &l.Nouns},
		{"keywords.txt", &l.KeywordPool},
		{"passwords.txt", &l.Passwords},
		{"departments.txt", &l.Departments},
		{"colleges.txt", &l.Colleges},
	}
	for _, p := range pools {
		pool, err := LoadPoolFile(fsys, p.file)
		if err != nil {
			return nil, err
		}
		*p.dst = pool
	}
	return l, nil
}

// FirstName returns a capitalised first name for the given gender ("M" or "F").
func (l *Lexicon) FirstName(s *sampler.Sampler, gender string) string {
	if gender == "F" {
		return titleCase(sampler.Pick(s, l.FemaleFirstNames))
	}
	return titleCase(sampler.Pick(s, l.MaleFirstNames))
}

func (l *Lexicon) LastName(s *sampler.Sampler) string {
	return titleCase(sampler.Pick(s, l.LastNames))
}

// Keywords returns n keywords, each drawn with equal chance from the keyword or the noun pool.
func (l *Lexicon) Keywords(s *sampler.Sampler, n int) []string {
	keywords := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if s.Chance(0.5) {
			keywords = append(keywords, sampler.Pick(s, l.KeywordPool))
		} else {
			keywords = append(keywords, sampler.Pick(s, l.Nouns))
		}
	}
	return keywords
}

// Sentences returns n space-separated sentences of generated prose. n < 1 is treated as 1.
func (l *Lexicon) Sentences(s *sampler.Sampler, n int) string {
	if n < 1 {
		n = 1
	}
	sentences := make([]string, n)
	for i := range sentences {
		sentences[i] = l.sentence(s)
	}
	return strings.Join(sentences, " ")
}

var determiners = []string{"the", "a", "every", "this", "our", "their"}
var connectives = []string{"and", "because", "while", "so", "but"}

func (l *Lexicon) sentence(s *sampler.Sampler) string {
	words := []string{
		sampler.Pick(s, determiners), sampler.Pick(s, l.Nouns),
		verbForm(sampler.Pick(s, l.Verbs)),
		sampler.Pick(s, determiners), sampler.Pick(s, l.Nouns),
	}
	if s.Chance(0.4) {
		words = append(words,
			sampler.Pick(s, connectives),
			sampler.Pick(s, determiners), sampler.Pick(s, l.Nouns),
			verbForm(sampler.Pick(s, l.Verbs)),
			sampler.Pick(s, determiners), sampler.Pick(s, l.KeywordPool),
		)
	}
	return UpperFirst(strings.Join(words, " ")) + "."
}

func verbForm(verb string) string {
	switch {
	case strings.HasSuffix(verb, "s"), strings.HasSuffix(verb, "sh"), strings.HasSuffix(verb, "ch"):
		return verb + "es"
	case strings.HasSuffix(verb, "y") && !strings.HasSuffix(verb, "ay") && !strings.HasSuffix(verb, "ey"):
		return strings.TrimSuffix(verb, "y") + "ies"
	default:
		return verb + "s"
	}
}

// Email builds an address from the seed words joined by underscores and a random domain.
func (l *Lexicon) Email(s *sampler.Sampler, seed ...string) string {
	return strings.ToLower(strings.Join(seed, "_")) + "@" + sampler.Pick(s, emailDomains)
}

// URL returns a youtube URL if youtube is set, any other URL otherwise.
func (l *Lexicon) URL(s *sampler.Sampler, youtube bool) string {
	if youtube {
		return sampler.Pick(s, l.YoutubeURLs)
	}
	return sampler.Pick(s, l.RandomURLs)
}

func (l *Lexicon) Password(s *sampler.Sampler) string   { return sampler.Pick(s, l.Passwords) }
func (l *Lexicon) Department(s *sampler.Sampler) string { return sampler.Pick(s, l.Departments) }
func (l *Lexicon) College(s *sampler.Sampler) string    { return sampler.Pick(s, l.Colleges) }
func (l *Lexicon) City(s *sampler.Sampler) string       { return sampler.Pick(s, l.Cities) }

// A Caser keeps state between calls, so one is built per name.
func titleCase(name string) string {
	return cases.Title(language.English).String(name)
}

// UpperFirst upper-cases the first rune of str and leaves the rest untouched.
func UpperFirst(str string) string {
	r, size := utf8.DecodeRuneInString(str)
	if r == utf8.RuneError {
		return str
	}
	return string(unicode.ToUpper(r)) + str[size:]
}
