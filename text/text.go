// Package text renders scoring messages in the players' language. Catalogs
// are embedded YAML files, one per locale, registered with an x/text catalog
// builder.
package text

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"

	"neolithic/scoring"
	"neolithic/tile"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

//go:embed locales/*.yaml
var embeddedLocales embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog holds the messages of every loaded locale.
type Catalog struct {
	builder *catalog.Builder
	locales map[string]language.Tag
}

// LoadEmbedded loads the catalogs shipped with the package.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedLocales)
}

// LoadFromFS loads every locales/*.yaml file of fsys.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale catalogs found")
	}
	c := &Catalog{
		builder: catalog.NewBuilder(catalog.Fallback(language.English)),
		locales: map[string]language.Tag{},
	}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		if err := c.add(path, file); err != nil {
			return nil, err
		}
	}
	if _, ok := c.locales[DefaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %s is not defined in catalogs", DefaultLocale)
	}
	return c, nil
}

func (c *Catalog) add(path string, file localeFile) error {
	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", path)
	}
	if _, exists := c.locales[locale]; exists {
		return fmt.Errorf("catalog %s: locale %q already defined", path, locale)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("catalog %s: parse locale %q: %w", path, locale, err)
	}
	keys := make([]string, 0, len(file.Messages))
	for key := range file.Messages {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if err := c.builder.SetString(tag, key, file.Messages[key]); err != nil {
			return fmt.Errorf("catalog %s: set %q: %w", path, key, err)
		}
	}
	c.locales[locale] = tag
	return nil
}

// Locales returns the loaded locale identifiers, sorted.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.locales))
	for locale := range c.locales {
		out = append(out, locale)
	}
	slices.Sort(out)
	return out
}

// Maker implements scoring.TextMaker for one locale.
type Maker struct {
	printer *message.Printer
}

var _ scoring.TextMaker = (*Maker)(nil)

// Maker returns the text maker of a loaded locale.
func (c *Catalog) Maker(locale string) (*Maker, error) {
	tag, ok := c.locales[strings.TrimSpace(locale)]
	if !ok {
		return nil, fmt.Errorf("unknown locale %q, expected one of %v", locale, c.Locales())
	}
	return &Maker{printer: message.NewPrinter(tag, message.Catalog(c.builder))}, nil
}

// NewMaker loads the embedded catalogs and returns the maker of locale.
func NewMaker(locale string) (*Maker, error) {
	c, err := LoadEmbedded()
	if err != nil {
		return nil, err
	}
	return c.Maker(locale)
}

func (m *Maker) sprintf(key string, args ...any) string {
	return m.printer.Sprintf(key, args...)
}

func plural(n int) string {
	if n == 1 {
		return ".one"
	}
	return ".other"
}

// count renders n with the noun of key, e.g. "3 tiles".
func (m *Maker) count(key string, n int) string {
	return m.sprintf(key+plural(n), n)
}

func (m *Maker) players(colors []tile.Color) string {
	names := make([]string, len(colors))
	for i, c := range slices.Sorted(slices.Values(colors)) {
		names[i] = m.sprintf("color." + c.String())
	}
	return m.join(names)
}

func (m *Maker) join(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	head := strings.Join(items[:len(items)-1], m.sprintf("list.separator"))
	return head + m.sprintf("and") + items[len(items)-1]
}

func (m *Maker) animals(counts map[tile.AnimalKind]int) string {
	var parts []string
	for _, kind := range tile.AnimalKinds {
		if n := counts[kind]; n > 0 {
			parts = append(parts, m.count(kind.String(), n))
		}
	}
	if len(parts) == 0 {
		return m.sprintf("animals.none")
	}
	return m.join(parts)
}

func (m *Maker) PlayerClosedForestWithMenhir(player tile.Color) string {
	return m.sprintf("menhir", m.players([]tile.Color{player}))
}

func (m *Maker) PlayersScoredForest(scorers []tile.Color, points, mushroomGroupCount, tileCount int) string {
	if mushroomGroupCount > 0 {
		return m.sprintf("forest.mushrooms"+plural(len(scorers)), m.players(scorers),
			m.count("point", points), m.count("tile", tileCount), m.count("mushrooms", mushroomGroupCount))
	}
	return m.sprintf("forest"+plural(len(scorers)), m.players(scorers),
		m.count("point", points), m.count("tile", tileCount))
}

func (m *Maker) PlayersScoredRiver(scorers []tile.Color, points, fishCount, tileCount int) string {
	if fishCount > 0 {
		return m.sprintf("river.fish"+plural(len(scorers)), m.players(scorers),
			m.count("point", points), m.count("tile", tileCount), m.count("fish", fishCount))
	}
	return m.sprintf("river"+plural(len(scorers)), m.players(scorers),
		m.count("point", points), m.count("tile", tileCount))
}

func (m *Maker) PlayerScoredHuntingTrap(scorer tile.Color, points int, animals map[tile.AnimalKind]int) string {
	return m.sprintf("hunting_trap", m.players([]tile.Color{scorer}), m.count("point", points), m.animals(animals))
}

func (m *Maker) PlayerScoredLogboat(scorer tile.Color, points, lakeCount int) string {
	return m.sprintf("logboat", m.players([]tile.Color{scorer}), m.count("point", points), m.count("lake", lakeCount))
}

func (m *Maker) PlayersScoredMeadow(scorers []tile.Color, points int, animals map[tile.AnimalKind]int) string {
	return m.sprintf("meadow"+plural(len(scorers)), m.players(scorers), m.count("point", points), m.animals(animals))
}

func (m *Maker) PlayersScoredRiverSystem(scorers []tile.Color, points, fishCount int) string {
	return m.sprintf("river_system"+plural(len(scorers)), m.players(scorers),
		m.count("point", points), m.count("fish", fishCount))
}

func (m *Maker) PlayersScoredPitTrap(scorers []tile.Color, points int, animals map[tile.AnimalKind]int) string {
	return m.sprintf("pit_trap"+plural(len(scorers)), m.players(scorers), m.count("point", points), m.animals(animals))
}

func (m *Maker) PlayersScoredRaft(scorers []tile.Color, points, lakeCount int) string {
	return m.sprintf("raft"+plural(len(scorers)), m.players(scorers),
		m.count("point", points), m.count("lake", lakeCount))
}

func (m *Maker) PlayersWon(winners []tile.Color, points int) string {
	return m.sprintf("won"+plural(len(winners)), m.players(winners), m.count("point", points))
}
