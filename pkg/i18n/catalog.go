// Package i18n translates interface strings. Message ids are the English
// source strings, so a missing translation falls back to readable text
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

// Language is an enabled interface language
type Language struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// Message is a message id with printf arguments, translated at render time
type Message struct {
	ID   string
	Args []any
}

// M builds a Message
func M(id string, args ...any) Message {
	return Message{ID: id, Args: args}
}

// catalogFile is the YAML layout of a locale file
type catalogFile struct {
	Language `yaml:",inline"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog holds the messages of every enabled language
type Catalog struct {
	fallback  string
	languages []Language
	messages  map[string]map[string]string
	matcher   language.Matcher
}

// Load reads the embedded catalogs. defaultLang is used when nothing better
// matches a request and must be one of the embedded languages
func Load(defaultLang string) (*Catalog, error) {
	return LoadFS(locales, "locales", defaultLang)
}

// LoadFS reads every *.yaml catalog in dir
func LoadFS(fsys fs.FS, dir, defaultLang string) (*Catalog, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list catalogs: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no catalogs found in %s", dir)
	}

	c := &Catalog{messages: make(map[string]map[string]string)}

	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", file, err)
		}

		var parsed catalogFile
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", file, err)
		}
		if parsed.Code == "" {
			return nil, fmt.Errorf("catalog %s has no language code", file)
		}
		if _, err := language.Parse(parsed.Code); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", file, err)
		}

		c.languages = append(c.languages, parsed.Language)
		c.messages[parsed.Code] = parsed.Messages
	}

	if _, ok := c.messages[defaultLang]; !ok {
		return nil, fmt.Errorf("default language %q has no catalog", defaultLang)
	}
	c.fallback = defaultLang

	// The matcher prefers its first tag when nothing matches, so the default
	// language goes first
	sort.SliceStable(c.languages, func(i, j int) bool {
		if c.languages[i].Code == defaultLang {
			return true
		}
		if c.languages[j].Code == defaultLang {
			return false
		}
		return c.languages[i].Code < c.languages[j].Code
	})

	tags := make([]language.Tag, len(c.languages))
	for i, lang := range c.languages {
		tags[i] = language.MustParse(lang.Code)
	}
	c.matcher = language.NewMatcher(tags)

	return c, nil
}

// Default returns the fallback language code
func (c *Catalog) Default() string {
	return c.fallback
}

// Languages lists the enabled languages, default first
func (c *Catalog) Languages() []Language {
	return append([]Language(nil), c.languages...)
}

// Supported reports whether code has a catalog
func (c *Catalog) Supported(code string) bool {
	_, ok := c.messages[code]
	return ok
}

// Match picks the best enabled language for an Accept-Language header
func (c *Catalog) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}

	_, index, confidence := c.matcher.Match(tags...)
	if confidence == language.No {
		return c.fallback
	}
	return c.languages[index].Code
}

// T translates a message id into lang and applies printf arguments
func (c *Catalog) T(lang, id string, args ...any) string {
	text := id
	if translated, ok := c.messages[lang][id]; ok && translated != "" {
		text = translated
	}

	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// Translate renders anything the templates hand over: plain ids, Messages,
// errors and Stringers
func (c *Catalog) Translate(lang string, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return c.T(lang, v)
	case Message:
		return c.T(lang, v.ID, v.Args...)
	case *Message:
		return c.T(lang, v.ID, v.Args...)
	case error:
		return c.T(lang, v.Error())
	case fmt.Stringer:
		return c.T(lang, v.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
