// Package labels хранит надписи кнопок и тексты сообщений по языкам.
package labels

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultLang язык, если у пользователя не выбран или не поддерживается
const DefaultLang = "ru"

// Ключи кнопок
const (
	Book       = "book"
	MyBreaks   = "my_breaks"
	Back       = "back"
	BackMain   = "back_main"
	Today      = "today"
	AnotherDay = "another_day"
	Confirm    = "confirm"
)

//go:embed labels.yaml
var defaultCatalog []byte

type locale struct {
	Buttons  map[string]string `yaml:"buttons"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog надписи и тексты для всех языков
type Catalog struct {
	locales map[string]locale
}

// Load разбирает встроенный каталог
func Load() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse разбирает каталог из YAML
func Parse(data []byte) (*Catalog, error) {
	var locales map[string]locale
	if err := yaml.Unmarshal(data, &locales); err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	if _, ok := locales[DefaultLang]; !ok {
		return nil, fmt.Errorf("labels: default language %q is missing", DefaultLang)
	}
	return &Catalog{locales: locales}, nil
}

// Lang возвращает поддерживаемый язык или язык по умолчанию
func (c *Catalog) Lang(lang string) string {
	if _, ok := c.locales[lang]; ok {
		return lang
	}
	return DefaultLang
}

// Button надпись кнопки
func (c *Catalog) Button(lang, key string) string {
	if text, ok := c.locales[c.Lang(lang)].Buttons[key]; ok {
		return text
	}
	if text, ok := c.locales[DefaultLang].Buttons[key]; ok {
		return text
	}
	return key
}

// Is совпадает ли текст сообщения с надписью кнопки в языке пользователя
func (c *Catalog) Is(lang, text, key string) bool {
	return text == c.Button(lang, key)
}

// Text текст сообщения с подстановкой аргументов
func (c *Catalog) Text(lang, key string, args ...any) string {
	tmpl, ok := c.locales[c.Lang(lang)].Messages[key]
	if !ok {
		tmpl, ok = c.locales[DefaultLang].Messages[key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
