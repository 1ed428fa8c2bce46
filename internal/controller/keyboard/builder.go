package keyboard

import "github.com/go-telegram/bot/models"

// Builder собирает reply-клавиатуру из надписей
type Builder struct {
	rows [][]models.KeyboardButton
}

// NewBuilder создаёт новый builder клавиатуры
func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.KeyboardButton, 0),
	}
}

// Row добавляет ряд кнопок, пустые надписи пропускаются
func (b *Builder) Row(labels ...string) *Builder {
	row := make([]models.KeyboardButton, 0, len(labels))
	for _, label := range labels {
		if label != "" {
			row = append(row, models.KeyboardButton{Text: label})
		}
	}
	if len(row) > 0 {
		b.rows = append(b.rows, row)
	}
	return b
}

// Grid раскладывает надписи по рядам заданной ширины
func (b *Builder) Grid(labels []string, columns int) *Builder {
	if columns <= 0 {
		columns = 1
	}
	for start := 0; start < len(labels); start += columns {
		end := min(start+columns, len(labels))
		b.Row(labels[start:end]...)
	}
	return b
}

// Build создаёт финальную клавиатуру
func (b *Builder) Build() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard:       b.rows,
		ResizeKeyboard: true,
	}
}

// InlineBuilder упрощает создание inline клавиатур
type InlineBuilder struct {
	rows [][]models.InlineKeyboardButton
}

// NewInlineBuilder создаёт новый builder inline клавиатуры
func NewInlineBuilder() *InlineBuilder {
	return &InlineBuilder{
		rows: make([][]models.InlineKeyboardButton, 0),
	}
}

// Row добавляет новый ряд кнопок
func (b *InlineBuilder) Row(buttons ...models.InlineKeyboardButton) *InlineBuilder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

// Button создаёт inline кнопку
func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// Build создаёт финальную inline клавиатуру
func (b *InlineBuilder) Build() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: b.rows,
	}
}

