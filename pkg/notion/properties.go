package notion

import (
	"time"
	"unicode/utf8"

	"github.com/jomei/notionapi"
)

// MaxTextLength is Notion's limit on a single rich-text object.
const MaxTextLength = 2000

// RichText splits s into rich-text objects no longer than MaxTextLength.
func RichText(s string) []notionapi.RichText {
	if s == "" {
		return []notionapi.RichText{}
	}
	var out []notionapi.RichText
	for len(s) > 0 {
		n := len(s)
		if utf8.RuneCountInString(s) > MaxTextLength {
			n = 0
			for i := 0; i < MaxTextLength; i++ {
				_, size := utf8.DecodeRuneInString(s[n:])
				n += size
			}
		}
		out = append(out, notionapi.RichText{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{Content: s[:n]},
		})
		s = s[n:]
	}
	return out
}

// Title builds a title property.
func Title(s string) notionapi.TitleProperty {
	return notionapi.TitleProperty{Type: notionapi.PropertyTypeTitle, Title: RichText(s)}
}

// Text builds a rich-text property.
func Text(s string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{Type: notionapi.PropertyTypeRichText, RichText: RichText(s)}
}

// Number builds a number property.
func Number(v float64) notionapi.NumberProperty {
	return notionapi.NumberProperty{Type: notionapi.PropertyTypeNumber, Number: v}
}

// Select builds a select property.
func Select(name string) notionapi.SelectProperty {
	return notionapi.SelectProperty{Type: notionapi.PropertyTypeSelect, Select: notionapi.Option{Name: name}}
}

// MultiSelect builds a multi-select property.
func MultiSelect(names ...string) notionapi.MultiSelectProperty {
	opts := make([]notionapi.Option, len(names))
	for i, n := range names {
		opts[i] = notionapi.Option{Name: n}
	}
	return notionapi.MultiSelectProperty{Type: notionapi.PropertyTypeMultiSelect, MultiSelect: opts}
}

// Checkbox builds a checkbox property.
func Checkbox(v bool) notionapi.CheckboxProperty {
	return notionapi.CheckboxProperty{Type: notionapi.PropertyTypeCheckbox, Checkbox: v}
}

// Date builds a date property.
func Date(t time.Time) notionapi.DateProperty {
	d := notionapi.Date(t)
	return notionapi.DateProperty{Type: notionapi.PropertyTypeDate, Date: &notionapi.DateObject{Start: &d}}
}
