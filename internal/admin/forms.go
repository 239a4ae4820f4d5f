package admin

import (
	"github.com/goliatone/go-article-admin/pkg/articles"
	"github.com/goliatone/go-article-admin/pkg/model"
)

// Article form field limits.
const (
	TitleMinLength    = 20
	TitleMaxLength    = 200
	ContentMinLength  = 200
	CategoryMinLength = 3
	CategoryMaxLength = 100
)

// ArticleRecord is the initial record of the article form.
func ArticleRecord() model.Record {
	return model.Record{
		"title":    "",
		"content":  "",
		"category": "",
		"status":   string(articles.StatusDraft),
	}
}

// ArticleFields declares the article create/edit form.
func ArticleFields() []model.Descriptor {
	statuses := make([]model.SelectOption, 0, len(articles.Statuses))
	for _, s := range articles.Statuses {
		statuses = append(statuses, model.SelectOption{Label: string(s), Value: string(s)})
	}
	return []model.Descriptor{
		model.Field{
			Kind:        model.FieldKindText,
			Name:        "title",
			Label:       "Title",
			Required:    true,
			MinLength:   model.Limit(TitleMinLength),
			MaxLength:   model.Limit(TitleMaxLength),
			Placeholder: "Enter a descriptive title (20-200 chars)",
		},
		model.Field{
			Kind:        model.FieldKindTextarea,
			Name:        "content",
			Label:       "Content",
			Required:    true,
			MinLength:   model.Limit(ContentMinLength),
			Placeholder: "Write your article content (200+ chars)",
		},
		model.Field{
			Kind:        model.FieldKindText,
			Name:        "category",
			Label:       "Category",
			Required:    true,
			MinLength:   model.Limit(CategoryMinLength),
			MaxLength:   model.Limit(CategoryMaxLength),
			Placeholder: "e.g. Programming",
		},
		model.Field{
			Kind:     model.FieldKindSelect,
			Name:     "status",
			Label:    "Status",
			Required: true,
			Options:  statuses,
		},
	}
}

// ArticleFromRecord reads a submitted article record.
func ArticleFromRecord(record model.Record) articles.CreateDTO {
	text := func(key string) string {
		s, _ := record[key].(string)
		return s
	}
	return articles.CreateDTO{
		Title:    text("title"),
		Content:  text("content"),
		Category: text("category"),
		Status:   articles.Status(text("status")),
	}
}

// RecordFromArticle maps a fetched article onto the form record.
func RecordFromArticle(a articles.Article) map[string]any {
	return map[string]any{
		"title":    a.Title,
		"content":  a.Content,
		"category": a.Category,
		"status":   string(a.Status),
	}
}

// PlaygroundRecord is the initial record of the playground form.
func PlaygroundRecord() model.Record {
	return model.Record{
		"name":          "",
		"email":         "",
		"password":      "",
		"currentSalary": float64(25),
		"gender":        []string{},
		"category":      "",
		"topics":        []string{},
	}
}

// PlaygroundFields exercises every widget kind: a flex container, a static
// multi select and single and multi async selects.
func PlaygroundFields(fetch model.OptionsFetcher) []model.Descriptor {
	return []model.Descriptor{
		model.Field{Kind: model.FieldKindText, Name: "name", Label: "Name", Required: true},
		model.Container{
			Name: "email-password",
			Fields: []model.Descriptor{
				model.Field{Kind: model.FieldKindEmail, Name: "email", Label: "Email"},
				model.Field{Kind: model.FieldKindPassword, Name: "password", Label: "Password", MinLength: model.Limit(8)},
			},
		},
		model.Field{Kind: model.FieldKindNumber, Name: "currentSalary", Label: "Current salary"},
		model.Field{
			Kind:     model.FieldKindSelect,
			Name:     "gender",
			Label:    "Gender",
			Multiple: true,
			Options: []model.SelectOption{
				{Label: "Male", Value: "M"},
				{Label: "Female", Value: "F"},
			},
		},
		model.Field{
			Kind:           model.FieldKindAsyncSelect,
			Name:           "category",
			Label:          "Category",
			OptionsFetcher: fetch,
		},
		model.Field{
			Kind:           model.FieldKindAsyncSelect,
			Name:           "topics",
			Label:          "Topics",
			Multiple:       true,
			MaxLength:      model.Limit(3),
			OptionsFetcher: fetch,
		},
	}
}
