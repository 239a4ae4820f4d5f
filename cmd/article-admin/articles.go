package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-article-admin/internal/admin"
	"github.com/goliatone/go-article-admin/internal/textutil"
	"github.com/goliatone/go-article-admin/pkg/articles"
	"github.com/goliatone/go-article-admin/pkg/form"
	"github.com/goliatone/go-article-admin/pkg/render"
	"github.com/goliatone/go-article-admin/pkg/renderers/tui"
	"github.com/goliatone/go-article-admin/pkg/table"
)

const cellWidth = 40

func newListCmd(a *app) *cobra.Command {
	var (
		deleted bool
		limit   int
		offset  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				limit = a.cfg.UI.PageSize
			}
			params := articles.ListParams{Limit: limit, Offset: max(offset, 0)}
			client := a.client()

			res := client.List(cmd.Context(), params)
			if deleted {
				res = client.ListDeleted(cmd.Context(), params)
			}
			if !res.OK() {
				return fmt.Errorf("list articles: %s", res.Error)
			}

			pageIndex := params.Offset / params.Limit
			hasNext := table.HasNextPage(len(res.Data), params.Limit)
			tbl := table.New(listColumns(), res.Data,
				table.WithManualPagination[articles.Article](pageIndex, table.ManualPageCount(pageIndex, hasNext), nil),
			)
			out, err := tui.NewTable(tui.DefaultStyles(), cellWidth).RenderTable(cmd.Context(), tbl.View(), render.RenderOptions{})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&deleted, "deleted", false, "list soft-deleted articles")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (default from config)")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	return cmd
}

func listColumns() []table.Column[articles.Article] {
	return []table.Column[articles.Article]{
		{ID: "id", Header: "ID", Value: func(a articles.Article) any { return a.ID }},
		{ID: "title", Header: "Title", Value: func(a articles.Article) any { return a.Title }},
		{ID: "category", Header: "Category", Value: func(a articles.Article) any { return a.Category }},
		{ID: "status", Header: "Status", Value: func(a articles.Article) any { return string(a.Status) }},
	}
}

func newShowCmd(a *app) *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Render a published article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.client().GetPublished(cmd.Context(), args[0])
			if !res.OK() {
				return errors.New(admin.MessageArticleMissing)
			}

			opts := []glamour.TermRendererOption{glamour.WithWordWrap(80)}
			if style == "auto" {
				opts = append(opts, glamour.WithAutoStyle())
			} else {
				opts = append(opts, glamour.WithStandardStyle(style))
			}
			renderer, err := glamour.NewTermRenderer(opts...)
			if err != nil {
				return fmt.Errorf("markdown renderer: %w", err)
			}
			out, err := renderer.Render(articleMarkdown(res.Data))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style: auto, dark, light, notty")
	return cmd
}

func articleMarkdown(a articles.Article) string {
	return fmt.Sprintf("# %s\n\n*%s*\n\n%s\n",
		a.Title,
		textutil.Capitalize(a.Category),
		textutil.SplitLongWords(a.Content, admin.PreviewWordBreak),
	)
}

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create an article interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			article, err := a.promptArticle(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			if err := articles.ValidateCreate(cmd.Context(), article); err != nil {
				return err
			}
			res := a.client().Create(cmd.Context(), article)
			if !res.OK() {
				return fmt.Errorf("create article: %s", res.Error)
			}
			a.logger.Debug("article created", zap.Int64("id", res.Data.ID))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d)\n", admin.MessageCreated, res.Data.ID)
			return err
		},
	}
}

// promptArticle fills the article form from the terminal.
func (a *app) promptArticle(ctx context.Context, cmd *cobra.Command) (articles.CreateDTO, error) {
	f := form.New(admin.ArticleRecord(), form.WithID("article-cli"), form.WithLogger(a.logger.Named("form")))
	ctx, scope := f.Provide(ctx)
	defer scope.Unmount()

	if _, err := f.Bind(ctx, admin.ArticleFields()); err != nil {
		return articles.CreateDTO{}, err
	}

	opts := []tui.Option{tui.WithOutput(cmd.OutOrStdout())}
	if a.driver != nil {
		opts = append(opts, tui.WithPromptDriver(a.driver))
	}
	if err := tui.New(opts...).Fill(ctx, scope); err != nil {
		return articles.CreateDTO{}, err
	}

	dto := admin.ArticleFromRecord(scope.Data())
	status, err := articles.ParseStatus(string(dto.Status))
	if err != nil {
		return articles.CreateDTO{}, err
	}
	dto.Status = status
	return dto, nil
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("invalid article id %q", args[0])
			}
			if res := a.client().Delete(cmd.Context(), args[0]); !res.OK() {
				return fmt.Errorf("delete article: %s", res.Error)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), admin.MessageDeleted)
			return err
		},
	}
}
