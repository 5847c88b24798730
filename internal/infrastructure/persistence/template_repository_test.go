package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rooted/analytics/internal/domain/shared"
	"github.com/rooted/analytics/internal/domain/template"
)

func setupTemplateTestDB(t *testing.T) *gorm.DB {
	db := newSQLiteDB(t, "admin_configs")
	execAll(t, db, `CREATE TABLE admin_configs.report_templates (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		template_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'performance',
		prompt TEXT NOT NULL,
		period TEXT,
		data_fetcher TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		created_by TEXT,
		modified_by TEXT,
		UNIQUE (client_id, template_id)
	)`)
	return db
}

func seedTemplate(t *testing.T, repo *GormTemplateRepository, clientID, templateID, title string) *template.Template {
	t.Helper()
	tpl, err := template.New(clientID, templateID, title, "", "", "Summarize "+title, "ops@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), tpl))
	return tpl
}

func templateIDs(ts []template.Template) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ClientID+"/"+t.TemplateID)
	}
	return out
}

func TestGormTemplateRepository_List(t *testing.T) {
	repo := NewGormTemplateRepository(setupTemplateTestDB(t))
	ctx := context.Background()

	seedTemplate(t, repo, template.AllClients, "weekly-executive", "Weekly Executive")
	seedTemplate(t, repo, "jumbomax", "monthly-performance", "Monthly Performance")
	seedTemplate(t, repo, "jumbomax", "email-retention", "Email Retention")
	seedTemplate(t, repo, "puttout", "platform-deep-dive", "Platform Deep Dive")

	tests := []struct {
		name   string
		filter template.Filter
		want   []string
	}{
		{
			name:   "all active templates ordered by client then title",
			filter: template.Filter{},
			want:   []string{"all/weekly-executive", "jumbomax/email-retention", "jumbomax/monthly-performance", "puttout/platform-deep-dive"},
		},
		{
			name:   "client templates include shared ones",
			filter: template.Filter{ClientID: "jumbomax"},
			want:   []string{"all/weekly-executive", "jumbomax/email-retention", "jumbomax/monthly-performance"},
		},
		{
			name:   "unknown client sees only shared",
			filter: template.Filter{ClientID: "hb"},
			want:   []string{"all/weekly-executive"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, templateIDs(got))
		})
	}
}

func TestGormTemplateRepository_ReadDefaults(t *testing.T) {
	repo := NewGormTemplateRepository(setupTemplateTestDB(t))
	seedTemplate(t, repo, "hb", "hb-monthly-performance", "HB Monthly")

	got, err := repo.List(context.Background(), template.Filter{ClientID: "hb"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, template.DefaultPeriod, got[0].Period)
	assert.Equal(t, "hb-monthly-performance", got[0].DataFetcher)
	assert.Equal(t, template.DefaultCategory, got[0].Category)
	assert.True(t, got[0].IsActive)
}

func TestGormTemplateRepository_Update(t *testing.T) {
	repo := NewGormTemplateRepository(setupTemplateTestDB(t))
	ctx := context.Background()
	tpl := seedTemplate(t, repo, "jumbomax", "monthly-performance", "Monthly Performance")

	title := "Monthly Review"
	period := "previous_month"
	require.NoError(t, repo.Update(ctx, template.Key{TemplateID: "monthly-performance"}, template.Update{
		Title: &title, Period: &period, ModifiedBy: "analyst@example.com",
	}))

	got, err := repo.List(ctx, template.Filter{ClientID: "jumbomax"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tpl.ID, got[0].ID)
	assert.Equal(t, "Monthly Review", got[0].Title)
	assert.Equal(t, "previous_month", got[0].Period)
	assert.Equal(t, "analyst@example.com", got[0].ModifiedBy)
	assert.Equal(t, "Summarize Monthly Performance", got[0].Prompt)

	t.Run("by primary key", func(t *testing.T) {
		prompt := "New prompt"
		require.NoError(t, repo.Update(ctx, template.Key{ID: &tpl.ID}, template.Update{Prompt: &prompt}))
	})

	t.Run("missing template", func(t *testing.T) {
		err := repo.Update(ctx, template.Key{TemplateID: "nope"}, template.Update{Title: &title})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("empty key", func(t *testing.T) {
		err := repo.Update(ctx, template.Key{}, template.Update{Title: &title})
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestGormTemplateRepository_Delete(t *testing.T) {
	repo := NewGormTemplateRepository(setupTemplateTestDB(t))
	ctx := context.Background()
	seedTemplate(t, repo, "puttout", "platform-deep-dive", "Platform Deep Dive")
	key := template.Key{TemplateID: "platform-deep-dive"}

	require.NoError(t, repo.Delete(ctx, key, false))

	active, err := repo.List(ctx, template.Filter{ClientID: "puttout"})
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := repo.List(ctx, template.Filter{ClientID: "puttout", IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)

	require.NoError(t, repo.Delete(ctx, key, true))
	all, err = repo.List(ctx, template.Filter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.True(t, errors.Is(repo.Delete(ctx, key, true), shared.ErrNotFound))
}
