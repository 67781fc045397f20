package database

import (
	"strings"
	"testing"
)

func TestRewritePlaceholdersToNumbered(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no placeholders",
			query: "SELECT 1",
			want:  "SELECT 1",
		},
		{
			name:  "single placeholder",
			query: "SELECT * FROM games WHERE id = ?",
			want:  "SELECT * FROM games WHERE id = $1",
		},
		{
			name:  "multiple placeholders",
			query: "INSERT INTO game_scores (user_id, game_id, score) VALUES (?, ?, ?)",
			want:  "INSERT INTO game_scores (user_id, game_id, score) VALUES ($1, $2, $3)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewritePlaceholdersToNumbered(tt.query); got != tt.want {
				t.Errorf("rewritePlaceholdersToNumbered() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDialectContracts(t *testing.T) {
	dialects := []struct {
		name           string
		dialect        Dialect
		wantDriver     string
		supportsLastID bool
	}{
		{name: "sqlite", dialect: NewSQLiteDialect(), wantDriver: "sqlite3", supportsLastID: true},
		{name: "postgres", dialect: NewPostgresDialect(), wantDriver: "postgres", supportsLastID: false},
		{name: "mysql", dialect: NewMySQLDialect(), wantDriver: "mysql", supportsLastID: true},
	}

	for _, tt := range dialects {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.wantDriver {
				t.Errorf("DriverName() = %q, want %q", got, tt.wantDriver)
			}
			if got := tt.dialect.SupportsLastInsertId(); got != tt.supportsLastID {
				t.Errorf("SupportsLastInsertId() = %v, want %v", got, tt.supportsLastID)
			}
			if tt.dialect.CreateMigrationsTableQuery() == "" {
				t.Error("CreateMigrationsTableQuery() is empty")
			}
		})
	}
}

func TestPostgresRewrite(t *testing.T) {
	d := NewPostgresDialect()
	got := d.RewriteQuery("UPDATE games SET title = ? WHERE id = ?")
	want := "UPDATE games SET title = $1 WHERE id = $2"
	if got != want {
		t.Errorf("RewriteQuery() = %q, want %q", got, want)
	}
}

// Both upsert statements must target the same conflict key and take the
// same (user_id, game_id, score) placeholder order on every dialect.
func TestGameScoreUpserts(t *testing.T) {
	dialects := map[string]Dialect{
		"sqlite":   NewSQLiteDialect(),
		"postgres": NewPostgresDialect(),
		"mysql":    NewMySQLDialect(),
	}

	for name, d := range dialects {
		t.Run(name, func(t *testing.T) {
			for _, q := range []string{d.GameScoreUpsertMax(), d.GameScoreUpsertLatest()} {
				if !strings.Contains(q, "game_scores") {
					t.Errorf("upsert does not target game_scores: %s", q)
				}
				if got := strings.Count(q, "?"); got != 3 {
					t.Errorf("upsert has %d placeholders, want 3: %s", got, q)
				}
			}
			max := d.GameScoreUpsertMax()
			if !strings.Contains(max, "GREATEST") && !strings.Contains(max, "MAX(") {
				t.Errorf("keep-max upsert has no max/greatest merge: %s", max)
			}
		})
	}
}
