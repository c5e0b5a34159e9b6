package seeder

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"skill-swap/internal/database"

	"github.com/rs/zerolog"
)

type execCall struct {
	query string
	args  []any
}

type fakeTx struct {
	calls     []execCall
	failOn    string
	committed bool
}

func (t *fakeTx) Exec(_ context.Context, query string, args ...any) (int64, error) {
	t.calls = append(t.calls, execCall{query: query, args: args})
	if t.failOn != "" && strings.Contains(query, t.failOn) {
		return 0, errors.New("boom")
	}
	return 1, nil
}

func (t *fakeTx) Query(context.Context, string, ...any) (database.Rows, error) {
	return nil, errors.New("not supported")
}

func (t *fakeTx) QueryRow(context.Context, string, ...any) database.Row {
	return nil
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	return nil
}

type fakeDB struct {
	tx *fakeTx
}

func (d *fakeDB) Ping(context.Context) error { return nil }
func (d *fakeDB) Close() error               { return nil }
func (d *fakeDB) SQLDB() *sql.DB             { return nil }

func (d *fakeDB) Exec(context.Context, string, ...any) (int64, error) {
	return 0, nil
}

func (d *fakeDB) Query(context.Context, string, ...any) (database.Rows, error) {
	return nil, errors.New("not supported")
}

func (d *fakeDB) QueryRow(context.Context, string, ...any) database.Row {
	return nil
}

func (d *fakeDB) Begin(context.Context) (database.Tx, error) {
	return d.tx, nil
}

func TestProfilesSeeder_NormalizesSkills(t *testing.T) {
	tx := &fakeTx{}
	s := ProfilesSeeder{Profiles: []DemoProfile{{
		ID:          DemoProfileID("Ana"),
		DisplayName: "Ana",
		Offered:     []string{" Piano ", "piano", "Music Theory"},
		Wanted:      []string{"Go"},
	}}}

	if err := s.Run(context.Background(), &fakeDB{tx: tx}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !tx.committed {
		t.Fatalf("expected commit")
	}

	var skills []string
	for _, c := range tx.calls {
		if strings.Contains(c.query, "INSERT INTO profile_skills") {
			skills = append(skills, c.args[1].(string)+":"+c.args[2].(string))
		}
	}
	want := map[string]bool{"offered:music theory": true, "offered:piano": true, "wanted:go": true}
	if len(skills) != len(want) {
		t.Fatalf("expected %d skill rows, got %v", len(want), skills)
	}
	for _, s := range skills {
		if !want[s] {
			t.Fatalf("unexpected skill row %q", s)
		}
	}
}

func TestProfilesSeeder_StopsOnError(t *testing.T) {
	tx := &fakeTx{failOn: "DELETE FROM profile_skills"}
	s := ProfilesSeeder{Profiles: DemoProfiles()}

	if err := s.Run(context.Background(), &fakeDB{tx: tx}); err == nil {
		t.Fatalf("expected error")
	}
	if tx.committed {
		t.Fatalf("expected no commit")
	}
}

func TestDemoProfileID_Stable(t *testing.T) {
	if DemoProfileID("Ana") != DemoProfileID("Ana") {
		t.Fatalf("expected stable id")
	}
	if DemoProfileID("Ana") == DemoProfileID("Ben") {
		t.Fatalf("expected distinct ids")
	}
}

func TestRunner(t *testing.T) {
	r := Runner{Seeders: Defaults(), Logger: zerolog.Nop()}
	if err := r.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected nil db error")
	}

	tx := &fakeTx{}
	if err := r.Run(context.Background(), &fakeDB{tx: tx}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !tx.committed {
		t.Fatalf("expected commit")
	}
}
