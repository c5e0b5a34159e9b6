package seeder

import (
	"context"
	"fmt"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/matching"

	"github.com/google/uuid"
)

// demoNamespace keeps demo profile ids stable across runs.
var demoNamespace = uuid.MustParse("6f1d7c1e-3c0b-4a43-9a57-2d0c1b9e8f10")

type DemoProfile struct {
	ID          uuid.UUID
	DisplayName string
	Bio         string
	Rating      float64
	Offered     []string
	Wanted      []string
}

func DemoProfileID(displayName string) uuid.UUID {
	return uuid.NewSHA1(demoNamespace, []byte(displayName))
}

func DemoProfiles() []DemoProfile {
	mk := func(name, bio string, rating float64, offered, wanted []string) DemoProfile {
		return DemoProfile{
			ID:          DemoProfileID(name),
			DisplayName: name,
			Bio:         bio,
			Rating:      rating,
			Offered:     offered,
			Wanted:      wanted,
		}
	}
	return []DemoProfile{
		mk("Ana", "Pianist who wants to learn backend work.", 4.8, []string{"Piano", "Music Theory"}, []string{"Go", "PostgreSQL"}),
		mk("Ben", "Backend engineer, amateur cook.", 4.5, []string{"Go", "PostgreSQL", "Docker"}, []string{"Piano", "Cooking"}),
		mk("Carla", "Chef and language nerd.", 4.2, []string{"Cooking", "Spanish"}, []string{"Docker"}),
		mk("Dan", "Frontend developer.", 3.9, []string{"TypeScript", "React"}, []string{"Spanish", "Go"}),
		mk("Eve", "Photographer.", 4.0, []string{"Photography"}, []string{"Music Theory"}),
	}
}

// ProfilesSeeder upserts profiles and replaces their skill lists.
type ProfilesSeeder struct {
	Profiles []DemoProfile
}

func (ProfilesSeeder) Name() string { return "profiles" }

func (s ProfilesSeeder) Run(ctx context.Context, db database.DB) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, p := range s.Profiles {
		if _, err := tx.Exec(ctx,
			`INSERT INTO profiles (id, display_name, bio, rating)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO UPDATE
			 SET display_name = EXCLUDED.display_name, bio = EXCLUDED.bio, rating = EXCLUDED.rating, updated_at = now()`,
			p.ID, p.DisplayName, p.Bio, p.Rating,
		); err != nil {
			return fmt.Errorf("upsert profile %s: %w", p.DisplayName, err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM profile_skills WHERE profile_id = $1`, p.ID); err != nil {
			return fmt.Errorf("clear skills %s: %w", p.DisplayName, err)
		}

		for kind, names := range map[string][]string{"offered": p.Offered, "wanted": p.Wanted} {
			for _, name := range matching.NewSkillSet(names...).Names() {
				if _, err := tx.Exec(ctx,
					`INSERT INTO profile_skills (profile_id, kind, name) VALUES ($1, $2, $3)`,
					p.ID, kind, name,
				); err != nil {
					return fmt.Errorf("insert skill %s/%s: %w", p.DisplayName, name, err)
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
