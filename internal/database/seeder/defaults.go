package seeder

func Defaults() []Seeder {
	return []Seeder{
		ProfilesSeeder{Profiles: DemoProfiles()},
	}
}
