package store

import (
	"context"
	"time"

	"rollcall/internal/candidate/models"
)

// Seed installs the default demonstration roster so a fresh process has data
// to chart immediately. Seeding bypasses the service layer on purpose: no
// subscribers exist yet, and new connections receive a full snapshot anyway.
func Seed(ctx context.Context, s *InMemory) {
	defaults := []models.CandidateInput{
		{
			Name:           "Nicușor Dan",
			PoliticalParty: "USR (Save Romania Union)",
			Description:    "Current Mayor of Bucharest and prominent civic activist. Mathematical background with a PhD from École Normale Supérieure. Known for his anti-corruption stance and urban development initiatives.",
		},
		{
			Name:           "Ilie Bolojan",
			PoliticalParty: "PNL (National Liberal Party)",
			Description:    "Mayor of Oradea since 2011 and one of Romania's most respected local administrators. Known for transforming Oradea into a model European city through efficient governance and transparency.",
		},
		{
			Name:           "Marcel Ciolacu",
			PoliticalParty: "PSD (Social Democratic Party)",
			Description:    "Chairman of the Social Democratic Party and Speaker of the Chamber of Deputies. Career politician focused on social policies, economic development, and Romania's position within the EU.",
		},
		{
			Name:           "Călin Georgescu",
			PoliticalParty: "Independent",
			Description:    "Independent political figure and former UN executive with a background in international relations and environmental policy. Advocates for national sovereignty and environmental protection.",
		},
		{
			Name:           "George Simion",
			PoliticalParty: "AUR (Alliance for the Unity of Romanians)",
			Description:    "Chairman and co-founder of the Alliance for the Unity of Romanians party. Advocates for the unification of Romania with the Republic of Moldova and is active in diaspora civic movements.",
		},
	}

	now := time.Now()
	for _, in := range defaults {
		s.Insert(ctx, models.New(in, now))
	}
}
