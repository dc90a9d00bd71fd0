package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/sanadlabs/sanad-backend/internal/db"
	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/repos"
	"github.com/sanadlabs/sanad-backend/internal/types"
	"github.com/sanadlabs/sanad-backend/internal/utils"
)

type collectionSeed struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	ArabicName  string `yaml:"arabic_name"`
	Compiler    string `yaml:"compiler"`
	Description string `yaml:"description"`

	Narrations []narrationSeed `yaml:"narrations"`
}

type narrationSeed struct {
	BookNumber    int    `yaml:"book_number"`
	HadithNumber  int    `yaml:"hadith_number"`
	ArabicText    string `yaml:"arabic_text"`
	Translation   string `yaml:"translation"`
	NarratorChain string `yaml:"narrator_chain"`
	Grade         string `yaml:"grade"`
}

type achievementSeed struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Threshold   int    `yaml:"threshold"`
	Tier        int    `yaml:"tier"`
	XPReward    int    `yaml:"xp_reward"`
}

func main() {
	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	collectionsPath := utils.GetEnv("COLLECTIONS_SEED_PATH", "config/collections.yaml", log)
	achievementsPath := utils.GetEnv("ACHIEVEMENTS_SEED_PATH", "config/achievements.yaml", log)

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	collectionRepo := repos.NewCollectionRepo(thePG, log)
	narrationRepo := repos.NewNarrationRepo(thePG, log)
	achievementRepo := repos.NewAchievementRepo(thePG, log)

	ctx := context.Background()

	if err := seedCollections(ctx, log, collectionsPath, collectionRepo, narrationRepo); err != nil {
		log.Fatal("Seeding collections failed", "error", err)
	}
	if err := seedAchievements(ctx, log, achievementsPath, achievementRepo); err != nil {
		log.Fatal("Seeding achievements failed", "error", err)
	}
	log.Info("Seeding complete")
}

func seedCollections(ctx context.Context, log *logger.Logger, path string, collectionRepo repos.CollectionRepo, narrationRepo repos.NarrationRepo) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var seeds []collectionSeed
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	for _, seed := range seeds {
		existing, err := collectionRepo.GetBySlugs(ctx, nil, []string{seed.Slug})
		if err != nil {
			return fmt.Errorf("look up collection %q: %w", seed.Slug, err)
		}
		if len(existing) > 0 {
			// Re-running the seeder never duplicates narrations.
			log.Info("Collection already seeded, skipping", "slug", seed.Slug)
			continue
		}
		collection := &types.Collection{
			Slug:        seed.Slug,
			Name:        seed.Name,
			ArabicName:  seed.ArabicName,
			Compiler:    seed.Compiler,
			Description: seed.Description,
		}
		created, err := collectionRepo.Create(ctx, nil, []*types.Collection{collection})
		if err != nil {
			return fmt.Errorf("create collection %q: %w", seed.Slug, err)
		}
		collection = created[0]

		narrations := make([]*types.Narration, 0, len(seed.Narrations))
		for _, n := range seed.Narrations {
			narrations = append(narrations, &types.Narration{
				CollectionID:  collection.ID,
				BookNumber:    n.BookNumber,
				HadithNumber:  n.HadithNumber,
				ArabicText:    n.ArabicText,
				Translation:   n.Translation,
				NarratorChain: n.NarratorChain,
				Grade:         n.Grade,
			})
		}
		if len(narrations) > 0 {
			if _, err := narrationRepo.Create(ctx, nil, narrations); err != nil {
				return fmt.Errorf("create narrations for %q: %w", seed.Slug, err)
			}
		}
		log.Info("Seeded collection", "slug", seed.Slug, "narrations", len(narrations))
	}
	return nil
}

func seedAchievements(ctx context.Context, log *logger.Logger, path string, achievementRepo repos.AchievementRepo) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var seeds []achievementSeed
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	achievements := make([]*types.Achievement, 0, len(seeds))
	for _, seed := range seeds {
		criteria, err := json.Marshal(map[string]any{
			"category":  seed.Category,
			"threshold": seed.Threshold,
		})
		if err != nil {
			return fmt.Errorf("marshal criteria for %q: %w", seed.Slug, err)
		}
		tier := seed.Tier
		if tier == 0 {
			tier = 1
		}
		achievements = append(achievements, &types.Achievement{
			Slug:        seed.Slug,
			Name:        seed.Name,
			Description: seed.Description,
			Category:    seed.Category,
			Threshold:   seed.Threshold,
			Tier:        tier,
			XPReward:    seed.XPReward,
			Criteria:    datatypes.JSON(criteria),
		})
	}
	if err := achievementRepo.UpsertBySlug(ctx, nil, achievements); err != nil {
		return fmt.Errorf("upsert achievements: %w", err)
	}
	log.Info("Seeded achievements", "count", len(achievements))
	return nil
}
