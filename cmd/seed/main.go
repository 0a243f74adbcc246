// Command seed fills a development database with demo portfolios.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"portfolio-cms-backend/config"
	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/internal/repository/postgres"
	"portfolio-cms-backend/internal/usecase"
	"portfolio-cms-backend/migrations"
	"portfolio-cms-backend/pkg/auth"
	"portfolio-cms-backend/pkg/database"
	"portfolio-cms-backend/pkg/logger"
	"portfolio-cms-backend/pkg/storage"
	"portfolio-cms-backend/pkg/validation"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gosimple/slug"
)

var (
	industries = []string{"Technology", "Design", "Finance", "Healthcare", "Education", "Gaming"}
	techs      = []string{"Go", "PostgreSQL", "Redis", "React", "TypeScript", "Docker", "Kubernetes", "Rust", "Python", "gRPC"}
	interests  = []string{"open source", "distributed systems", "ui design", "machine learning", "devops", "security", "photography"}
	platforms  = []string{"GitHub", "LinkedIn", "Mastodon", "Dribbble"}
)

func main() {
	users := flag.Int("users", 10, "number of demo users to create")
	password := flag.String("password", "portfolio-demo", "password for every demo user")
	seed := flag.Int64("seed", 0, "random seed (0 picks one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	gofakeit.Seed(*seed)

	ctx := context.Background()
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	if err := database.Migrate(ctx, dbPool, migrations.FS); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	files, err := storage.NewLocalStorage(cfg.UploadDir, cfg.APIBaseURL, storage.Options{MaxBytes: cfg.MaxUploadBytes})
	if err != nil {
		log.Fatalf("Failed to open upload dir: %v", err)
	}

	validate := validation.New()
	userRepo := postgres.NewUserRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	linkRepo := postgres.NewSocialLinkRepository(dbPool)
	projectRepo := postgres.NewProjectRepository(dbPool)
	postRepo := postgres.NewBlogPostRepository(dbPool)

	s := &seeder{
		auth:     usecase.NewAuthUsecase(userRepo, profileRepo, auth.NewPasswordHasher(cfg.BcryptCost), auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry), validate),
		profiles: usecase.NewProfileUsecase(userRepo, profileRepo, linkRepo, projectRepo, postRepo, files, validate),
		links:    usecase.NewSocialLinkUsecase(profileRepo, linkRepo, validate),
		projects: usecase.NewProjectUsecase(projectRepo, validate),
		posts:    usecase.NewBlogPostUsecase(postRepo, validate),
	}

	created := 0
	for i := 0; i < *users; i++ {
		email, err := s.portfolio(ctx, *password)
		if err != nil {
			logger.Log.Error("Failed to seed portfolio", "error", err)
			continue
		}
		created++
		logger.Log.Info("Seeded portfolio", "email", email)
	}
	fmt.Printf("Created %d of %d demo users (password %q)\n", created, *users, *password)
}

type seeder struct {
	auth     domain.AuthUsecase
	profiles domain.ProfileUsecase
	links    domain.SocialLinkUsecase
	projects domain.ProjectUsecase
	posts    domain.BlogPostUsecase
}

// portfolio registers one user and publishes a filled-in profile with
// projects, posts and links. Roughly a third of the content stays draft.
func (s *seeder) portfolio(ctx context.Context, password string) (string, error) {
	username := strings.ReplaceAll(slug.Make(gofakeit.Username()), "-", "") + gofakeit.DigitN(3)
	res, err := s.auth.Register(ctx, &domain.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
	})
	if err != nil {
		return "", fmt.Errorf("register %s: %w", username, err)
	}
	userID := res.User.ID

	name := gofakeit.Name()
	title := gofakeit.JobTitle()
	bio := gofakeit.Paragraph(2, 3, 12, " ")
	location := gofakeit.City() + ", " + gofakeit.Country()
	website := "https://" + username + ".example.com"
	industry := gofakeit.RandomString(industries)
	years := gofakeit.Number(0, 25)
	status := domain.StatusPublished
	picked := pick(interests, 3)
	primary := gofakeit.HexColor()
	secondary := gofakeit.HexColor()

	profile, err := s.profiles.UpdateProfile(ctx, userID, userID, &domain.ProfileUpdate{
		Name:              &name,
		Title:             &title,
		Bio:               &bio,
		Location:          &location,
		WebsiteURL:        &website,
		Industry:          &industry,
		YearsOfExperience: &years,
		Status:            &status,
		Interests:         &picked,
		PrimaryColor:      &primary,
		SecondaryColor:    &secondary,
	}, domain.ProfileFiles{})
	if err != nil {
		return "", fmt.Errorf("update profile: %w", err)
	}

	for _, platform := range pick(platforms, 2) {
		_, err := s.links.Add(ctx, profile.ID, userID, &domain.SocialLinkInput{
			Platform: platform,
			URL:      "https://" + strings.ToLower(platform) + ".com/" + username,
		})
		if err != nil {
			return "", fmt.Errorf("add social link: %w", err)
		}
	}

	for i := 0; i < gofakeit.Number(1, 4); i++ {
		repo := "https://github.com/" + username + "/" + slug.Make(gofakeit.AppName())
		_, err := s.projects.Create(ctx, userID, &domain.ProjectInput{
			Title:        gofakeit.AppName(),
			Description:  gofakeit.Sentence(12),
			RepoURL:      &repo,
			Status:       randomStatus(),
			DisplayOrder: i,
			Technologies: pick(techs, 3),
		})
		if err != nil {
			return "", fmt.Errorf("create project: %w", err)
		}
	}

	for i := 0; i < gofakeit.Number(1, 3); i++ {
		_, err := s.posts.Create(ctx, userID, &domain.BlogPostInput{
			Title:   gofakeit.Sentence(5) + " " + gofakeit.DigitN(4),
			Content: gofakeit.Paragraph(4, 5, 15, "\n\n"),
			Status:  randomStatus(),
			Tags:    pick(techs, 2),
		})
		if err != nil {
			return "", fmt.Errorf("create blog post: %w", err)
		}
	}

	return res.User.Email, nil
}

func randomStatus() domain.Status {
	if gofakeit.Number(1, 3) == 1 {
		return domain.StatusDraft
	}
	return domain.StatusPublished
}

func pick(from []string, n int) []string {
	shuffled := append([]string(nil), from...)
	gofakeit.ShuffleStrings(shuffled)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
