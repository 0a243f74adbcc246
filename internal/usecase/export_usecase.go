package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

type exportUsecase struct {
	profiles domain.ProfileUsecase
	now      func() time.Time
}

// NewPortfolioExportUsecase exports through the profile aggregate so the
// owner gets drafts and published content alike.
func NewPortfolioExportUsecase(profiles domain.ProfileUsecase) domain.PortfolioExportUsecase {
	return &exportUsecase{profiles: profiles, now: time.Now}
}

func (u *exportUsecase) ExportPortfolio(ctx context.Context, userID, callerID string) ([]byte, string, error) {
	if err := requireOwner(userID, callerID, "You can only export your own portfolio"); err != nil {
		return nil, "", err
	}

	agg, err := u.profiles.GetProfile(ctx, userID, callerID)
	if err != nil {
		return nil, "", err
	}

	data, err := buildWorkbook(agg)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	filename := fmt.Sprintf("portfolio_%s_%s.xlsx", agg.User.Username, u.now().Format("20060102_150405"))
	return data, filename, nil
}

type sheet struct {
	name    string
	headers []string
	rows    [][]any
}

func buildWorkbook(agg *domain.ProfileAggregate) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []sheet{profileSheet(agg), projectsSheet(agg.Projects), blogPostsSheet(agg.BlogPosts), socialLinksSheet(agg.SocialLinks)}

	// Header style - dark blue background with white text
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, err
		}

		for col, header := range s.headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(s.name, cell, header)
		}
		endCell, _ := excelize.CoordinatesToCellName(len(s.headers), 1)
		f.SetCellStyle(s.name, "A1", endCell, headerStyle)

		for rowIdx, row := range s.rows {
			for col, value := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				f.SetCellValue(s.name, cell, value)
			}
		}

		for col := range s.headers {
			colName, _ := excelize.ColumnNumberToName(col + 1)
			f.SetColWidth(s.name, colName, colName, 24)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func profileSheet(agg *domain.ProfileAggregate) sheet {
	p := agg.Profile
	return sheet{
		name:    "Profile",
		headers: []string{"FIELD", "VALUE"},
		rows: [][]any{
			{"Username", agg.User.Username},
			{"Email", agg.User.Email},
			{"Name", p.Name},
			{"Title", deref(p.Title)},
			{"Bio", deref(p.Bio)},
			{"Location", deref(p.Location)},
			{"Industry", deref(p.Industry)},
			{"Years of Experience", p.YearsOfExperience},
			{"Interests", strings.Join(p.Interests, ", ")},
			{"Website", deref(p.WebsiteURL)},
			{"Avatar", deref(p.AvatarURL)},
			{"Resume", deref(p.ResumeURL)},
			{"Primary Color", p.PrimaryColor},
			{"Secondary Color", p.SecondaryColor},
			{"Status", string(p.Status)},
		},
	}
}

func projectsSheet(projects []domain.Project) sheet {
	s := sheet{
		name:    "Projects",
		headers: []string{"TITLE", "STATUS", "ORDER", "DESCRIPTION", "TECHNOLOGIES", "LIVE URL", "REPO URL", "CREATED AT"},
	}
	for _, p := range projects {
		s.rows = append(s.rows, []any{
			p.Title, string(p.Status), p.DisplayOrder, p.Description, strings.Join(p.TechnologyNames(), ", "),
			deref(p.LiveURL), deref(p.RepoURL), p.CreatedAt.Format(time.RFC3339),
		})
	}
	return s
}

func blogPostsSheet(posts []domain.BlogPost) sheet {
	s := sheet{
		name:    "BlogPosts",
		headers: []string{"TITLE", "SLUG", "STATUS", "PUBLISHED AT", "TAGS", "CREATED AT"},
	}
	for _, p := range posts {
		published := ""
		if p.PublishedAt != nil {
			published = p.PublishedAt.Format(time.RFC3339)
		}
		s.rows = append(s.rows, []any{
			p.Title, p.Slug, string(p.Status), published, strings.Join(p.TagNames(), ", "), p.CreatedAt.Format(time.RFC3339),
		})
	}
	return s
}

func socialLinksSheet(links []domain.SocialLink) sheet {
	s := sheet{name: "SocialLinks", headers: []string{"PLATFORM", "URL"}}
	for _, l := range links {
		s.rows = append(s.rows, []any{l.Platform, l.URL})
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
