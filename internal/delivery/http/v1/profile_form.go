package v1

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"
)

// parseProfileUpdate maps submitted form values onto a partial update. A key
// that is present sets the field, even when its value is empty.
func parseProfileUpdate(form url.Values) (*domain.ProfileUpdate, error) {
	update := &domain.ProfileUpdate{}
	fields := map[string]string{}

	str := func(key string) *string {
		values, ok := form[key]
		if !ok {
			return nil
		}
		v := ""
		if len(values) > 0 {
			v = values[0]
		}
		return &v
	}

	update.Name = str("name")
	update.Title = str("title")
	update.Bio = str("bio")
	update.Location = str("location")
	update.WebsiteURL = str("websiteUrl")
	update.PrimaryColor = str("primaryColor")
	update.SecondaryColor = str("secondaryColor")
	update.Industry = str("industry")

	if v := str("status"); v != nil {
		status := domain.Status(strings.TrimSpace(*v))
		update.Status = &status
	}

	if v := str("yearsOfExperience"); v != nil {
		years, err := strconv.Atoi(strings.TrimSpace(*v))
		if err != nil {
			fields["yearsOfExperience"] = "yearsOfExperience must be a whole number"
		} else {
			update.YearsOfExperience = &years
		}
	}

	if v := str("interests"); v != nil {
		interests, err := parseInterests(*v)
		if err != nil {
			fields["interests"] = "interests must be a JSON array or a comma-separated list"
		} else {
			update.Interests = &interests
		}
	}

	// An explicit empty URL without a new file removes the attachment
	if v := str("avatarUrl"); v != nil && strings.TrimSpace(*v) == "" {
		update.ClearAvatar = true
	}
	if v := str("resumeUrl"); v != nil && strings.TrimSpace(*v) == "" {
		update.ClearResume = true
	}

	if len(fields) > 0 {
		return nil, apperror.Validation("Validation failed", fields)
	}
	return update, nil
}

// parseInterests accepts `["go","rust"]` or `go, rust`; "" yields an empty list.
func parseInterests(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	return strings.Split(raw, ","), nil
}

// readUpload loads at most limit+1 bytes so oversized files are still
// detected by the size check in storage.
func readUpload(fh *multipart.FileHeader, limit int64) (*domain.Upload, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, err
	}
	return &domain.Upload{Filename: fh.Filename, Data: data}, nil
}
