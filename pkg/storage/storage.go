// Package storage keeps profile attachments on local disk or in an
// S3-compatible bucket.
package storage

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"
	"portfolio-cms-backend/pkg/security"

	"github.com/google/uuid"
)

// Options are shared by every backend.
type Options struct {
	MaxBytes           int64
	AvatarMaxDimension int
}

func (o Options) rule(slot domain.FileSlot) (security.FileRule, error) {
	switch slot {
	case domain.SlotAvatar:
		return security.ImageRule(o.MaxBytes), nil
	case domain.SlotResume:
		return security.PDFRule(o.MaxBytes), nil
	default:
		return security.FileRule{}, fmt.Errorf("unknown file slot %q", slot)
	}
}

// preparedFile is an upload that passed validation and is ready to write.
type preparedFile struct {
	Name        string
	Data        []byte
	ContentType string
}

// prepare validates upload against the slot rule, downscales oversized
// avatars and picks a collision-free file name.
func (o Options) prepare(slot domain.FileSlot, upload *domain.Upload, now time.Time) (*preparedFile, error) {
	if upload == nil {
		return nil, apperror.BadRequest("No file supplied")
	}

	rule, err := o.rule(slot)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	ext, err := security.ValidateFile(upload.Filename, upload.Data, rule)
	if err != nil {
		return nil, apperror.Validation("Invalid "+string(slot)+" file", map[string]string{
			string(slot): err.Error(),
		})
	}

	data := upload.Data
	if slot == domain.SlotAvatar {
		resized, changed, err := downscaleImage(data, ext, o.AvatarMaxDimension)
		if err != nil {
			return nil, apperror.Validation("Invalid avatar file", map[string]string{
				string(slot): err.Error(),
			})
		}
		if changed {
			data, ext = resized, ".jpg"
		}
	}

	name := fmt.Sprintf("%s-%d-%s%s", slot, now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8], ext)
	return &preparedFile{
		Name:        name,
		Data:        data,
		ContentType: http.DetectContentType(data),
	}, nil
}
