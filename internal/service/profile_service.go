package service

import (
	"context"
	"log/slog"
	"strings"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/validation"
)

type ProfileService struct {
	repo   repository.ProfileRepository
	images *ImageService
}

// ProfileInput replaces every editable profile field. Avatar, when set, is
// the raw upload.
type ProfileInput struct {
	UserID      uint
	Bio         string
	Location    string
	Website     string
	Phone       string
	TwitterURL  string
	GithubURL   string
	LinkedinURL string
	Avatar      []byte
}

// NormalizeReport counts what NormalizeAll did.
type NormalizeReport struct {
	Checked   int
	Rewritten int
	Failed    int
}

func NewProfileService(repo repository.ProfileRepository, images *ImageService) *ProfileService {
	return &ProfileService{repo: repo, images: images}
}

func (s *ProfileService) GetOrCreate(ctx context.Context, userID uint) (*models.Profile, error) {
	p, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.withURL(p)
	return p, nil
}

// Update validates and saves the profile. A new avatar is normalized and
// stored; without one, an existing avatar is re-checked against the avatar box.
func (s *ProfileService) Update(ctx context.Context, in ProfileInput) (*models.Profile, error) {
	in.Bio = strings.TrimSpace(in.Bio)
	in.Location = strings.TrimSpace(in.Location)
	in.Phone = strings.TrimSpace(in.Phone)

	fields := validation.Fields{}
	fields.MaxLen("bio", in.Bio, 500)
	fields.MaxLen("location", in.Location, 100)
	fields.MaxLen("phone", in.Phone, 20)
	fields.URL("website", in.Website)
	fields.URL("twitter_url", in.TwitterURL)
	fields.URL("github_url", in.GithubURL)
	fields.URL("linkedin_url", in.LinkedinURL)
	if !fields.OK() {
		return nil, models.NewFieldErrors(fields)
	}

	p, err := s.repo.GetOrCreate(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	oldAvatar := p.Avatar
	if len(in.Avatar) > 0 {
		img, err := s.images.StoreAvatar(ctx, in.UserID, in.Avatar)
		if err != nil {
			if models.IsCode(err, models.CodeValidation) {
				return nil, models.NewFieldErrors(map[string]string{"avatar": err.Error()})
			}
			return nil, err
		}
		p.Avatar = img.Key
	} else if p.Avatar != "" {
		if _, err := s.images.NormalizeAvatar(ctx, p.Avatar); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to normalize avatar",
				slog.String("key", p.Avatar), slog.String("error", err.Error()))
		}
	}

	p.Bio = in.Bio
	p.Location = in.Location
	p.Website = in.Website
	p.Phone = in.Phone
	p.TwitterURL = in.TwitterURL
	p.GithubURL = in.GithubURL
	p.LinkedinURL = in.LinkedinURL

	if err := s.repo.Save(ctx, p); err != nil {
		if p.Avatar != oldAvatar {
			s.images.Remove(ctx, p.Avatar)
		}
		return nil, err
	}
	if p.Avatar != oldAvatar {
		s.images.Remove(ctx, oldAvatar)
	}
	s.withURL(p)
	return p, nil
}

// NormalizeAll re-checks every stored avatar.
func (s *ProfileService) NormalizeAll(ctx context.Context) (NormalizeReport, error) {
	var report NormalizeReport
	profiles, err := s.repo.ListWithAvatar(ctx)
	if err != nil {
		return report, err
	}
	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Checked++
		rewritten, err := s.images.NormalizeAvatar(ctx, p.Avatar)
		if err != nil {
			report.Failed++
			middleware.Logger.WarnContext(ctx, "failed to normalize avatar",
				slog.Uint64("user_id", uint64(p.UserID)), slog.String("error", err.Error()))
			continue
		}
		if rewritten {
			report.Rewritten++
		}
	}
	return report, nil
}

func (s *ProfileService) withURL(p *models.Profile) {
	p.AvatarURL = s.images.URL(p.Avatar)
}
