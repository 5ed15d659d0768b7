package domain

import (
	"strings"

	apperrors "github.com/crinzping/feed-engine/pkg/errors"
)

// AudioAttachment is a locally-referenced audio file picked for a draft.
type AudioAttachment struct {
	URI         string
	SizeBytes   int64
	DisplayName string
}

// Draft is an in-progress, unsubmitted piece of content. All media references
// are local URIs, nothing is uploaded until the draft is confirmed. Drafts are
// never persisted across restarts.
type Draft struct {
	Kind         Kind
	Message      string
	Description  string
	Tags         string
	Images       []string
	Audio        *AudioAttachment
	VideoURI     string
	ThumbnailURI string
}

func NewDraft(kind Kind) *Draft {
	return &Draft{Kind: kind}
}

// Validate enforces the per-kind required fields gating the preview stage:
// text needs a message, an image post needs a description or at least one
// image, a reel needs its video.
func (d *Draft) Validate() error {
	switch d.Kind {
	case KindText:
		if strings.TrimSpace(d.Message) == "" {
			return apperrors.Wrap(apperrors.ErrValidation, "please enter your crinz message")
		}
	case KindImagePost:
		if strings.TrimSpace(d.Description) == "" && len(d.Images) == 0 {
			return apperrors.Wrap(apperrors.ErrValidation, "please add a description or at least one image")
		}
		if len(d.Images) > MaxPostImages {
			return apperrors.Wrap(apperrors.ErrValidation, "too many images")
		}
	case KindReel:
		if d.VideoURI == "" {
			return apperrors.Wrap(apperrors.ErrValidation, "please select a video for your reel")
		}
	default:
		return apperrors.Wrap(apperrors.ErrValidation, "unknown draft kind")
	}
	return nil
}

// Reset clears every field back to the just-mounted state, keeping the kind.
func (d *Draft) Reset() {
	kind := d.Kind
	*d = Draft{Kind: kind}
}

// Submission is the outbound shape handed to the backend sink on confirm.
type Submission struct {
	Kind         Kind
	Author       string
	Message      string
	Description  string
	Tags         string
	Images       []string
	AudioURI     string
	VideoURI     string
	ThumbnailURI string
}

// ToSubmission snapshots the draft for the backend.
func (d *Draft) ToSubmission(author string) Submission {
	s := Submission{
		Kind:         d.Kind,
		Author:       author,
		Message:      strings.TrimSpace(d.Message),
		Description:  strings.TrimSpace(d.Description),
		Tags:         strings.TrimSpace(d.Tags),
		Images:       append([]string(nil), d.Images...),
		VideoURI:     d.VideoURI,
		ThumbnailURI: d.ThumbnailURI,
	}
	if d.Audio != nil {
		s.AudioURI = d.Audio.URI
	}
	return s
}
