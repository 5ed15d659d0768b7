package domain

import (
	"fmt"
	"time"

	apperrors "github.com/crinzping/feed-engine/pkg/errors"
)

type Kind string

const (
	// KindText is a short text-only post ("crinz").
	KindText Kind = "text"
	// KindImagePost is an image carousel with an optional background audio track.
	KindImagePost Kind = "imagePost"
	// KindReel is a short vertical video post.
	KindReel Kind = "reel"
)

// MaxPostImages caps the image carousel of an image post.
const MaxPostImages = 5

func (k Kind) IsValid() bool {
	switch k {
	case KindText, KindImagePost, KindReel:
		return true
	default:
		return false
	}
}

// FeedItem is one entry of a scrollable feed list. The payload fields that
// apply depend on Kind; identity is unique within a list.
type FeedItem struct {
	ID        string
	Kind      Kind
	Author    string
	AvatarURL string
	CreatedAt time.Time
	// PostedAgo is the human-readable age label, recomputed by the refresher.
	PostedAgo string

	Message      string   // text
	Description  string   // imagePost, reel
	ImageURLs    []string // imagePost, 0..MaxPostImages
	AudioURL     string   // imagePost, optional
	VideoURL     string   // reel, exactly one
	ThumbnailURL string   // reel, optional

	LikeCount    int
	CommentCount int
	IsLiked      bool
	Link         string
}

// MediaURI returns the URI whose player the playback controller owns for this
// item, or "" for items that never produce sound.
func (i FeedItem) MediaURI() string {
	switch i.Kind {
	case KindReel:
		return i.VideoURL
	case KindImagePost:
		return i.AudioURL
	default:
		return ""
	}
}

func (i FeedItem) Validate() error {
	if i.ID == "" {
		return apperrors.Wrap(apperrors.ErrValidation, "feed item has no id")
	}
	if !i.Kind.IsValid() {
		return apperrors.Wrap(apperrors.ErrValidation, fmt.Sprintf("unknown feed item kind %q", i.Kind))
	}
	switch i.Kind {
	case KindImagePost:
		if len(i.ImageURLs) > MaxPostImages {
			return apperrors.Wrap(apperrors.ErrValidation,
				fmt.Sprintf("image post %s carries %d images, max is %d", i.ID, len(i.ImageURLs), MaxPostImages))
		}
	case KindReel:
		if i.VideoURL == "" {
			return apperrors.Wrap(apperrors.ErrValidation, fmt.Sprintf("reel %s has no video", i.ID))
		}
	}
	return nil
}
