package util

import (
	"fmt"
	"unicode/utf8"

	"github.com/zfogg/picfeed/internal/models"
)

// NormalizeCaption trims a caption and checks its length; an empty result means "no caption"
func NormalizeCaption(caption string) (*string, error) {
	caption = NormalizeText(caption)
	if caption == "" {
		return nil, nil
	}
	if n := utf8.RuneCountInString(caption); n > models.MaxCaptionLength {
		return nil, fmt.Errorf("caption is %d characters, maximum is %d", n, models.MaxCaptionLength)
	}
	return &caption, nil
}
