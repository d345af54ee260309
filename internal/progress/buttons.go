package progress

import (
	"fmt"
	"strings"

	"github.com/xxivani/langcat/internal/srs"
)

// Rating buttons the review UIs show. Four buttons cover the 0..5 quality
// scale: the middle grades collapse onto the ones that matter for pacing.
const (
	ButtonAgain = "again"
	ButtonHard  = "hard"
	ButtonGood  = "good"
	ButtonEasy  = "easy"
)

// QualityForButton maps a rating button to its quality grade. Again is a
// clear lapse rather than a blackout, Hard a near-miss lapse, Good a plain
// pass, Easy a perfect one. Button names are case-insensitive.
func QualityForButton(button string) (srs.Quality, error) {
	switch strings.ToLower(button) {
	case ButtonAgain:
		return srs.QualityWrong, nil
	case ButtonHard:
		return srs.QualityWrongFamiliar, nil
	case ButtonGood:
		return srs.QualityGood, nil
	case ButtonEasy:
		return srs.QualityEasy, nil
	default:
		return 0, fmt.Errorf("%w: unknown button %q", srs.ErrInvalidQuality, button)
	}
}
