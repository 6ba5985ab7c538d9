// internal/comic/labels.go
//
// Fixed lookup tables for enumerated catalog fields.

package comic

// Content ratings.
const (
	RatingSafe       = "safe"
	RatingSuggestive = "suggestive"
	RatingErotica    = "erotica"
)

// Publication status codes.
const (
	StatusOngoing   = 1
	StatusCompleted = 2
	StatusCancelled = 3
	StatusHiatus    = 4
)

// AllRatings, AllOrigins and AllStatuses are the unfiltered defaults.
var (
	AllRatings  = []string{RatingSafe, RatingSuggestive, RatingErotica}
	AllOrigins  = []string{"jp", "kr", "cn", "hk", "gb"}
	AllStatuses = []int{StatusOngoing, StatusCompleted, StatusCancelled, StatusHiatus}
)

// StatusLabel maps a status code to its display label.
func StatusLabel(code int) string {
	switch code {
	case StatusOngoing:
		return "Ongoing"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	case StatusHiatus:
		return "On Hiatus"
	default:
		return "Unknown"
	}
}

// CountryName maps an origin country code to a place name.
// Unknown codes read as an English-speaking country.
func CountryName(code string) string {
	switch code {
	case "jp":
		return "Japan"
	case "kr":
		return "Korea"
	case "cn":
		return "China"
	case "hk":
		return "Hong Kong"
	default:
		return "an English-speaking country"
	}
}

// ComicKind names the regional comic format for an origin code, or "".
func ComicKind(code string) string {
	switch code {
	case "jp":
		return "manga"
	case "kr":
		return "manhwa"
	case "cn":
		return "manhua"
	default:
		return ""
	}
}

// DemographicLabel maps a demographic code to its label, or "".
func DemographicLabel(code int) string {
	switch code {
	case 1:
		return "Shounen"
	case 2:
		return "Shoujo"
	case 3:
		return "Seinen"
	case 4:
		return "Josei"
	default:
		return ""
	}
}
