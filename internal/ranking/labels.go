package ranking

// Labels controls how RankingEntry display names are rendered.
type Labels struct {
	// You is shown in place of the viewer's own identifier.
	You string
	// PlayerPrefix precedes the masked identifier of every other player.
	PlayerPrefix string
	// MaskLength is how many leading runes of the user ID stay visible.
	MaskLength int
	// Ellipsis is appended after the visible part of the ID.
	Ellipsis string
}

// DefaultLabels renders names the way the Portuguese web client always has.
var DefaultLabels = Labels{
	You:          "Você",
	PlayerPrefix: "Jogador ",
	MaskLength:   8,
	Ellipsis:     "...",
}

// DisplayName returns the viewer label when userID is the viewer, and a
// masked player label otherwise. An empty viewerID never matches.
func (l Labels) DisplayName(userID, viewerID string) string {
	if viewerID != "" && userID == viewerID {
		return l.You
	}
	return l.PlayerPrefix + maskID(userID, l.MaskLength) + l.Ellipsis
}

func maskID(userID string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(userID)
	if len(runes) <= n {
		return userID
	}
	return string(runes[:n])
}
