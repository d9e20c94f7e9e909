package views

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// maxStart caps the start offset at one week.
const maxStart = 7 * 24 * 3600

var (
	videoIDRe = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\s?]+)`)
	tParamRe  = regexp.MustCompile(`[?&]t=([^&]+)`)
	startRe   = regexp.MustCompile(`[?&]start=(\d+)`)
	hoursRe   = regexp.MustCompile(`(\d+)h`)
	minutesRe = regexp.MustCompile(`(\d+)m`)
	secondsRe = regexp.MustCompile(`(\d+)s?$`)
)

// VideoReference is a reference video and the offset, in seconds, the
// corner starts at.
type VideoReference struct {
	ID    string `json:"id"`
	Start int    `json:"start"`
}

// ParseVideoReference extracts the video id and start offset from a watch,
// short or embed link. The offset comes from t=1h2m3s (any subset, a bare
// number means seconds) or start=N, which wins when both are present.
// Returns nil when no video id is found.
func ParseVideoReference(url string) *VideoReference {
	m := videoIDRe.FindStringSubmatch(url)
	if m == nil {
		return nil
	}
	ref := &VideoReference{ID: m[1]}

	if t := tParamRe.FindStringSubmatch(url); t != nil {
		h := capture(hoursRe, t[1])
		m := capture(minutesRe, t[1])
		s := capture(secondsRe, t[1])
		ref.Start = min(3600*h+60*m+s, maxStart)
	}
	if s := startRe.FindStringSubmatch(url); s != nil {
		ref.Start = atoi(s[1])
	}
	return ref
}

// EmbedURL returns the embeddable player URL.
func (v VideoReference) EmbedURL() string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s?start=%d&rel=0&modestbranding=1", v.ID, v.Start)
}

// EmbedURL parses url and returns its player URL, or nil.
func EmbedURL(url *string) *string {
	if url == nil || *url == "" {
		return nil
	}
	ref := ParseVideoReference(*url)
	if ref == nil {
		return nil
	}
	embed := ref.EmbedURL()
	return &embed
}

func capture(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	return atoi(m[1])
}

// atoi parses a non-negative offset component, clamped to maxStart.
// Unparseable input counts as zero.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	var ne *strconv.NumError
	if errors.As(err, &ne) && ne.Err == strconv.ErrRange {
		return maxStart
	}
	if err != nil {
		return 0
	}
	return min(n, maxStart)
}
