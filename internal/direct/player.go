package direct

import (
	"errors"
	"html"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// playerData is the JSON some music pages embed for their web player.
type playerData struct {
	Artist string `json:"artist"`
	Tracks []struct {
		Title string `json:"title"`
		File  *struct {
			MP3 string `json:"mp3-128"`
		} `json:"file"`
	} `json:"trackinfo"`
	Current *struct {
		Title string `json:"title"`
	} `json:"current"`
}

var concatPattern = regexp.MustCompile(`(url: ".+)" \+ "(.+",)`)

// extractPlayerData returns the unescaped data-tralbum attribute value.
func extractPlayerData(page string) (string, error) {
	const startString = `data-tralbum="{`
	const stopString = `}"`

	start := strings.Index(page, startString)
	if start == -1 {
		return "", errors.New("no player data")
	}
	start += len(startString) - 1
	rest := page[start:]

	end := strings.Index(rest, stopString)
	if end == -1 {
		return "", errors.New("unterminated player data")
	}
	return html.UnescapeString(rest[:end+1]), nil
}

// parsePlayerData decodes embedded player data. Some pages build URLs by
// string concatenation inside the object, which is joined before decoding.
func parsePlayerData(page string) (*playerData, error) {
	raw, err := extractPlayerData(page)
	if err != nil {
		return nil, err
	}
	raw = concatPattern.ReplaceAllString(raw, "${1}${2}")

	var pd playerData
	if err := json.Unmarshal([]byte(raw), &pd); err != nil {
		return nil, err
	}
	return &pd, nil
}

// firstTrack returns the title and file URL of the first playable track.
func (pd *playerData) firstTrack() (title, file string) {
	for _, t := range pd.Tracks {
		if t.File == nil || t.File.MP3 == "" {
			continue
		}
		file = t.File.MP3
		if strings.HasPrefix(file, "//") {
			file = "https:" + file
		}
		return t.Title, file
	}
	return "", ""
}
