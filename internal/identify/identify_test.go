package identify

import "testing"

func TestIdentify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want *Match
	}{
		{"youtube watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", &Match{Service: YouTube, ID: "dQw4w9WgXcQ"}},
		{"youtube extra params", "https://youtube.com/watch?feature=share&v=dQw4w9WgXcQ&t=42", &Match{Service: YouTube, ID: "dQw4w9WgXcQ"}},
		{"youtu.be", "youtu.be/dQw4w9WgXcQ", &Match{Service: YouTube, ID: "dQw4w9WgXcQ"}},
		{"youtube music", "https://music.youtube.com/watch?v=dQw4w9WgXcQ", &Match{Service: YouTubeMusic, ID: "dQw4w9WgXcQ"}},
		{"soundcloud", "https://soundcloud.com/user-1/track_name", &Match{Service: SoundCloud, User: "user-1", Track: "track_name"}},
		{"spotify track", "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT", &Match{Service: Spotify, ID: "4cOdK2wGLETKBW3PvgPWqT"}},
		{"spotify album", "spotify.com/album/1ATL5GLyefJaxhQzSPVrLX", &Match{Service: Spotify, ID: "1ATL5GLyefJaxhQzSPVrLX"}},
		{"youtube id too long", "https://www.youtube.com/watch?v=dQw4w9WgXcQx", nil},
		{"soundcloud user only", "https://soundcloud.com/user", nil},
		{"unknown", "https://example.com/watch?v=dQw4w9WgXcQ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Identify(tt.url)
			if ok != (tt.want != nil) {
				t.Fatalf("Identify(%q) ok = %v, want %v", tt.url, ok, tt.want != nil)
			}
			if ok && *got != *tt.want {
				t.Errorf("Identify(%q) = %+v, want %+v", tt.url, *got, *tt.want)
			}
		})
	}
}
